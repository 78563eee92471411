package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Completed        int
	Skipped          int
	Degraded         int
	TotalInputBytes  int64
	TotalOutputBytes int64
}
