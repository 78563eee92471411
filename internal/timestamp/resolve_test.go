package timestamp

import (
	"testing"
	"time"
)

var (
	t2017 = time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	t2019 = time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	t2021 = time.Date(2021, 1, 15, 9, 30, 0, 0, time.UTC)
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
}

func TestResolve_MinimumOfAllPresent(t *testing.T) {
	r := Resolve(Sources{Embedded: t2019, Archive: t2017, Filesystem: t2021}, fixedNow)

	if !r.Time.Equal(t2017) {
		t.Errorf("Time: got %v, want oldest %v", r.Time, t2017)
	}
	if r.Source != SourceArchive {
		t.Errorf("Source: got %q, want archive", r.Source)
	}
	if r.Degraded {
		t.Error("Degraded should be false when candidates exist")
	}
}

func TestResolve_PartialSources(t *testing.T) {
	cases := []struct {
		name    string
		sources Sources
		want    time.Time
		source  string
	}{
		{"embedded only", Sources{Embedded: t2019}, t2019, SourceEmbedded},
		{"archive only", Sources{Archive: t2017}, t2017, SourceArchive},
		{"filesystem only", Sources{Filesystem: t2021}, t2021, SourceFilesystem},
		{"embedded beats newer fs", Sources{Embedded: t2017, Filesystem: t2021}, t2017, SourceEmbedded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Resolve(tc.sources, fixedNow)
			if !r.Time.Equal(tc.want) || r.Source != tc.source || r.Degraded {
				t.Errorf("got {%v %q degraded=%v}, want {%v %q degraded=false}",
					r.Time, r.Source, r.Degraded, tc.want, tc.source)
			}
		})
	}
}

func TestResolve_AllAbsentFallsBackDegraded(t *testing.T) {
	r := Resolve(Sources{}, fixedNow)

	if !r.Degraded {
		t.Error("Degraded should be set when no candidate exists")
	}
	if r.Source != SourceFallback {
		t.Errorf("Source: got %q, want fallback", r.Source)
	}
	if !r.Time.Equal(fixedNow()) {
		t.Errorf("Time: got %v, want fixed now", r.Time)
	}
}

func TestResolve_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("plus2", 2*3600)
	local := time.Date(2019, 6, 1, 14, 0, 0, 0, loc) // 12:00 UTC
	r := Resolve(Sources{Embedded: local}, fixedNow)

	if r.Time.Location() != time.UTC {
		t.Errorf("Location: got %v, want UTC", r.Time.Location())
	}
	if !r.Time.Equal(t2019) {
		t.Errorf("Time: got %v, want %v", r.Time, t2019)
	}
}

func TestEarliest(t *testing.T) {
	var zero time.Time
	cases := []struct {
		a, b, want time.Time
	}{
		{t2017, t2019, t2017},
		{t2019, t2017, t2017},
		{zero, t2019, t2019},
		{t2019, zero, t2019},
		{zero, zero, zero},
	}
	for _, tc := range cases {
		if got := Earliest(tc.a, tc.b); !got.Equal(tc.want) {
			t.Errorf("Earliest(%v, %v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
