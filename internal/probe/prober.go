package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Prober wraps a resolved ffprobe binary path.
type Prober struct {
	ffprobe string
}

// New returns a Prober that invokes the given ffprobe binary.
func New(ffprobePath string) *Prober {
	return &Prober{ffprobe: ffprobePath}
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result. One call yields dimensions, duration, codec, and the embedded
// creation_time tag together, so no second probe is needed per file.
func (p *Prober) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, p.ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Duration  string            `json:"duration"`
	Tags      map[string]string `json:"tags"`
}

// --- Conversion from wire types to the domain type ---

func buildResult(raw *ffprobeOutput) *MediaInfo {
	m := &MediaInfo{
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
		Size:       parseInt64(raw.Format.Size),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" {
			continue
		}
		m.Codec = s.CodecName
		m.Width = s.Width
		m.Height = s.Height
		if m.Duration == 0 {
			m.Duration = parseFloat(s.Duration)
		}
		break
	}

	if ts, ok := creationTimeTag(raw.Format.Tags); ok {
		m.CreationTime = ts
	}
	return m
}

// creationTimeTag extracts and parses the creation_time format tag.
// ffprobe emits it in a handful of shapes depending on the muxer; space
// separators are normalized to 'T' before RFC 3339 parsing, matching the
// values Snapchat exports actually carry.
func creationTimeTag(tags map[string]string) (time.Time, bool) {
	v, ok := tags["creation_time"]
	if !ok {
		return time.Time{}, false
	}
	return ParseCreationTime(v)
}

// ParseCreationTime parses an ffprobe creation_time value into a UTC time.
func ParseCreationTime(v string) (time.Time, bool) {
	s := strings.Replace(strings.TrimSpace(v), " ", "T", 1)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
