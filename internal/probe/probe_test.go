package probe

import (
	"testing"
	"time"
)

const videoJSON = `{
  "streams": [
    {"codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "duration": "10.010000"},
    {"codec_name": "aac", "codec_type": "audio", "duration": "10.010000"}
  ],
  "format": {
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "10.010000",
    "size": "5242880",
    "tags": {"creation_time": "2019-06-01T12:30:45.000000Z"}
  }
}`

const stillJSON = `{
  "streams": [
    {"codec_name": "png", "codec_type": "video", "width": 1080, "height": 1920}
  ],
  "format": {"format_name": "png_pipe"}
}`

func TestParseJSON_Video(t *testing.T) {
	m, err := ParseJSON([]byte(videoJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if m.Codec != "h264" {
		t.Errorf("Codec: got %q", m.Codec)
	}
	if m.Width != 1920 || m.Height != 1080 {
		t.Errorf("dimensions: got %dx%d, want 1920x1080", m.Width, m.Height)
	}
	if m.Duration < 10.0 || m.Duration > 10.1 {
		t.Errorf("Duration: got %g", m.Duration)
	}
	if m.Size != 5242880 {
		t.Errorf("Size: got %d", m.Size)
	}

	want := time.Date(2019, 6, 1, 12, 30, 45, 0, time.UTC)
	if !m.HasCreationTime() || !m.CreationTime.Equal(want) {
		t.Errorf("CreationTime: got %v, want %v", m.CreationTime, want)
	}
}

func TestParseJSON_Still(t *testing.T) {
	m, err := ParseJSON([]byte(stillJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if m.Codec != "png" {
		t.Errorf("Codec: got %q", m.Codec)
	}
	if !m.HasDimensions() {
		t.Error("HasDimensions: got false")
	}
	if m.Duration != 0 {
		t.Errorf("Duration: got %g, want 0 for a still", m.Duration)
	}
	if m.HasCreationTime() {
		t.Errorf("CreationTime should be absent, got %v", m.CreationTime)
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json")); err == nil {
		t.Error("malformed JSON should error")
	}
}

func TestParseCreationTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2019-06-01T12:30:45.000000Z", time.Date(2019, 6, 1, 12, 30, 45, 0, time.UTC), true},
		{"2019-06-01 12:30:45", time.Date(2019, 6, 1, 12, 30, 45, 0, time.UTC), true},
		{"2019-06-01T12:30:45+02:00", time.Date(2019, 6, 1, 10, 30, 45, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCreationTime(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseCreationTime(%q): ok=%v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(tc.want) {
			t.Errorf("ParseCreationTime(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestResolution(t *testing.T) {
	m := &MediaInfo{Width: 1920, Height: 1080}
	if got := m.Resolution(); got != "1920x1080" {
		t.Errorf("Resolution: got %q", got)
	}
	empty := &MediaInfo{}
	if got := empty.Resolution(); got != "unknown" {
		t.Errorf("Resolution (empty): got %q", got)
	}
}
