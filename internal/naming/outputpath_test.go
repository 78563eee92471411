package naming

import (
	"path/filepath"
	"testing"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		primary string
		want    string
	}{
		{"video primary", "/in/2019-06-01_abc.zip", "A-main.mp4", "2019-06-01_abc.mp4"},
		{"jpeg normalized", "/in/snap.zip", "B-main.jpeg", "snap.jpg"},
		{"jpg kept", "/in/snap.zip", "B-main.jpg", "snap.jpg"},
		{"uppercase extension", "/in/snap.zip", "B-MAIN.MP4", "snap.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputName(tt.archive, tt.primary)
			if got != tt.want {
				t.Errorf("OutputName(%q, %q) = %q, want %q", tt.archive, tt.primary, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/out", "/in/snap.zip", "x-main.mp4")
	want := filepath.Join("/out", "snap.mp4")
	if got != want {
		t.Errorf("OutputPath: got %q, want %q", got, want)
	}
}

func TestLoosePath(t *testing.T) {
	got := LoosePath("/out", "/in/clip.mp4")
	want := filepath.Join("/out", "clip.mp4")
	if got != want {
		t.Errorf("LoosePath: got %q, want %q", got, want)
	}
}

func TestNormalizeExt(t *testing.T) {
	cases := map[string]string{
		".JPEG": ".jpg",
		".jpeg": ".jpg",
		".JPG":  ".jpg",
		".mp4":  ".mp4",
		".PNG":  ".png",
	}
	for in, want := range cases {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}
