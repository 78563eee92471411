package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// buildZip writes a zip at path containing the given name→content entries.
func buildZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		hdr.Modified = time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	buildZip(t, zipPath, map[string]string{
		"A-main.mp4":    "video bytes",
		"A-overlay.png": "png bytes",
		"metadata.json": "ignored",
	})

	dest := t.TempDir()
	entries, err := Extract(zipPath, dest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (json filtered)", len(entries))
	}
	// Sorted by name.
	if entries[0].Name != "A-main.mp4" || entries[1].Name != "A-overlay.png" {
		t.Errorf("entry order: got %q, %q", entries[0].Name, entries[1].Name)
	}

	for _, e := range entries {
		data, err := os.ReadFile(e.Path)
		if err != nil {
			t.Errorf("extracted file %s unreadable: %v", e.Path, err)
			continue
		}
		if int64(len(data)) != e.Size {
			t.Errorf("%s: size %d, want %d", e.Name, len(data), e.Size)
		}
		if e.Modified.IsZero() {
			t.Errorf("%s: archive mtime not carried", e.Name)
		}
	}
}

func TestExtractFlattensNestedPaths(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "nested.zip")
	buildZip(t, zipPath, map[string]string{
		"memories/2019/B-main.jpg": "jpeg bytes",
	})

	dest := t.TempDir()
	entries, err := Extract(zipPath, dest)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "B-main.jpg" {
		t.Errorf("Name: got %q, want flattened base name", entries[0].Name)
	}
	if entries[0].Path != filepath.Join(dest, "B-main.jpg") {
		t.Errorf("Path: got %q, want flat file in dest", entries[0].Path)
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "corrupt.zip")
	if err := os.WriteFile(zipPath, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Extract(zipPath, t.TempDir()); err == nil {
		t.Error("corrupt archive should error")
	}
}

func TestExtractZeroByteEntry(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "empty.zip")
	buildZip(t, zipPath, map[string]string{
		"C-main.mp4": "",
	})

	if _, err := Extract(zipPath, t.TempDir()); err == nil {
		t.Error("zero-byte entry should error")
	}
}

func TestExtractDuplicateFlattenedName(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "dup.zip")
	buildZip(t, zipPath, map[string]string{
		"a/D-main.mp4": "one",
		"b/D-main.mp4": "two",
	})

	if _, err := Extract(zipPath, t.TempDir()); err == nil {
		t.Error("duplicate flattened names should error")
	}
}

func TestIsMediaSuffix(t *testing.T) {
	cases := map[string]bool{
		"x-main.MP4":    true,
		"x-overlay.png": true,
		"x.jpeg":        true,
		"x.webp":        true,
		"x.json":        false,
		"x.txt":         false,
		"noext":         false,
	}
	for name, want := range cases {
		if got := IsMediaSuffix(name); got != want {
			t.Errorf("IsMediaSuffix(%q): got %v, want %v", name, got, want)
		}
	}
}
