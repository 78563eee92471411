package pair

import (
	"os"
	"path/filepath"
	"testing"

	"snapfix/internal/archive"
)

var (
	jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}
	pngHead  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0}
	webpHead = []byte("RIFF\x20\x00\x00\x00WEBP")
	mp4Head  = []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}
)

// writeEntry creates a file with the given leading bytes and returns an
// archive entry referencing it.
func writeEntry(t *testing.T, dir, name string, head []byte) archive.Entry {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, head, 0o644); err != nil {
		t.Fatal(err)
	}
	return archive.Entry{Name: name, Path: path, Size: int64(len(head))}
}

func TestResolve_TaggedPair(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "A-main.mp4", mp4Head),
		writeEntry(t, dir, "A-overlay.png", pngHead),
	}

	p, err := Resolve(entries)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Primary.Name != "A-main.mp4" {
		t.Errorf("Primary: got %q", p.Primary.Name)
	}
	if p.PrimaryKind != KindMotion {
		t.Errorf("PrimaryKind: got %v, want motion", p.PrimaryKind)
	}
	if p.Overlay == nil || p.Overlay.Name != "A-overlay.png" {
		t.Errorf("Overlay: got %+v", p.Overlay)
	}
}

func TestResolve_PrimaryOnly(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "B-main.jpg", jpegHead),
	}

	p, err := Resolve(entries)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Primary.Name != "B-main.jpg" {
		t.Errorf("Primary: got %q", p.Primary.Name)
	}
	if p.PrimaryKind != KindStill {
		t.Errorf("PrimaryKind: got %v, want still", p.PrimaryKind)
	}
	if p.Overlay != nil {
		t.Errorf("Overlay should be nil, got %q", p.Overlay.Name)
	}
}

func TestResolve_UnclassifiablePrimaryKind(t *testing.T) {
	dir := t.TempDir()
	// Tagged primary whose extension decides nothing and whose bytes carry
	// no signature: the role resolves but the kind stays unknown.
	entries := []archive.Entry{
		writeEntry(t, dir, "junk-main.png", []byte("plain text")),
	}

	p, err := Resolve(entries)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.PrimaryKind != KindUnknown {
		t.Errorf("PrimaryKind: got %v, want unknown", p.PrimaryKind)
	}
}

func TestResolve_SniffFallback(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "clip.bin.mp4", mp4Head),
		writeEntry(t, dir, "caption.png", pngHead),
	}
	// Neither entry carries a marker; sniffing decides both roles.
	p, err := Resolve(entries)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Primary.Name != "clip.bin.mp4" {
		t.Errorf("Primary: got %q", p.Primary.Name)
	}
	if p.Overlay == nil || p.Overlay.Name != "caption.png" {
		t.Errorf("Overlay: got %+v", p.Overlay)
	}
}

func TestResolve_MislabeledWebPIsStill(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "photo.jpg", jpegHead),
		// PNG bytes behind a .webp extension: signature must win.
		writeEntry(t, dir, "sticker.webp", pngHead),
	}

	p, err := Resolve(entries)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Primary.Name != "photo.jpg" {
		t.Errorf("Primary: got %q", p.Primary.Name)
	}
	if p.Overlay == nil || p.Overlay.Name != "sticker.webp" {
		t.Errorf("Overlay: got %+v, want the mislabeled webp", p.Overlay)
	}
}

func TestResolve_NoPrimary(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "caption.png", pngHead),
	}
	if _, err := Resolve(entries); err != ErrNoPrimary {
		t.Errorf("got %v, want ErrNoPrimary", err)
	}
}

func TestResolve_MultipleMainsStemMatched(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "A-main.mp4", mp4Head),
		writeEntry(t, dir, "B-main.mp4", mp4Head),
		writeEntry(t, dir, "B-overlay.png", pngHead),
	}
	// Only stem "b" has both roles; that pair wins.
	p, err := Resolve(entries)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Primary.Name != "B-main.mp4" {
		t.Errorf("Primary: got %q, want stem-matched B-main.mp4", p.Primary.Name)
	}
	if p.Overlay == nil || p.Overlay.Name != "B-overlay.png" {
		t.Errorf("Overlay: got %+v", p.Overlay)
	}
}

func TestResolve_AmbiguousMains(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "A-main.mp4", mp4Head),
		writeEntry(t, dir, "A-overlay.png", pngHead),
		writeEntry(t, dir, "B-main.mp4", mp4Head),
		writeEntry(t, dir, "B-overlay.png", pngHead),
	}
	if _, err := Resolve(entries); err != ErrAmbiguous {
		t.Errorf("got %v, want ErrAmbiguous (two complete pairs)", err)
	}
}

func TestResolve_AmbiguousSniffedMotion(t *testing.T) {
	dir := t.TempDir()
	entries := []archive.Entry{
		writeEntry(t, dir, "one.dat.mp4", mp4Head),
		writeEntry(t, dir, "two.dat.mp4", mp4Head),
	}
	if _, err := Resolve(entries); err != ErrAmbiguous {
		t.Errorf("got %v, want ErrAmbiguous (two sniffed motion entries)", err)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := writeEntry(t, dir, "A-main.mp4", mp4Head)
	b := writeEntry(t, dir, "A-overlay.png", pngHead)

	first, err := Resolve([]archive.Entry{a, b})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve([]archive.Entry{b, a})
	if err != nil {
		t.Fatal(err)
	}
	if first.Primary.Name != second.Primary.Name {
		t.Errorf("primary differs by input order: %q vs %q", first.Primary.Name, second.Primary.Name)
	}
	if first.Overlay.Name != second.Overlay.Name {
		t.Errorf("overlay differs by input order: %q vs %q", first.Overlay.Name, second.Overlay.Name)
	}
}

func TestSniff(t *testing.T) {
	cases := []struct {
		head []byte
		want Format
	}{
		{jpegHead, FormatJPEG},
		{pngHead, FormatPNG},
		{webpHead, FormatWebP},
		{mp4Head, FormatMP4},
		{[]byte("plain text"), FormatUnknown},
		{nil, FormatUnknown},
	}
	for _, tc := range cases {
		if got := Sniff(tc.head); got != tc.want {
			t.Errorf("Sniff(% x): got %v, want %v", tc.head, got, tc.want)
		}
	}
}

func TestCoreStem(t *testing.T) {
	cases := map[string]string{
		"2019-06-01_a-main.mp4":    "2019-06-01_a",
		"2019-06-01_a-overlay.png": "2019-06-01_a",
		"Clip_main.MP4":            "clip",
		"plain.jpg":                "plain",
	}
	for in, want := range cases {
		if got := CoreStem(in); got != want {
			t.Errorf("CoreStem(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestMarkers(t *testing.T) {
	if !HasPrimaryMarker("A-main.mp4") || !HasPrimaryMarker("a-MAIN.JPG") {
		t.Error("primary marker should match case-insensitively")
	}
	if HasPrimaryMarker("A-main.png") {
		t.Error("png is not a primary suffix")
	}
	if !HasOverlayMarker("A-overlay.webp") {
		t.Error("overlay marker should match webp")
	}
	if HasOverlayMarker("A-overlay.mp4") {
		t.Error("mp4 is not an overlay suffix")
	}
}
