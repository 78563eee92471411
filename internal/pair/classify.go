package pair

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the coarse media kind that selects the merge strategy.
type Kind int

const (
	KindUnknown Kind = iota
	KindStill        // Photo primary or overlay image.
	KindMotion       // Time-based video primary.
)

func (k Kind) String() string {
	switch k {
	case KindStill:
		return "still"
	case KindMotion:
		return "motion"
	default:
		return "unknown"
	}
}

// Format is a sniffed container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatWebP
	FormatMP4
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatMP4:
		return "mp4"
	default:
		return "unknown"
	}
}

// Kind maps a sniffed format to its media kind.
func (f Format) Kind() Kind {
	switch f {
	case FormatJPEG, FormatPNG, FormatWebP:
		return KindStill
	case FormatMP4:
		return KindMotion
	default:
		return KindUnknown
	}
}

// Class is the per-entry classification variant, resolved in fixed priority
// order: name markers win over signatures, signatures over nothing.
type Class int

const (
	ClassUnknown Class = iota
	ClassNamedPrimary
	ClassNamedOverlay
	ClassSniffedMotion
	ClassSniffedStill
)

// Marker tokens searched in lowercased base names.
const (
	primaryMarker = "-main"
	overlayMarker = "-overlay"
)

// Suffix sets for marker-tagged roles.
var (
	primarySuffixes = map[string]bool{".mp4": true, ".jpg": true, ".jpeg": true}
	overlaySuffixes = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}
)

// HasPrimaryMarker reports whether name is tagged as the main media entry.
func HasPrimaryMarker(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return strings.Contains(base, primaryMarker) && primarySuffixes[filepath.Ext(base)]
}

// HasOverlayMarker reports whether name is tagged as the overlay entry.
func HasOverlayMarker(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return strings.Contains(base, overlayMarker) && overlaySuffixes[filepath.Ext(base)]
}

// CoreStem strips the role tags from a base name's stem, so tagged pairs
// from the same capture share one key ("2019-06-01_a-main.mp4" and
// "2019-06-01_a-overlay.png" both yield "2019-06-01_a").
func CoreStem(name string) string {
	base := strings.ToLower(filepath.Base(name))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, tag := range []string{"-main", "_main", " main", "-overlay", "_overlay", " overlay"} {
		stem = strings.ReplaceAll(stem, tag, "")
	}
	return stem
}

// Sniff classifies leading bytes into one of the recognized container
// formats. The signature wins over any file extension, so a PNG renamed to
// .webp still classifies as PNG.
func Sniff(head []byte) Format {
	switch {
	case len(head) >= 3 && bytes.Equal(head[:3], []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case len(head) >= 8 && bytes.Equal(head[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return FormatPNG
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return FormatWebP
	case len(head) >= 8 && bytes.Equal(head[4:8], []byte("ftyp")):
		return FormatMP4
	default:
		return FormatUnknown
	}
}

// SniffFile reads the leading bytes of path and classifies them.
// Unreadable files classify as FormatUnknown rather than erroring; the
// resolver treats them like any other unclassifiable entry.
func SniffFile(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer f.Close()

	head := make([]byte, 12)
	n, err := io.ReadFull(f, head)
	if err != nil && n < 3 {
		return FormatUnknown
	}
	return Sniff(head[:n])
}
