package probe

import "time"

// MediaInfo is the fully parsed output of a single ffprobe JSON call for
// one media file. Width/Height come from the first video stream (stills are
// reported as a one-frame video stream by ffprobe, so the same fields cover
// photos and overlays).
type MediaInfo struct {
	FormatName   string
	Codec        string
	Width        int
	Height       int
	Duration     float64   // Seconds; 0 for stills.
	Size         int64     // Container-reported byte size.
	CreationTime time.Time // Embedded creation_time tag; zero when absent.
}

// HasDimensions reports whether the probe yielded a usable frame size.
func (m *MediaInfo) HasDimensions() bool {
	return m.Width > 0 && m.Height > 0
}

// HasCreationTime reports whether an embedded creation timestamp was found.
func (m *MediaInfo) HasCreationTime() bool {
	return !m.CreationTime.IsZero()
}

// Resolution returns "WxH", or "unknown" when no dimensions were probed.
func (m *MediaInfo) Resolution() string {
	if !m.HasDimensions() {
		return "unknown"
	}
	return itoa(m.Width) + "x" + itoa(m.Height)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
