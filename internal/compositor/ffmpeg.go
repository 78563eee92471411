package compositor

import (
	"context"
	"fmt"
	"os"
	"time"

	"snapfix/internal/check"
	"snapfix/internal/probe"
)

// FFmpeg is the production Engine backed by the external ffmpeg/ffprobe
// pair. The per-item timeout is fixed at construction; there is no
// process-wide tunable.
type FFmpeg struct {
	ffmpeg  string
	prober  *probe.Prober
	timeout time.Duration
}

var _ Engine = (*FFmpeg)(nil)

// NewFFmpeg builds an Engine around the resolved tool paths.
func NewFFmpeg(tools check.Tools, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpeg:  tools.FFmpeg,
		prober:  probe.New(tools.FFprobe),
		timeout: timeout,
	}
}

// Probe inspects a media file via ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, path string) (*probe.MediaInfo, error) {
	return f.prober.Probe(ctx, path)
}

// Composite executes one merge job. Subprocess strategies run under the
// hard timeout and have their partial output removed on failure; the copy
// strategy is a plain file copy. On success the resolved creation time is
// written onto the output's filesystem timestamps.
func (f *FFmpeg) Composite(ctx context.Context, job Job) Outcome {
	var out Outcome

	switch job.Strategy {
	case StrategyCopy:
		if err := copyFile(job.PrimaryPath, job.OutputPath); err != nil {
			return Outcome{Err: fmt.Errorf("copy primary: %w", err)}
		}
	default:
		args := Build(f.ffmpeg, job)
		stderr, timedOut, err := runWithTimeout(ctx, f.timeout, args)
		out.Stderr = stderr
		out.TimedOut = timedOut
		if err != nil {
			out.Err = err
			removePartial(job.OutputPath)
			return out
		}
	}

	if err := verifyOutput(job.OutputPath); err != nil {
		out.Err = err
		removePartial(job.OutputPath)
		return out
	}

	if err := applyTimes(job.OutputPath, job.CreationTime); err != nil {
		// The merge itself succeeded; a failed time write-back is not worth
		// discarding the output over.
		out.Stderr = err.Error()
	}
	return out
}

// ConvertOverlayToPNG normalizes a real WebP overlay into a PNG the overlay
// filter chain can always decode.
func (f *FFmpeg) ConvertOverlayToPNG(ctx context.Context, src, dst string) error {
	args := buildOverlayConvert(f.ffmpeg, src, dst)
	stderr, timedOut, err := runWithTimeout(ctx, f.timeout, args)
	if err != nil {
		if timedOut {
			return fmt.Errorf("overlay convert: %w", ErrTimeout)
		}
		return fmt.Errorf("overlay convert: %v: %s", err, firstLine(stderr))
	}
	return verifyOutput(dst)
}

// applyTimes stamps the resolved creation time onto the output file's
// access and modification times.
func applyTimes(path string, ts time.Time) error {
	if ts.IsZero() {
		return nil
	}
	return os.Chtimes(path, ts, ts)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
