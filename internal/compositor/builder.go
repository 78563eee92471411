package compositor

import (
	"fmt"
	"time"

	"snapfix/internal/geometry"
)

// Build constructs the complete ffmpeg argument slice for a job. The video
// path re-encodes with x264 at a visually lossless CRF so the static
// overlay survives; the photo path emits a single high-quality frame;
// passthrough copies all streams and only rewrites container metadata.
func Build(ffmpegPath string, job Job) []string {
	args := make([]string, 0, 32)
	args = append(args, ffmpegPath, "-hide_banner", "-loglevel", "error", "-y")

	switch job.Strategy {
	case StrategyVideoOverlay:
		args = append(args,
			"-i", job.PrimaryPath,
			"-loop", "1", "-i", job.OverlayPath,
			"-filter_complex", FilterComplex(job.Geometry),
			"-metadata", "creation_time="+isoUTC(job.CreationTime),
			"-c:v", "libx264", "-preset", "veryfast", "-crf", "18",
			"-c:a", "copy",
			"-shortest",
			"-movflags", "+faststart",
			"-pix_fmt", "yuv420p",
			job.OutputPath,
		)

	case StrategyImageOverlay:
		args = append(args,
			"-i", job.PrimaryPath,
			"-i", job.OverlayPath,
			"-filter_complex", FilterComplex(job.Geometry),
			"-frames:v", "1",
			"-q:v", "2",
			job.OutputPath,
		)

	case StrategyPassthroughVideo:
		args = append(args,
			"-i", job.PrimaryPath,
			"-metadata", "creation_time="+isoUTC(job.CreationTime),
			"-c", "copy",
			"-movflags", "+faststart",
			job.OutputPath,
		)
	}

	return args
}

// FilterComplex renders the geometry plan into the ffmpeg filter graph.
// The overlay is input 1, the primary input 0; the overlay chain ends in
// rgba so partially transparent captions blend correctly.
func FilterComplex(plan *geometry.Plan) string {
	switch plan.Transform {
	case geometry.TransformCoverCrop:
		return fmt.Sprintf(
			"[1:v]scale=%d:%d,crop=%d:%d:%d:%d,format=rgba[ov];[0:v][ov]overlay=0:0:format=auto",
			plan.ScaledWidth, plan.ScaledHeight,
			plan.CanvasWidth, plan.CanvasHeight, plan.OffsetX, plan.OffsetY,
		)
	case geometry.TransformContainPad:
		return fmt.Sprintf(
			"[1:v]scale=%d:%d,format=rgba,pad=%d:%d:%d:%d:color=0x00000000[ov];[0:v][ov]overlay=0:0:format=auto",
			plan.ScaledWidth, plan.ScaledHeight,
			plan.CanvasWidth, plan.CanvasHeight, plan.OffsetX, plan.OffsetY,
		)
	default:
		return fmt.Sprintf(
			"[1:v]scale=%d:%d,format=rgba[ov];[0:v][ov]overlay=0:0:format=auto",
			plan.ScaledWidth, plan.ScaledHeight,
		)
	}
}

// buildOverlayConvert returns the one-frame pass that normalizes a real
// WebP overlay to PNG before compositing.
func buildOverlayConvert(ffmpegPath, src, dst string) []string {
	return []string{
		ffmpegPath, "-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-frames:v", "1",
		dst,
	}
}

func isoUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
