// Package check provides system diagnostics (--check mode) and startup
// dependency resolution for the external ffmpeg/ffprobe pair.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Sentinel errors returned by Locate when a required tool is missing.
// A missing tool is the only batch-aborting condition; everything later in
// the run degrades to a per-item skip.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH or next to the input folder")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH or next to the input folder")
)

// Tools holds the resolved paths of the external transcoding/probing pair.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Locate resolves ffmpeg and ffprobe. Search order: system PATH, then the
// root folder itself, then root/ffmpeg/bin, then root/bin. The subfolder
// candidates let users drop a portable ffmpeg build next to their export
// folder without touching PATH.
func Locate(rootFolder string) (Tools, error) {
	var t Tools
	t.FFmpeg = findBinary("ffmpeg", rootFolder)
	t.FFprobe = findBinary("ffprobe", rootFolder)

	if t.FFmpeg == "" {
		return t, ErrFfmpegNotFound
	}
	if t.FFprobe == "" {
		return t, ErrFfprobeNotFound
	}
	return t, nil
}

// findBinary returns the first existing candidate path for name, or "".
func findBinary(name, rootFolder string) string {
	if p, err := exec.LookPath(name); err == nil {
		return p
	}

	file := name
	if runtime.GOOS == "windows" {
		file += ".exe"
	}
	candidates := []string{
		filepath.Join(rootFolder, file),
		filepath.Join(rootFolder, "ffmpeg", "bin", file),
		filepath.Join(rootFolder, "bin", file),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// RunCheck runs the interactive --check flow: prints availability and
// versions of ffmpeg/ffprobe and runs a minimal overlay filter test encode.
// Returns false when a required tool is missing or the test fails.
func RunCheck(rootFolder string, log Logger) bool {
	log.Info("=== System Check ===")

	tools, err := Locate(rootFolder)
	if err != nil {
		log.Error("%v", err)
		return false
	}

	ok := true
	ok = logVersion(log, "ffmpeg", tools.FFmpeg) && ok
	ok = logVersion(log, "ffprobe", tools.FFprobe) && ok

	log.Info("Testing overlay filter...")
	if testOverlay(tools.FFmpeg) {
		log.Success("overlay filter works")
	} else {
		log.Error("overlay filter test encode failed")
		ok = false
	}
	return ok
}

// logVersion prints the first line of "<tool> -version" output.
func logVersion(log Logger, name, path string) bool {
	cmd := exec.Command(path, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Error("%s found at %s but -version failed: %v", name, path, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

// testOverlay runs a minimal ffmpeg encode compositing one synthetic frame
// over another, exercising the same scale/crop/overlay filters the pipeline
// uses.
func testOverlay(ffmpegPath string) bool {
	return runSilent(ffmpegPath,
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=64x64:d=0.1",
		"-f", "lavfi", "-i", "color=white:s=32x48:d=0.1",
		"-filter_complex", "[1:v]scale=64:96,crop=64:64:0:16,format=rgba[ov];[0:v][ov]overlay=0:0:format=auto",
		"-frames:v", "1",
		"-f", "null", "-",
	)
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
