package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// killGrace is how long a timed-out process gets to die before Wait gives
// up on collecting it.
const killGrace = 5 * time.Second

// runWithTimeout executes args[0] with a hard wall-clock limit. On expiry
// the process is killed and timedOut is reported; the batch never blocks on
// a wedged compositor.
func runWithTimeout(ctx context.Context, timeout time.Duration, args []string) (stderr string, timedOut bool, err error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.WaitDelay = killGrace

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	if runErr != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return stderrBuf.String(), true, fmt.Errorf("killed after %s: %w", timeout, ErrTimeout)
	}
	return stderrBuf.String(), false, runErr
}

// verifyOutput confirms the compositor actually produced a non-empty file.
func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ErrNoOutput
	}
	if info.Size() == 0 {
		return fmt.Errorf("zero bytes written: %w", ErrNoOutput)
	}
	return nil
}

// removePartial deletes a half-written output after a failed or timed-out
// merge so a rerun starts clean.
func removePartial(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
}

// copyFile copies src to dst, truncating any existing file, and flushes it
// before returning.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
