// Package compositor merges a primary capture with its overlay caption by
// driving an external ffmpeg process. It builds the argument list from a
// geometry plan, enforces a hard per-item timeout, verifies the output
// exists, and cleans up partial files after failures.
package compositor
