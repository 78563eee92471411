// Package probe provides ffprobe-based media inspection and a typed result
// structure. A single JSON call per file yields dimensions, duration, codec,
// and the embedded creation_time tag together.
package probe
