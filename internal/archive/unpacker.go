// Package archive extracts memories export bundles (zip) into per-item
// scratch directories. Only entries with a recognized media suffix are
// extracted; anything that fails to extract is an error for the caller to
// convert into a per-item skip, never a panic.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Recognized media entry suffixes (lowercase, with leading dot).
var mediaSuffixes = map[string]bool{
	".mp4":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsMediaSuffix reports whether name carries a recognized media suffix.
func IsMediaSuffix(name string) bool {
	return mediaSuffixes[strings.ToLower(filepath.Ext(name))]
}

// Entry is one extracted archive member. Nested entry paths are flattened:
// Name is always the base name, and Path points at the flat file inside the
// scratch directory.
type Entry struct {
	Name     string    // Base name of the entry inside the archive.
	Path     string    // Extracted file path in the scratch directory.
	Size     int64     // Uncompressed byte size.
	Modified time.Time // Archive-stored modification time (UTC).
}

// Extract opens the archive at zipPath and extracts every recognized media
// entry into destDir. Every returned path exists and is fully flushed before
// return. Entries are returned sorted by name for deterministic pairing.
func Extract(zipPath, destDir string) ([]Entry, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", filepath.Base(zipPath), err)
	}
	defer r.Close()

	var entries []Entry
	seen := make(map[string]bool)

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(filepath.FromSlash(f.Name))
		if !IsMediaSuffix(base) {
			continue
		}
		if f.UncompressedSize64 == 0 {
			return nil, fmt.Errorf("zero-byte entry %q", base)
		}
		if seen[base] {
			return nil, fmt.Errorf("duplicate entry name %q after flattening", base)
		}
		seen[base] = true

		dest := filepath.Join(destDir, base)
		if err := extractFile(f, dest); err != nil {
			return nil, fmt.Errorf("extract %q: %w", base, err)
		}

		entries = append(entries, Entry{
			Name:     base,
			Path:     dest,
			Size:     int64(f.UncompressedSize64),
			Modified: f.Modified.UTC(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// extractFile copies one archive member to dest and syncs it so the path is
// readable by subprocesses immediately after return.
func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
