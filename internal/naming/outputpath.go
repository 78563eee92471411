// Package naming builds output file names. Merged items are named after
// their source archive so a rerun lands on the same path and overwrites
// the previous output.
package naming

import (
	"path/filepath"
	"strings"
)

// NormalizeExt lowercases an extension and canonicalizes ".jpeg" to ".jpg".
func NormalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == ".jpeg" {
		return ".jpg"
	}
	return ext
}

// OutputName returns the output file name for an item extracted from an
// archive: the archive's stem with the primary entry's normalized extension.
func OutputName(archivePath, primaryName string) string {
	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	return stem + NormalizeExt(filepath.Ext(primaryName))
}

// OutputPath joins the output directory and the item's output name.
func OutputPath(outputDir, archivePath, primaryName string) string {
	return filepath.Join(outputDir, OutputName(archivePath, primaryName))
}

// LoosePath returns the output path for a loose (non-archive) source file,
// which keeps its own name.
func LoosePath(outputDir, sourcePath string) string {
	return filepath.Join(outputDir, filepath.Base(sourcePath))
}
