package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snapfix/internal/archive"
)

// ItemKind distinguishes archive bundles from loose media files.
type ItemKind int

const (
	ItemArchive ItemKind = iota
	ItemLoose
)

func (k ItemKind) String() string {
	if k == ItemArchive {
		return "archive"
	}
	return "loose"
}

// InputItem is one unit of work found at the top level of the input
// folder. Items are created once per scan and never mutated afterwards.
type InputItem struct {
	Kind ItemKind
	Path string
	Name string // Base name, used as the item's identity in reports.
}

// Discover lists the top level of inputDir and returns archives followed
// by loose media files, each group sorted lexicographically for a
// deterministic processing order. Subdirectories are not descended into;
// the output folder of a previous run is therefore never rescanned.
func Discover(inputDir string) ([]InputItem, error) {
	dirEntries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var archives, loose []InputItem
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		path := filepath.Join(inputDir, name)
		switch {
		case strings.EqualFold(filepath.Ext(name), ".zip"):
			archives = append(archives, InputItem{Kind: ItemArchive, Path: path, Name: name})
		case archive.IsMediaSuffix(name):
			loose = append(loose, InputItem{Kind: ItemLoose, Path: path, Name: name})
		}
	}

	sort.Slice(archives, func(i, j int) bool { return archives[i].Name < archives[j].Name })
	sort.Slice(loose, func(i, j int) bool { return loose[i].Name < loose[j].Name })
	return append(archives, loose...), nil
}
