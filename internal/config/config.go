// Package config holds runtime configuration: defaults, optional TOML file
// loading, and validation. The per-item timeout is threaded into the
// compositor at construction time rather than living in a process-wide
// constant.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// --- Enum types for validated string fields ---

// FitMode controls how the overlay is fitted onto the primary canvas.
type FitMode string

const (
	FitCover   FitMode = "cover"   // Scale to cover, center-crop overflow (default).
	FitContain FitMode = "contain" // Scale to fit, pad with transparency.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ConfigFileName is the optional per-folder settings file looked up inside
// the input folder before a run.
const ConfigFileName = "snapfix.toml"

// fileConfig mirrors the TOML file surface. Only fields present in the file
// override defaults; CLI flags are applied afterwards by the command layer.
type fileConfig struct {
	TimeoutSeconds  *int     `toml:"timeout_seconds"`
	FitMode         *string  `toml:"fit_mode"`
	AspectTolerance *float64 `toml:"aspect_tolerance"`
	OutputDirName   *string  `toml:"output_dir_name"`
	ReportName      *string  `toml:"report_name"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], then mutated by CLI flag binding before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from the positional arg).
	InputDir string

	// Merge behavior.
	TimeoutSeconds  int     // Per-item compositor wall-clock timeout. Default: 60.
	FitMode         FitMode // Default: "cover".
	AspectTolerance float64 // Aspect-ratio match tolerance. Default: 0.01.

	// Output layout.
	OutputDirName string // Folder created inside InputDir. Default: "Snapchat memories fixed".
	ReportName    string // Skip report file inside the output folder. Default: "skipped_report.txt".

	// Behavior flags.
	DryRun bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [LoadFile] and CLI flags apply overrides.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:  60,
		FitMode:         FitCover,
		AspectTolerance: 0.01,
		OutputDirName:   "Snapchat memories fixed",
		ReportName:      "skipped_report.txt",
		ColorMode:       ColorAuto,
	}
}

// LoadFile overlays settings from a snapfix.toml at path onto cfg. A missing
// file is not an error; a malformed one is.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *fc.TimeoutSeconds
	}
	if fc.FitMode != nil {
		cfg.FitMode = FitMode(strings.ToLower(strings.TrimSpace(*fc.FitMode)))
	}
	if fc.AspectTolerance != nil {
		cfg.AspectTolerance = *fc.AspectTolerance
	}
	if fc.OutputDirName != nil {
		cfg.OutputDirName = *fc.OutputDirName
	}
	if fc.ReportName != nil {
		cfg.ReportName = *fc.ReportName
	}
	return nil
}

// LoadFolderFile overlays the snapfix.toml found inside the input folder,
// if one exists.
func LoadFolderFile(cfg *Config) error {
	if cfg.InputDir == "" {
		return nil
	}
	return LoadFile(cfg, filepath.Join(cfg.InputDir, ConfigFileName))
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. When not in CheckOnly
// mode it also requires a non-empty input folder.
func (c *Config) Validate() error {
	switch c.FitMode {
	case FitCover, FitContain:
		// valid
	default:
		return errors.New("invalid fit mode (use 'cover' or 'contain')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be a positive number of seconds (got %d)", c.TimeoutSeconds)
	}
	if c.AspectTolerance < 0 || c.AspectTolerance >= 1 {
		return fmt.Errorf("aspect tolerance must be in [0, 1) (got %g)", c.AspectTolerance)
	}
	if c.OutputDirName == "" || c.OutputDirName != filepath.Base(c.OutputDirName) {
		return errors.New("output dir name must be a bare folder name")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need an input folder")
	}
	return nil
}

// Timeout returns the per-item compositor timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OutputDir returns the absolute output folder path for the configured input.
func (c *Config) OutputDir() string {
	return filepath.Join(c.InputDir, c.OutputDirName)
}

// ReportPath returns the skip report path inside the output folder.
func (c *Config) ReportPath() string {
	return filepath.Join(c.OutputDir(), c.ReportName)
}
