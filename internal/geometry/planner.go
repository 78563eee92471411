// Package geometry decides how the overlay image is fitted onto the primary
// media's canvas. The canvas always has the primary's native dimensions;
// the overlay is scaled and cropped (or padded) to match, never the other
// way around.
package geometry

import (
	"errors"
	"math"

	"snapfix/internal/config"
)

// ErrOverlayUnusable signals a zero-dimension (unreadable) overlay; the
// caller falls back to the primary-only copy path.
var ErrOverlayUnusable = errors.New("overlay unusable")

// Transform describes the fitting strategy chosen for the overlay.
type Transform int

const (
	// TransformScale scales the overlay uniformly to the canvas; aspect
	// ratios matched within tolerance.
	TransformScale Transform = iota
	// TransformCoverCrop scales the overlay to cover the canvas and
	// center-crops the overflow on the longer axis.
	TransformCoverCrop
	// TransformContainPad scales the overlay to fit inside the canvas and
	// pads the rest with transparency (opt-in via fit_mode = "contain").
	TransformContainPad
)

func (t Transform) String() string {
	switch t {
	case TransformScale:
		return "scale"
	case TransformCoverCrop:
		return "cover-crop"
	case TransformContainPad:
		return "contain-pad"
	default:
		return "unknown"
	}
}

// Plan holds the computed output geometry for one item. CanvasWidth and
// CanvasHeight always equal the primary media's native dimensions.
type Plan struct {
	CanvasWidth  int
	CanvasHeight int

	Transform Transform

	// Overlay dimensions after scaling.
	ScaledWidth  int
	ScaledHeight int

	// Crop origin (cover) or pad origin (contain); zero for plain scale.
	OffsetX int
	OffsetY int
}

// BuildPlan computes the overlay transform for a primary of pw x ph and an
// overlay of ow x oh. A zero-dimension overlay yields ErrOverlayUnusable.
func BuildPlan(cfg *config.Config, pw, ph, ow, oh int) (*Plan, error) {
	if ow <= 0 || oh <= 0 {
		return nil, ErrOverlayUnusable
	}
	pw = max(1, pw)
	ph = max(1, ph)

	plan := &Plan{CanvasWidth: pw, CanvasHeight: ph}

	if aspectsMatch(pw, ph, ow, oh, cfg.AspectTolerance) {
		plan.Transform = TransformScale
		plan.ScaledWidth = pw
		plan.ScaledHeight = ph
		return plan, nil
	}

	if cfg.FitMode == config.FitContain {
		s := math.Min(float64(pw)/float64(ow), float64(ph)/float64(oh))
		plan.Transform = TransformContainPad
		plan.ScaledWidth = max(1, int(math.Round(float64(ow)*s)))
		plan.ScaledHeight = max(1, int(math.Round(float64(oh)*s)))
		plan.OffsetX = max(0, (pw-plan.ScaledWidth)/2)
		plan.OffsetY = max(0, (ph-plan.ScaledHeight)/2)
		return plan, nil
	}

	s := math.Max(float64(pw)/float64(ow), float64(ph)/float64(oh))
	plan.Transform = TransformCoverCrop
	plan.ScaledWidth = max(1, int(math.Round(float64(ow)*s)))
	plan.ScaledHeight = max(1, int(math.Round(float64(oh)*s)))
	plan.OffsetX = max(0, (plan.ScaledWidth-pw)/2)
	plan.OffsetY = max(0, (plan.ScaledHeight-ph)/2)
	return plan, nil
}

// aspectsMatch reports whether the two aspect ratios agree within tol
// (relative to the primary's ratio).
func aspectsMatch(pw, ph, ow, oh int, tol float64) bool {
	pr := float64(pw) / float64(ph)
	or := float64(ow) / float64(oh)
	return math.Abs(pr-or) <= tol*pr
}
