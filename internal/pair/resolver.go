// Package pair identifies the primary media entry and its overlay entry
// among the files extracted from one bundle. Name markers ("-main",
// "-overlay") are authoritative; content sniffing by byte signature is the
// fallback when markers are missing or ambiguous.
package pair

import (
	"errors"
	"path/filepath"
	"strings"

	"snapfix/internal/archive"
)

// Sentinel errors converted into skip reasons by the orchestrator.
var (
	ErrNoPrimary = errors.New("no primary media found")
	ErrAmbiguous = errors.New("ambiguous pairing")
)

// Pair is the resolved primary/overlay assignment for one item.
// Overlay is nil when the item proceeds primary-only.
type Pair struct {
	Primary     archive.Entry
	PrimaryKind Kind
	Overlay     *archive.Entry
}

// Resolve picks the primary and overlay entries from an extracted set.
// The input order does not matter; entries are considered in sorted-name
// order, so resolution is deterministic for a given name set.
//
// Marker pass first: a single "-main" candidate wins; several tagged
// candidates are narrowed by core-stem matching against tagged overlays.
// Roles the marker pass leaves open fall back to signature sniffing: a
// motion container or a full-size photo (JPEG) is primary, a remaining
// still image is overlay. Anything still ambiguous after both passes is an
// ErrAmbiguous skip rather than a guess.
func Resolve(entries []archive.Entry) (Pair, error) {
	var mains, overs []archive.Entry
	for _, e := range entries {
		switch {
		case HasPrimaryMarker(e.Name):
			mains = append(mains, e)
		case HasOverlayMarker(e.Name):
			overs = append(overs, e)
		}
	}

	primary, overlay, err := resolveByMarkers(mains, overs)
	if err != nil {
		return Pair{}, err
	}

	if primary == nil {
		primary, err = sniffPrimary(entries, overs)
		if err != nil {
			return Pair{}, err
		}
	}
	if primary == nil {
		return Pair{}, ErrNoPrimary
	}

	if overlay == nil {
		overlay, err = resolveOverlay(*primary, overs, entries)
		if err != nil {
			return Pair{}, err
		}
	}

	return Pair{
		Primary:     *primary,
		PrimaryKind: primaryKind(*primary),
		Overlay:     overlay,
	}, nil
}

// resolveByMarkers handles the tagged-name pass. Returns a nil primary when
// zero tagged candidates exist (sniffing takes over); returns both roles
// when core-stem matching pins a unique pair.
func resolveByMarkers(mains, overs []archive.Entry) (primary, overlay *archive.Entry, err error) {
	switch len(mains) {
	case 0:
		return nil, nil, nil
	case 1:
		return &mains[0], nil, nil
	}

	// Several tagged primaries: a unique core-stem match against a tagged
	// overlay disambiguates; anything else is a skip.
	type stemPair struct {
		main    *archive.Entry
		overlay *archive.Entry
	}
	byStem := make(map[string]*stemPair)
	for i := range mains {
		s := CoreStem(mains[i].Name)
		if byStem[s] == nil {
			byStem[s] = &stemPair{}
		}
		if byStem[s].main == nil {
			byStem[s].main = &mains[i]
		}
	}
	for i := range overs {
		s := CoreStem(overs[i].Name)
		if byStem[s] == nil {
			continue
		}
		if byStem[s].overlay == nil {
			byStem[s].overlay = &overs[i]
		}
	}

	var matched *stemPair
	for _, p := range byStem {
		if p.main != nil && p.overlay != nil {
			if matched != nil {
				return nil, nil, ErrAmbiguous
			}
			matched = p
		}
	}
	if matched == nil {
		return nil, nil, ErrAmbiguous
	}
	return matched.main, matched.overlay, nil
}

// sniffPrimary classifies untagged entries by signature. A motion container
// wins; otherwise a single JPEG photo is the primary.
func sniffPrimary(entries []archive.Entry, overs []archive.Entry) (*archive.Entry, error) {
	tagged := make(map[string]bool, len(overs))
	for _, o := range overs {
		tagged[o.Name] = true
	}

	var motions, photos []archive.Entry
	for _, e := range entries {
		if tagged[e.Name] {
			continue
		}
		switch SniffFile(e.Path) {
		case FormatMP4:
			motions = append(motions, e)
		case FormatJPEG:
			photos = append(photos, e)
		}
	}

	switch {
	case len(motions) == 1:
		return &motions[0], nil
	case len(motions) > 1:
		return nil, ErrAmbiguous
	case len(photos) == 1:
		return &photos[0], nil
	case len(photos) > 1:
		return nil, ErrAmbiguous
	}
	return nil, nil
}

// resolveOverlay picks the overlay for an already-chosen primary. Tagged
// overlays win; with several, a core-stem match against the primary
// disambiguates. With none, a single sniffed still image among the
// remaining entries serves; zero remaining stills means primary-only.
func resolveOverlay(primary archive.Entry, overs []archive.Entry, entries []archive.Entry) (*archive.Entry, error) {
	switch len(overs) {
	case 1:
		return &overs[0], nil
	default:
		if len(overs) > 1 {
			stem := CoreStem(primary.Name)
			var matched *archive.Entry
			for i := range overs {
				if CoreStem(overs[i].Name) == stem {
					if matched != nil {
						return nil, ErrAmbiguous
					}
					matched = &overs[i]
				}
			}
			if matched == nil {
				return nil, ErrAmbiguous
			}
			return matched, nil
		}
	}

	// No tagged overlay: sniff the rest for a still image.
	var stills []archive.Entry
	for _, e := range entries {
		if e.Name == primary.Name {
			continue
		}
		if SniffFile(e.Path).Kind() == KindStill {
			stills = append(stills, e)
		}
	}
	switch len(stills) {
	case 0:
		return nil, nil
	case 1:
		return &stills[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

// primaryKind decides the merge strategy kind for the primary entry.
// The extension decides for well-named entries; the signature decides for
// everything else. Entries neither recognizes come back KindUnknown; the
// caller skips those.
func primaryKind(e archive.Entry) Kind {
	switch strings.ToLower(filepath.Ext(e.Name)) {
	case ".mp4":
		return KindMotion
	case ".jpg", ".jpeg":
		return KindStill
	}
	return SniffFile(e.Path).Kind()
}
