package match

import (
	"regexp"
	"strconv"
	"strings"
)

// score computes the confidence that a listing (nt) refers to a catalogue
// product (np). All adjustments are additive onto the base sequence ratio,
// then the sum is clamped to [0,1]. The second return is false when the
// product is excluded outright by the type filter.
//
// Brand and type act as near-binary gates: a cross-brand or cross-type match
// is never an acceptable substitution when the result prices a resale.
// Size, pack, and variant penalties are softer because listings are noisy
// and a near-miss is still useful to a reviewer.
func (m *Matcher) score(nt, np Normalized) (float64, bool) {
	w := m.rules.Weights
	s := sequenceRatio(nt.Cleaned, np.Cleaned)

	if nt.Brand != "" && np.Brand != "" {
		if nt.Brand == np.Brand {
			s += w.BrandMatch
		} else {
			s -= w.BrandMismatch
		}
	}

	// hard filter: skip, not merely penalize
	if nt.Type != "" && np.Type != "" && nt.Type != np.Type {
		return 0, false
	}

	if nt.Size != "" && np.Size != "" {
		if nt.Size == np.Size {
			s += w.SizeMatch
		} else {
			s -= w.SizeMismatch
		}
	}

	s += m.packAdjustment(nt, np)
	s += m.bulkAdjustment(nt.Cleaned, np.Cleaned)
	s -= m.variantPenalty(nt, np)

	if strings.Contains(nt.Cleaned, "bundle") && strings.Contains(np.Cleaned, "(1 case") {
		s -= w.BundleCase
	}

	return clamp01(s), true
}

// packAdjustment compares multipack quantities, allowing a listing "x3" to
// match a catalogue "x2 ... 2+1 free" style entry via the implied total.
func (m *Matcher) packAdjustment(nt, np Normalized) float64 {
	w := m.rules.Weights
	switch {
	case nt.Multipack && np.Multipack:
		if nt.PackQty == np.PackQty {
			return w.PackMatch
		}
		if implied := impliedFreeTotal(np); implied > 0 && nt.PackQty == implied {
			return w.PackFreeMatch
		}
		return -w.PackMismatch
	case nt.Multipack != np.Multipack:
		return -w.PackFlagMismatch
	default:
		return 0
	}
}

// impliedFreeTotal reads "N+1 free" phrasing out of a catalogue name and
// returns the implied unit total, 0 when the name encodes no such promo.
func impliedFreeTotal(np Normalized) int {
	if m := reNPlusOne.FindStringSubmatch(np.Cleaned); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n + 1
	}
	if strings.Contains(np.Cleaned, "free") && np.PackQty > 0 {
		return np.PackQty + 1
	}
	return 0
}

// bulkAdjustment penalizes retail listings matched against wholesale
// box/case catalogue entries, and the inverse.
func (m *Matcher) bulkAdjustment(listing, catName string) float64 {
	w := m.rules.Weights
	catBulk := containsAny(catName, m.rules.BulkCatalogue)
	listingBulk := containsAny(listing, m.rules.BulkListing)

	switch {
	case catBulk && !listingBulk:
		return -w.BulkCatalogue
	case listingBulk && !catBulk:
		return -w.BulkListing
	default:
		return 0
	}
}

// variantPenalty sums the named-variant marker penalties for one-sided
// token mismatches, honoring each marker's brand/type scope.
func (m *Matcher) variantPenalty(nt, np Normalized) float64 {
	total := 0.0
	for _, marker := range m.markers {
		if marker.brand != "" && nt.Brand != marker.brand && np.Brand != marker.brand {
			continue
		}
		if marker.typ != "" && nt.Type != marker.typ && np.Type != marker.typ {
			continue
		}
		inListing := matchesAny(nt.Cleaned, marker.res)
		inCatalogue := matchesAny(np.Cleaned, marker.res)
		if inListing != inCatalogue {
			total += marker.penalty
		}
	}
	return total
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func matchesAny(s string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
