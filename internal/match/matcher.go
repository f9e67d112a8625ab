package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/rs/zerolog"

	"marketplace-recon/internal/catalogue"
)

// DefaultThreshold is the minimum confidence for a scored candidate to rank.
const DefaultThreshold = 0.7

// maxCandidates caps the ranked result list.
const maxCandidates = 5

var (
	reBracket  = regexp.MustCompile(`\[([^\[\]]*)\]\s*$`)
	reNPlusOne = regexp.MustCompile(`(\d+)\s*\+\s*1`)
	reBundleN  = regexp.MustCompile(`(\d+)\s*pack\s*bundle`)
)

type compiledRule struct {
	re   *regexp.Regexp
	name string
}

type compiledMarker struct {
	res     []*regexp.Regexp
	penalty float64
	brand   string
	typ     string
}

// Matcher maps free-text marketplace titles to catalogue entries. It holds
// only immutable rule tables and compiled patterns; per-call state lives on
// the stack, so concurrent Match calls are safe.
type Matcher struct {
	store     *catalogue.Store
	rules     Rules
	norm      *Normalizer
	threshold float64
	log       zerolog.Logger

	special []compiledRule
	markers []compiledMarker
}

func New(store *catalogue.Store, rules Rules, threshold float64, logger zerolog.Logger) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	m := &Matcher{
		store:     store,
		rules:     rules,
		norm:      NewNormalizer(rules),
		threshold: threshold,
		log:       logger,
	}
	for _, r := range rules.SpecialRules {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			logger.Warn().Str("pattern", r.Pattern).Err(err).Msg("special rule skipped")
			continue
		}
		m.special = append(m.special, compiledRule{re: re, name: r.Name})
	}
	for _, v := range rules.VariantMarkers {
		cm := compiledMarker{penalty: v.Penalty, brand: v.Brand, typ: v.Type}
		for _, tok := range v.Tokens {
			cm.res = append(cm.res, regexp.MustCompile(`\b`+regexp.QuoteMeta(tok)+`\b`))
		}
		m.markers = append(m.markers, cm)
	}
	return m
}

// Match runs the override chain, then the generic scorer, at the default
// threshold.
func (m *Matcher) Match(title string) []Candidate {
	return m.MatchThreshold(title, m.threshold)
}

// MatchThreshold is Match with an explicit confidence floor. The override
// stages run in fixed precedence order; the first stage that resolves wins
// and the scorer never sees the title.
func (m *Matcher) MatchThreshold(title string, threshold float64) []Candidate {
	if threshold <= 0 || threshold > 1 {
		threshold = m.threshold
	}

	if c, ok := m.resolveProductSet(title); ok {
		return c
	}
	if c, ok := m.resolveAssorted(title); ok {
		return c
	}

	// bracket rewrite is not a short-circuit by itself: it either resolves
	// directly or hands a rewritten title to the later stages
	working, c, ok := m.resolveBracket(title)
	if ok {
		return c
	}

	if c, ok := m.resolveSpecialRule(working); ok {
		return c
	}
	if c, ok := m.resolveManualCost(working); ok {
		return c
	}

	return m.scoreAll(working, threshold)
}

// scoreAll evaluates every catalogue product and ranks those at or above
// threshold. Stable sort keeps catalogue scan order for equal confidence.
func (m *Matcher) scoreAll(title string, threshold float64) []Candidate {
	nt := m.norm.Normalize(title)
	bundleQty := parseBundleQty(nt.Cleaned)

	var out []Candidate
	for _, p := range m.store.Products() {
		np := m.norm.Normalize(p.Name)
		score, ok := m.score(nt, np)
		if !ok || score < threshold {
			continue
		}
		c := Candidate{
			Code:       p.Code,
			Name:       p.Name,
			Confidence: score,
			UnitPrice:  p.Wholesale,
		}
		if bundleQty > 1 {
			c.Handling = HandlingBundleMultiply
			c.BundleQty = bundleQty
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// parseBundleQty detects "<N> pack bundle" listings. Informational: it does
// not change the score, only the quantity downstream multiplies by.
func parseBundleQty(cleaned string) int {
	if m := reBundleN.FindStringSubmatch(cleaned); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// Suggest returns the closest catalogue name by Jaro-Winkler for a title
// that failed to match. A review aid, never a costed result.
func (m *Matcher) Suggest(title string) (Suggestion, bool) {
	nt := m.norm.Normalize(title)
	if nt.Cleaned == "" {
		return Suggestion{}, false
	}
	var best Suggestion
	for _, p := range m.store.Products() {
		s := matchr.JaroWinkler(nt.Cleaned, strings.ToLower(p.Name), true)
		if s > best.Score {
			best = Suggestion{Code: p.Code, Name: p.Name, Score: s}
		}
	}
	return best, best.Score > 0
}
