package match

import (
	"strings"

	"github.com/shopspring/decimal"

	"marketplace-recon/internal/catalogue"
)

// The override chain. Each stage returns (candidates, true) to short-circuit
// the scorer, or false to fall through to the next stage. The scorer is the
// default floor, so the chain always terminates.

// resolveProductSet splits "... & ... set" listings into one candidate per
// detected sub-product, each looked up by exact canonical name.
func (m *Matcher) resolveProductSet(title string) ([]Candidate, bool) {
	lower := strings.ToLower(title)

	for _, set := range m.rules.ProductSets {
		if !containsAll(lower, set.Keywords) {
			continue
		}
		var out []Candidate
		for _, member := range set.Members {
			if !containsAll(lower, member.Keywords) {
				continue
			}
			p, ok := m.store.FindByName(member.Name)
			if !ok {
				continue
			}
			out = append(out, Candidate{
				Code:       p.Code,
				Name:       p.Name,
				Confidence: 1.0,
				UnitPrice:  p.Wholesale,
				Handling:   HandlingProductSet,
			})
		}
		if len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

// resolveAssorted aggregates the assorted-cosmetics brands into a single
// synthetic candidate costed from wholesale box pricing.
func (m *Matcher) resolveAssorted(title string) ([]Candidate, bool) {
	lower := strings.ToLower(title)

	hit := false
	for _, b := range m.rules.AssortedBrands {
		if strings.Contains(lower, b) {
			hit = true
			break
		}
	}
	if !hit {
		return nil, false
	}

	unit := m.assortedUnitCost(lower)
	return []Candidate{{
		Code:       AssortedCode,
		Name:       "Assorted Cosmetics",
		Confidence: 1.0,
		UnitPrice:  unit,
		Handling:   HandlingAssorted,
	}}, true
}

func (m *Matcher) assortedUnitCost(lower string) decimal.Decimal {
	subtype := ""
	switch {
	case strings.Contains(lower, "green") && strings.Contains(lower, "soap"):
		subtype = "soap-green"
	case strings.Contains(lower, "kojic") && strings.Contains(lower, "glutathione"):
		subtype = "soap-kojic-glutathione"
	case strings.Contains(lower, "lotion") && strings.Contains(lower, "pump"):
		subtype = "lotion-pump"
	case strings.Contains(lower, "soap"):
		subtype = "soap-default"
	}

	for _, bp := range m.rules.BoxPrices {
		if bp.Subtype == subtype && bp.Units > 0 {
			return decimal.NewFromFloat(bp.BoxPrice).
				Div(decimal.NewFromInt(int64(bp.Units))).
				Round(4)
		}
	}
	return decimal.NewFromFloat(m.rules.AssortedDefault)
}

// resolveBracket handles a trailing "[variant]". The one configured
// brand+variant combination resolves straight to a manual cost; anything
// else rewrites the title with the variant substituted in and continues.
// Returns the (possibly rewritten) working title.
func (m *Matcher) resolveBracket(title string) (string, []Candidate, bool) {
	sub := reBracket.FindStringSubmatch(title)
	if sub == nil {
		return title, nil, false
	}
	variant := strings.ToLower(strings.TrimSpace(sub[1]))
	stripped := strings.TrimSpace(reBracket.ReplaceAllString(title, ""))
	if variant == "" {
		return stripped, nil, false
	}

	nt := m.norm.Normalize(stripped)
	br := m.rules.Bracket
	if br.Brand != "" && nt.Brand == br.Brand && variant == br.Variant {
		return title, []Candidate{{
			Code:       m.codeFor(br.Name),
			Name:       br.Name,
			Confidence: 1.0,
			UnitPrice:  decimal.NewFromFloat(br.Cost),
			Handling:   HandlingManualCost,
		}}, true
	}

	return stripped + " " + variant, nil, false
}

// resolveSpecialRule applies the fixed regex->canonical-name table. First
// matching pattern wins; an unknown canonical name falls through.
func (m *Matcher) resolveSpecialRule(title string) ([]Candidate, bool) {
	lower := strings.ToLower(title)
	for _, rule := range m.special {
		if !rule.re.MatchString(lower) {
			continue
		}
		p, ok := m.store.FindByName(rule.name)
		if !ok {
			m.log.Debug().Str("name", rule.name).Msg("special rule target not in catalogue")
			break
		}
		return []Candidate{{
			Code:       p.Code,
			Name:       p.Name,
			Confidence: 1.0,
			UnitPrice:  p.Wholesale,
		}}, true
	}
	return nil, false
}

// resolveManualCost covers products the catalogue does not carry: the
// fragment table, the brand-specific disambiguation branches, and the
// variant-counting bundle branch.
func (m *Matcher) resolveManualCost(title string) ([]Candidate, bool) {
	lower := strings.ToLower(title)

	for _, mc := range m.rules.ManualCosts {
		if strings.Contains(lower, mc.Fragment) {
			return []Candidate{m.manualCandidate(mc.Name, mc.Cost, 0)}, true
		}
	}

	// Renew Placenta bundles sell several soap variants in one listing;
	// cost is per-unit cost times the number of variants named.
	if strings.Contains(lower, "renew placenta") &&
		(strings.Contains(lower, "&") || strings.Contains(lower, "bundle")) {
		count := 0
		for _, variant := range []string{"classic", "white"} {
			if strings.Contains(lower, variant) {
				count++
			}
		}
		if count >= 2 {
			return []Candidate{m.manualCandidate(
				"Renew Placenta Herbal Beauty Soap Bundle",
				2.50*float64(count),
				count,
			)}, true
		}
	}

	if strings.Contains(lower, "closeup") && strings.Contains(lower, "toothpaste") {
		name := "Closeup Toothpaste"
		switch {
		case strings.Contains(lower, "red hot"):
			name = "Closeup Red Hot Toothpaste"
		case strings.Contains(lower, "menthol"):
			name = "Closeup Menthol Fresh Toothpaste"
		}
		return []Candidate{m.manualCandidate(name, 3.31, 0)}, true
	}

	if strings.Contains(lower, "c. y. gabriel") || strings.Contains(lower, "c.y. gabriel") {
		if strings.Contains(lower, "kojic") {
			return []Candidate{m.manualCandidate("C. Y. Gabriel Kojic Soap 135g", 1.61, 0)}, true
		}
		if strings.Contains(lower, "pink") {
			return []Candidate{m.manualCandidate("C. Y. Gabriel Special Pink Soap 135g", 1.14, 0)}, true
		}
		return []Candidate{m.manualCandidate("C. Y. Gabriel Special Soap", 1.14, 0)}, true
	}

	return nil, false
}

func (m *Matcher) manualCandidate(name string, cost float64, bundleQty int) Candidate {
	return Candidate{
		Code:       m.codeFor(name),
		Name:       name,
		Confidence: 1.0,
		UnitPrice:  decimal.NewFromFloat(cost),
		Handling:   HandlingManualCost,
		BundleQty:  bundleQty,
	}
}

// codeFor returns the CMS code when the canonical name happens to exist in
// the catalogue, NO_CODE otherwise.
func (m *Matcher) codeFor(name string) string {
	if p, ok := m.store.FindByName(name); ok {
		return p.Code
	}
	return catalogue.NoCode
}

func containsAll(s string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}
