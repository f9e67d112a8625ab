package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-recon/internal/catalogue"
)

const testCatalogue = `cms_product_code,cms_product_name,retail_price_inc_vat,retail_price_exc_vat,wholesale_price,effective_date
KS-100-3,Kojie San Skin Lightening & Brightening Soap 100g x 3,9.99,8.33,3.90,2026-01-01
KS-135-2,Kojie San Skin Lightening & Brightening Soap 135g x 2,8.99,7.49,3.20,2026-01-01
LK-135,Likas Papaya Herbal Soap 135g,4.99,4.16,1.20,2026-01-01
SLK-300,Silka Papaya Whitening Lotion 300ml,6.99,5.83,2.40,2026-01-01
EX-S-125,Extract Papaya Calamansi Soap 125g,3.99,3.33,1.05,2026-01-01
EX-L-200,Extract Papaya Calamansi Lotion 200ml,5.49,4.58,1.85,2026-01-01
BL-CASE,Likas Papaya Soap (1 case x72),79.99,66.66,60.00,2026-01-01
`

func newTestStore(t *testing.T) *catalogue.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogue), 0o644))
	store := catalogue.Open(path, zerolog.Nop())
	require.Equal(t, 7, store.Len())
	return store
}

func newTestMatcher(t *testing.T, rules Rules) *Matcher {
	t.Helper()
	return New(newTestStore(t), rules, DefaultThreshold, zerolog.Nop())
}

// scorerOnlyRules strips every override table so titles reach the generic
// scorer directly.
func scorerOnlyRules() Rules {
	r := DefaultRules()
	r.SpecialRules = nil
	r.ManualCosts = nil
	r.AssortedBrands = nil
	r.ProductSets = nil
	r.Bracket = BracketRule{}
	return r
}

func TestProductSetSplit(t *testing.T) {
	m := newTestMatcher(t, DefaultRules())

	got := m.Match("Extract Papaya Calamansi Soap 125g & Lotion 200ml Gift Set")
	require.Len(t, got, 2)
	assert.Equal(t, "EX-S-125", got[0].Code)
	assert.Equal(t, "EX-L-200", got[1].Code)
	for _, c := range got {
		assert.Equal(t, 1.0, c.Confidence)
		assert.Equal(t, HandlingProductSet, c.Handling)
	}
}

func TestAssortedAggregation(t *testing.T) {
	m := newTestMatcher(t, DefaultRules())

	tests := []struct {
		name  string
		title string
		unit  string
	}{
		{"green soap box rate", "Flawlessly U Papaya Green Soap x10", "1.5494"},
		{"kojic glutathione box rate", "Flawlessly U Kojic Glutathione Soap", "1.7017"},
		{"lotion pump box rate", "Flawlessly U Whitening Lotion with Pump", "7.3767"},
		{"plain soap box rate", "Flawlessly U Papaya Soap", "1.3504"},
		{"unknown subtype default", "Flawlessly U Face Powder", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.title)
			require.Len(t, got, 1)
			c := got[0]
			assert.Equal(t, AssortedCode, c.Code)
			assert.Equal(t, 1.0, c.Confidence)
			assert.Equal(t, HandlingAssorted, c.Handling)
			assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString(tt.unit)),
				"unit price %s", c.UnitPrice)
		})
	}
}

func TestBracketVariant(t *testing.T) {
	m := newTestMatcher(t, DefaultRules())

	t.Run("configured brand resolves to manual cost", func(t *testing.T) {
		got := m.Match("C. Y. Gabriel Special Soap 135g [Kojic]")
		require.Len(t, got, 1)
		c := got[0]
		assert.Equal(t, "C. Y. Gabriel Kojic Soap 135g", c.Name)
		assert.Equal(t, catalogue.NoCode, c.Code)
		assert.Equal(t, HandlingManualCost, c.Handling)
		assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString("1.61")))
	})

	t.Run("other brackets rewrite the title and continue", func(t *testing.T) {
		got := m.Match("Silka Papaya Lotion [300ml]")
		require.Len(t, got, 1)
		assert.Equal(t, "SLK-300", got[0].Code)
		assert.Equal(t, 1.0, got[0].Confidence)
	})
}

func TestSpecialRules(t *testing.T) {
	m := newTestMatcher(t, DefaultRules())

	t.Run("first matching pattern wins", func(t *testing.T) {
		got := m.Match("Kojie San Trio Pack Deal")
		require.Len(t, got, 1)
		c := got[0]
		assert.Equal(t, "KS-100-3", c.Code)
		assert.Equal(t, 1.0, c.Confidence)
		assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString("3.9")))
		assert.Equal(t, HandlingNone, c.Handling)
	})

	t.Run("missing canonical name falls through", func(t *testing.T) {
		// the Belo duo rule targets a product this catalogue lacks, and
		// nothing downstream scores above threshold
		got := m.Match("Belo Kojic Soap Duo")
		assert.Empty(t, got)
	})
}

func TestManualCosts(t *testing.T) {
	m := newTestMatcher(t, DefaultRules())

	tests := []struct {
		name      string
		title     string
		wantName  string
		wantCost  string
		bundleQty int
	}{
		{"sulfur soap", "Dr. S. Wong's Sulfur Soap 80g", "Dr. S. Wong's Sulfur Soap 80g", "1.1", 0},
		{"sulfur moisturising soap", "Dr. S. Wong's Sulfur Moisturising Soap 80g", "Dr. S. Wong's Sulfur Moisturising Soap 80g", "1.18", 0},
		{"closeup flavour branch", "Closeup Red Hot Toothpaste 145g", "Closeup Red Hot Toothpaste", "3.31", 0},
		{"gabriel pink branch", "C.Y. Gabriel Pink Soap", "C. Y. Gabriel Special Pink Soap 135g", "1.14", 0},
		{"gabriel default branch", "C.Y. Gabriel Soap Original", "C. Y. Gabriel Special Soap", "1.14", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.title)
			require.Len(t, got, 1)
			c := got[0]
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, catalogue.NoCode, c.Code)
			assert.Equal(t, 1.0, c.Confidence)
			assert.Equal(t, HandlingManualCost, c.Handling)
			assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString(tt.wantCost)),
				"unit price %s", c.UnitPrice)
			assert.Equal(t, tt.bundleQty, c.BundleQty)
		})
	}

	t.Run("renew placenta bundle counts variants", func(t *testing.T) {
		got := m.Match("Renew Placenta Classic & White Soap Bundle")
		require.Len(t, got, 1)
		c := got[0]
		assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString("5")), "unit price %s", c.UnitPrice)
		assert.Equal(t, 2, c.BundleQty)
		assert.Equal(t, HandlingManualCost, c.Handling)
	})
}

func TestScoredMatching(t *testing.T) {
	m := newTestMatcher(t, scorerOnlyRules())

	t.Run("near-exact listing ranks its product first", func(t *testing.T) {
		got := m.Match("Kojie San Skin Lightening Soap 100g x 3")
		require.NotEmpty(t, got)
		assert.Equal(t, "KS-100-3", got[0].Code)
		assert.GreaterOrEqual(t, got[0].Confidence, 0.85)
		for _, c := range got {
			assert.GreaterOrEqual(t, c.Confidence, DefaultThreshold)
		}
	})

	t.Run("results capped and sorted descending", func(t *testing.T) {
		got := m.Match("Kojie San Skin Lightening Soap 100g x 3")
		assert.LessOrEqual(t, len(got), 5)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
		}
	})

	t.Run("explicit threshold narrows the result", func(t *testing.T) {
		loose := m.MatchThreshold("Likas Papaya Soap 135g", 0.5)
		tight := m.MatchThreshold("Likas Papaya Soap 135g", 0.99)
		assert.GreaterOrEqual(t, len(loose), len(tight))
		for _, c := range tight {
			assert.GreaterOrEqual(t, c.Confidence, 0.99)
		}
	})

	t.Run("bundle listings carry the multiplier", func(t *testing.T) {
		got := m.Match("Likas Papaya Herbal Soap 135g 3 pack bundle")
		require.NotEmpty(t, got)
		c := got[0]
		assert.Equal(t, "LK-135", c.Code)
		assert.Equal(t, HandlingBundleMultiply, c.Handling)
		assert.Equal(t, 3, c.BundleQty)
	})

	t.Run("empty title matches nothing", func(t *testing.T) {
		assert.Empty(t, m.Match(""))
	})
}

func TestSuggest(t *testing.T) {
	m := newTestMatcher(t, scorerOnlyRules())

	s, ok := m.Suggest("Likas Papaya Herbal")
	require.True(t, ok)
	assert.Equal(t, "Likas Papaya Herbal Soap 135g", s.Name)
	assert.Greater(t, s.Score, 0.8)

	_, ok = m.Suggest("   ")
	assert.False(t, ok)
}

func TestParseBundleQty(t *testing.T) {
	assert.Equal(t, 3, parseBundleQty("likas soap 3 pack bundle"))
	assert.Equal(t, 12, parseBundleQty("soap 12 pack bundle deal"))
	assert.Zero(t, parseBundleQty("likas soap x3"))
	assert.Zero(t, parseBundleQty("likas soap bundle"))
}
