package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAdjustments(t *testing.T) {
	m := newTestMatcher(t, scorerOnlyRules())
	n := m.norm
	w := m.rules.Weights

	score := func(listing, catName string) (float64, bool) {
		return m.score(n.Normalize(listing), n.Normalize(catName))
	}

	t.Run("identical with all bonuses clamps to one", func(t *testing.T) {
		s, ok := score("kojie san soap 135g x2", "kojie san soap 135g x2")
		require.True(t, ok)
		assert.Equal(t, 1.0, s)
	})

	t.Run("brand mismatch scores below brand match", func(t *testing.T) {
		same, ok := score("likas papaya soap", "likas papaya herbal soap")
		require.True(t, ok)
		cross, ok := score("silka papaya soap", "likas papaya herbal soap")
		require.True(t, ok)
		assert.Greater(t, same, cross)
	})

	t.Run("brand adjustments apply their exact weights", func(t *testing.T) {
		// no size, pack, bulk, or variant signal in these titles, so the
		// score is the base ratio plus the brand term alone
		mismatch, ok := score("likas soap", "silka soap")
		require.True(t, ok)
		assert.InDelta(t, sequenceRatio("likas soap", "silka soap")-w.BrandMismatch, mismatch, 1e-9)

		bonus, ok := score("likas soap", "likas herbal soap")
		require.True(t, ok)
		assert.InDelta(t, sequenceRatio("likas soap", "likas herbal soap")+w.BrandMatch, bonus, 1e-9)
	})

	t.Run("cross-type products are excluded outright", func(t *testing.T) {
		_, ok := score("silka papaya soap 300ml", "Silka Papaya Whitening Lotion 300ml")
		assert.False(t, ok)
	})

	t.Run("size mismatch scores below size match", func(t *testing.T) {
		hit, ok := score("likas soap 135g", "likas herbal soap 135g")
		require.True(t, ok)
		miss, ok := score("likas soap 100g", "likas herbal soap 135g")
		require.True(t, ok)
		assert.Greater(t, hit, miss)
	})

	t.Run("one-sided size is neutral", func(t *testing.T) {
		plain, ok := score("likas soap", "likas herbal soap")
		require.True(t, ok)
		oneSided, ok := score("likas soap", "likas herbal soap 135g")
		require.True(t, ok)
		// only the base ratio differs, never a size penalty
		assert.InDelta(t, plain, oneSided, 0.2)
	})

	t.Run("bundle against cased catalogue entry collapses", func(t *testing.T) {
		s, ok := score("likas soap bundle", "Likas Papaya Soap (1 case x72)")
		require.True(t, ok)
		assert.Equal(t, 0.0, s)
	})
}

func TestPackAdjustment(t *testing.T) {
	m := newTestMatcher(t, scorerOnlyRules())
	n := m.norm
	w := m.rules.Weights

	adj := func(listing, catName string) float64 {
		return m.packAdjustment(n.Normalize(listing), n.Normalize(catName))
	}

	tests := []struct {
		name    string
		listing string
		cat     string
		want    float64
	}{
		{"equal quantities", "soap x3", "soap x3", w.PackMatch},
		{"free promo implied total", "soap x3", "soap x2 + 1 free", w.PackFreeMatch},
		{"free keyword implied total", "soap x3", "soap x2 free", w.PackFreeMatch},
		{"quantity mismatch", "soap x3", "soap x2", -w.PackMismatch},
		{"only listing is multipack", "soap x3", "soap", -w.PackFlagMismatch},
		{"only catalogue is multipack", "soap", "soap x2", -w.PackFlagMismatch},
		{"neither is multipack", "soap", "soap", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, adj(tt.listing, tt.cat), 1e-9)
		})
	}
}

func TestImpliedFreeTotal(t *testing.T) {
	n := NewNormalizer(DefaultRules())

	assert.Equal(t, 3, impliedFreeTotal(n.Normalize("soap x2 + 1 free")))
	assert.Equal(t, 5, impliedFreeTotal(n.Normalize("soap 4+1 promo")))
	assert.Equal(t, 3, impliedFreeTotal(n.Normalize("soap x2 one free")))
	assert.Zero(t, impliedFreeTotal(n.Normalize("soap x2")))
	assert.Zero(t, impliedFreeTotal(n.Normalize("soap free")))
}

func TestBulkAdjustment(t *testing.T) {
	m := newTestMatcher(t, scorerOnlyRules())
	w := m.rules.Weights

	assert.InDelta(t, -w.BulkCatalogue, m.bulkAdjustment("likas soap", "likas soap (1 case x72)"), 1e-9)
	assert.InDelta(t, -w.BulkListing, m.bulkAdjustment("likas soap bulk", "likas soap"), 1e-9)
	assert.Zero(t, m.bulkAdjustment("likas soap box", "likas soap (1 case x72)"))
	assert.Zero(t, m.bulkAdjustment("likas soap", "likas soap"))
}

func TestVariantPenalty(t *testing.T) {
	m := newTestMatcher(t, scorerOnlyRules())
	n := m.norm

	pen := func(listing, catName string) float64 {
		return m.variantPenalty(n.Normalize(listing), n.Normalize(catName))
	}

	t.Run("one-sided tokens are penalized", func(t *testing.T) {
		assert.InDelta(t, 0.4, pen("silka green soap", "silka soap"), 1e-9)
		assert.InDelta(t, 0.5, pen("silka soap", "silka white soap"), 1e-9)
	})

	t.Run("tokens on both sides cancel", func(t *testing.T) {
		assert.Zero(t, pen("silka green soap", "silka green soap"))
	})

	t.Run("scoped marker respects its brand and type", func(t *testing.T) {
		withBrand := pen("flawlessly u lotion pump", "flawlessly u lotion")
		withoutBrand := pen("silka lotion pump", "silka lotion")
		assert.InDelta(t, 0.3, withBrand, 1e-9)
		assert.Zero(t, withoutBrand)
	})

	t.Run("penalties accumulate", func(t *testing.T) {
		assert.InDelta(t, 0.9, pen("silka green soap", "silka white soap"), 1e-9)
	})

	t.Run("token must be a whole word", func(t *testing.T) {
		assert.Zero(t, pen("silka evergreen soap", "silka soap"))
	})
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.4))
	assert.Equal(t, 1.0, clamp01(1.7))
	assert.Equal(t, 0.35, clamp01(0.35))
}
