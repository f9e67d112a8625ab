package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCleaning(t *testing.T) {
	n := NewNormalizer(DefaultRules())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Likas Papaya Soap", "likas papaya soap"},
		{"strips one suffix", "Likas Papaya Soap - Philippines", "likas papaya soap"},
		{"strips stacked suffixes", "Likas Papaya Soap - PH - Authentic", "likas papaya soap"},
		{"keeps suffix word mid-title", "PH Balanced Soap", "ph balanced soap"},
		{"collapses whitespace", "  Likas   Papaya\tSoap ", "likas papaya soap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in).Cleaned)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultRules())
	titles := []string{
		"Kojie San Skin Lightening Soap 135g x 2 - Philippines",
		"Silka Green Papaya Soap 135g",
		"  GLUTA-C Face & Neck Cream 25g - UK  ",
	}
	for _, title := range titles {
		once := n.Normalize(title)
		twice := n.Normalize(once.Cleaned)
		assert.Equal(t, once, twice, title)
	}
}

func TestNormalizeFeatures(t *testing.T) {
	n := NewNormalizer(DefaultRules())

	t.Run("brand by containment", func(t *testing.T) {
		assert.Equal(t, "likas", n.Normalize("Original Likas Papaya Herbal Soap").Brand)
		assert.Equal(t, "", n.Normalize("Some Unknown Thing").Brand)
	})

	t.Run("brand list order wins", func(t *testing.T) {
		// both brands present; the earlier list entry is picked
		got := n.Normalize("gluta-c vs kojie san comparison").Brand
		assert.Equal(t, "kojie san", got)
	})

	t.Run("multiword type beats single word", func(t *testing.T) {
		assert.Equal(t, "face wash", n.Normalize("Master Face Wash 100ml").Type)
		assert.Equal(t, "face wash", n.Normalize("Master Face-Wash 100ml").Type)
		assert.Equal(t, "soap", n.Normalize("Likas Papaya Soap").Type)
	})

	t.Run("size unit tokens", func(t *testing.T) {
		assert.Equal(t, "135g", n.Normalize("Likas Soap 135g").Size)
		assert.Equal(t, "300ml", n.Normalize("Silka Lotion 300ml").Size)
		assert.Equal(t, "60mg", n.Normalize("Something 60mg").Size)
		assert.Equal(t, "", n.Normalize("Likas Soap").Size)
	})

	t.Run("pack quantity", func(t *testing.T) {
		got := n.Normalize("Kojie San Soap 135g x2")
		assert.True(t, got.Multipack)
		assert.Equal(t, 2, got.PackQty)

		spaced := n.Normalize("Kojie San Soap 135g x 3")
		assert.True(t, spaced.Multipack)
		assert.Equal(t, 3, spaced.PackQty)

		single := n.Normalize("Kojie San Soap 135g")
		assert.False(t, single.Multipack)
		assert.Zero(t, single.PackQty)
	})
}
