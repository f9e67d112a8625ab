package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "kojie san soap", "kojie san soap", 1},
		{"both empty", "", "", 1},
		{"one empty", "soap", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"known value", "abcd", "bcde", 0.75},
		{"symmetric", "bcde", "abcd", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sequenceRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSequenceRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"likas papaya soap 135g", "likas papaya herbal soap 135g"},
		{"silka lotion", "silka papaya whitening lotion 500ml"},
		{"", "anything"},
		{"a", "a"},
	}
	for _, p := range pairs {
		r := sequenceRatio(p[0], p[1])
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestLongestCommonBlock(t *testing.T) {
	ai, bi, size := longestCommonBlock([]rune("xx papaya soap"), []rune("yy papaya lotion"))
	assert.Equal(t, 2, ai)
	assert.Equal(t, 2, bi)
	assert.Equal(t, 8, size) // " papaya "
}
