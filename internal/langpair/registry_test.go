package langpair

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpustools/corpusprep/internal/entity"
)

func TestEnumeratedSymmetry(t *testing.T) {
	reg := Enumerated(entity.NewPair("en", "vi"), entity.NewPair("en", "de"))

	testCases := []struct {
		name      string
		pair      entity.Pair
		supported bool
	}{
		{name: "registered order", pair: entity.NewPair("en", "vi"), supported: true},
		{name: "reversed order", pair: entity.NewPair("vi", "en"), supported: true},
		{name: "second pair reversed", pair: entity.NewPair("de", "en"), supported: true},
		{name: "unregistered", pair: entity.NewPair("fr", "ru"), supported: false},
		{name: "unregistered reversed", pair: entity.NewPair("ru", "fr"), supported: false},
		{name: "half-registered", pair: entity.NewPair("en", "ru"), supported: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.supported, reg.Supports(tc.pair))
			require.Equal(t, reg.Supports(tc.pair), reg.Supports(tc.pair.Reverse()), "support must be symmetric")
		})
	}
}

func TestEnumeratedExactOrder(t *testing.T) {
	reg := Enumerated(entity.NewPair("en", "vi"))

	require.True(t, reg.SupportsExact(entity.NewPair("en", "vi")))
	require.False(t, reg.SupportsExact(entity.NewPair("vi", "en")))
}

func TestCombinatorial(t *testing.T) {
	reg := Combinatorial([]entity.Language{
		entity.Lang("cs"), entity.Lang("de"), entity.Lang("en"), entity.Lang("fr"),
	})

	testCases := []struct {
		name      string
		pair      entity.Pair
		supported bool
	}{
		{name: "any order is supported", pair: entity.NewPair("fr", "cs"), supported: true},
		{name: "reverse of any order", pair: entity.NewPair("cs", "fr"), supported: true},
		{name: "same language twice", pair: entity.NewPair("de", "de"), supported: false},
		{name: "unknown language", pair: entity.NewPair("en", "vi"), supported: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.supported, reg.Supports(tc.pair))
			require.Equal(t, tc.supported, reg.SupportsExact(tc.pair))
		})
	}
}

func TestCombinatorialAllPairsSymmetric(t *testing.T) {
	langs := []entity.Language{
		entity.Lang("cs"), entity.Lang("de"), entity.Lang("en"),
		entity.Lang("es"), entity.Lang("fi"), entity.Lang("fr"),
	}
	reg := Combinatorial(langs)

	for _, a := range langs {
		for _, b := range langs {
			p := entity.Pair{Src: a, Tgt: b}
			require.Equal(t, a != b, reg.Supports(p), "pair %s", p)
			require.Equal(t, reg.Supports(p), reg.Supports(p.Reverse()), "pair %s", p)
		}
	}
}
