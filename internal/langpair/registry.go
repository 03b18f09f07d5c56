// Package langpair answers whether a dataset source supports a language
// pair. Membership is symmetric: a pair and its reverse are the same
// pair. SupportsExact exposes the upstream orientation for sources
// whose remote layout is named after one fixed order.
package langpair

import (
	"sort"

	"github.com/corpustools/corpusprep/internal/entity"
)

type Registry interface {
	// Supports checks (src,tgt) and (tgt,src).
	Supports(p entity.Pair) bool

	// SupportsExact checks the given orientation only.
	SupportsExact(p entity.Pair) bool
}

type enumerated struct {
	pairs map[[2]string]struct{}
}

// Enumerated builds a registry from an explicit pair list. The listed
// orientation is the exact one.
func Enumerated(pairs ...entity.Pair) Registry {
	m := make(map[[2]string]struct{}, len(pairs))
	for _, p := range pairs {
		m[[2]string{p.Src.Abbrev, p.Tgt.Abbrev}] = struct{}{}
	}

	return &enumerated{pairs: m}
}

func (r *enumerated) SupportsExact(p entity.Pair) bool {
	_, ok := r.pairs[[2]string{p.Src.Abbrev, p.Tgt.Abbrev}]

	return ok
}

func (r *enumerated) Supports(p entity.Pair) bool {
	return r.SupportsExact(p) || r.SupportsExact(p.Reverse())
}

type combinatorial struct {
	langs []string // sorted
}

// Combinatorial builds a registry supporting every unordered pair of
// distinct languages from the list. The set is never materialized;
// membership is a binary search per side, so large language lists stay
// cheap.
func Combinatorial(langs []entity.Language) Registry {
	abbrevs := make([]string, len(langs))
	for i, l := range langs {
		abbrevs[i] = l.Abbrev
	}
	sort.Strings(abbrevs)

	return &combinatorial{langs: abbrevs}
}

func (r *combinatorial) contains(abbrev string) bool {
	i := sort.SearchStrings(r.langs, abbrev)

	return i < len(r.langs) && r.langs[i] == abbrev
}

func (r *combinatorial) Supports(p entity.Pair) bool {
	if p.Src.Abbrev == p.Tgt.Abbrev {
		return false
	}

	return r.contains(p.Src.Abbrev) && r.contains(p.Tgt.Abbrev)
}

// Every orientation of a combinatorial pair is equally valid upstream.
func (r *combinatorial) SupportsExact(p entity.Pair) bool {
	return r.Supports(p)
}
