package dataset

import (
	"context"
	"fmt"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/entity"
	"github.com/corpustools/corpusprep/internal/langpair"
)

const (
	wmt16EuroparlURL = "http://www.statmt.org/europarl/v7"
	wmt16TaskURL     = "http://data.statmt.org/wmt16/translation-task"
)

// wmt16 serves the WMT'16 translation task: Europarl training archives
// plus the shared dev/test archives with SGM news test sets. Any pair
// of distinct languages from the task list is supported; upstream
// archives are named after the alphabetical orientation of the pair.
// Vocabularies are not released and get derived downstream.
type wmt16 struct {
	base
	registry langpair.Registry
}

var wmt16Languages = []entity.Language{
	entity.Lang("cs"),
	entity.Lang("de"),
	entity.Lang("en"),
	entity.Lang("es"),
	entity.Lang("fi"),
	entity.Lang("fr"),
	entity.Lang("ro"),
	entity.Lang("ru"),
}

func newWMT16(pair entity.Pair, opts Options, deps Deps) (*wmt16, error) {
	registry := langpair.Combinatorial(wmt16Languages)
	if !registry.Supports(pair) {
		return nil, fmt.Errorf("%w: %s for dataset %s", common.ErrUnsupportedLanguagePair, pair, KindWMT16)
	}

	src := &wmt16{
		base: base{
			name: KindWMT16,
			pair: pair,
			opts: opts,
			deps: deps,
		},
		registry: registry,
	}

	return src, nil
}

// upstreamPair is the alphabetical orientation the statmt archives are
// named after (de-en, never en-de).
func (s *wmt16) upstreamPair() entity.Pair {
	if s.pair.Src.Abbrev < s.pair.Tgt.Abbrev {
		return s.pair
	}

	return s.pair.Reverse()
}

func (s *wmt16) RemoteResources() []entity.RemoteResource {
	return []entity.RemoteResource{
		{URL: fmt.Sprintf("%s/%s.tgz", wmt16EuroparlURL, s.upstreamPair())},
		{URL: wmt16TaskURL + "/dev.tgz"},
		{URL: wmt16TaskURL + "/test.tgz"},
	}
}

func (s *wmt16) GroupedFiles(ctx context.Context) (*entity.GroupedFiles, error) {
	files, err := s.materialize(ctx, s.RemoteResources())
	if err != nil {
		return nil, err
	}

	trainPrefix := fmt.Sprintf("europarl-v7.%s", s.upstreamPair())

	train, err := s.entry(files, trainPrefix, trainPrefix)
	if err != nil {
		return nil, err
	}

	dev, err := s.entry(files, "newstest2015", "newstest2015")
	if err != nil {
		return nil, err
	}

	test, err := s.entry(files, "newstest2016", "newstest2016")
	if err != nil {
		return nil, err
	}

	return &entity.GroupedFiles{
		TrainCorpora: []entity.CorpusEntry{train},
		DevCorpora:   []entity.CorpusEntry{dev},
		TestCorpora:  []entity.CorpusEntry{test},
	}, nil
}
