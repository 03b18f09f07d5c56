package dataset

import (
	"context"
	"fmt"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/entity"
	"github.com/corpustools/corpusprep/internal/langpair"
)

const iwslt16BaseURL = "https://wit3.fbk.eu/archive/2016-01/texts"

// iwslt16 serves the IWSLT'16 TED talk releases: one tgz per pair,
// dev/test transcripts inside as SGM. The archive and its inner
// directory are named {l1}-{l2} in the upstream order, so the reversed
// pair must be detected by exact-order membership and the remote path
// built from the upstream orientation.
type iwslt16 struct {
	base
	registry langpair.Registry
}

var iwslt16Pairs = []entity.Pair{
	entity.NewPair("en", "ar"),
	entity.NewPair("en", "cs"),
	entity.NewPair("en", "de"),
	entity.NewPair("en", "fr"),
}

func newIWSLT16(pair entity.Pair, opts Options, deps Deps) (*iwslt16, error) {
	registry := langpair.Enumerated(iwslt16Pairs...)
	if !registry.Supports(pair) {
		return nil, fmt.Errorf("%w: %s for dataset %s", common.ErrUnsupportedLanguagePair, pair, KindIWSLT16)
	}

	src := &iwslt16{
		base: base{
			name: KindIWSLT16,
			pair: pair,
			opts: opts,
			deps: deps,
		},
		registry: registry,
	}

	return src, nil
}

func (s *iwslt16) upstreamPair() entity.Pair {
	if s.registry.SupportsExact(s.pair) {
		return s.pair
	}

	return s.pair.Reverse()
}

func (s *iwslt16) RemoteResources() []entity.RemoteResource {
	up := s.upstreamPair()

	return []entity.RemoteResource{
		{URL: fmt.Sprintf("%s/%s/%s/%s.tgz", iwslt16BaseURL, up.Src.Abbrev, up.Tgt.Abbrev, up)},
	}
}

func (s *iwslt16) GroupedFiles(ctx context.Context) (*entity.GroupedFiles, error) {
	files, err := s.materialize(ctx, s.RemoteResources())
	if err != nil {
		return nil, err
	}

	train, err := s.entry(files, "train", "train")
	if err != nil {
		return nil, err
	}

	dev, err := s.entry(files, "tst2012", "tst2012")
	if err != nil {
		return nil, err
	}

	test, err := s.entry(files, "tst2013", "tst2013")
	if err != nil {
		return nil, err
	}

	return &entity.GroupedFiles{
		TrainCorpora: []entity.CorpusEntry{train},
		DevCorpora:   []entity.CorpusEntry{dev},
		TestCorpora:  []entity.CorpusEntry{test},
	}, nil
}
