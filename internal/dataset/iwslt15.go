package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/entity"
	"github.com/corpustools/corpusprep/internal/langpair"
)

const iwslt15BaseURL = "https://nlp.stanford.edu/projects/nmt/data"

// iwslt15 serves the pre-tokenized IWSLT'15 corpora published as plain
// per-language files, released vocabularies included. The upstream
// directory is named after one fixed pair orientation, so a request
// for the reversed pair keeps its own orientation locally but fetches
// from the upstream-ordered path.
type iwslt15 struct {
	base
	registry langpair.Registry
}

var iwslt15Pairs = []entity.Pair{
	entity.NewPair("en", "vi"),
}

func newIWSLT15(pair entity.Pair, opts Options, deps Deps) (*iwslt15, error) {
	registry := langpair.Enumerated(iwslt15Pairs...)
	if !registry.Supports(pair) {
		return nil, fmt.Errorf("%w: %s for dataset %s", common.ErrUnsupportedLanguagePair, pair, KindIWSLT15)
	}

	src := &iwslt15{
		base: base{
			name: KindIWSLT15,
			pair: pair,
			opts: opts,
			deps: deps,
			skipPreprocess: func(name string) bool {
				return strings.HasPrefix(name, "vocab.")
			},
		},
		registry: registry,
	}

	return src, nil
}

// upstreamPair is the orientation the remote directory is named after.
func (s *iwslt15) upstreamPair() entity.Pair {
	if s.registry.SupportsExact(s.pair) {
		return s.pair
	}

	return s.pair.Reverse()
}

func (s *iwslt15) RemoteResources() []entity.RemoteResource {
	dir := fmt.Sprintf("%s/iwslt15.%s", iwslt15BaseURL, s.upstreamPair())

	var resources []entity.RemoteResource
	for _, prefix := range []string{"train", "tst2012", "tst2013", "vocab"} {
		for _, lang := range []entity.Language{s.pair.Src, s.pair.Tgt} {
			resources = append(resources, entity.RemoteResource{
				URL: fmt.Sprintf("%s/%s.%s", dir, prefix, lang.Abbrev),
			})
		}
	}

	return resources
}

func (s *iwslt15) GroupedFiles(ctx context.Context) (*entity.GroupedFiles, error) {
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

	vocabSrc, err := s.lookup(files, "vocab."+s.pair.Src.Abbrev)
	if err != nil {
		return nil, err
	}
	vocabTgt, err := s.lookup(files, "vocab."+s.pair.Tgt.Abbrev)
	if err != nil {
		return nil, err
	}

	return &entity.GroupedFiles{
		TrainCorpora: []entity.CorpusEntry{train},
		DevCorpora:   []entity.CorpusEntry{dev},
		TestCorpora:  []entity.CorpusEntry{test},
		Vocabularies: &entity.VocabularyPair{Source: vocabSrc, Target: vocabTgt},
	}, nil
}
