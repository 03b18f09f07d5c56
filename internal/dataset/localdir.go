package dataset

import (
	"context"
	"strings"

	"github.com/corpustools/corpusprep/internal/entity"
)

// localDir serves a pre-downloaded corpus directory. There are no
// remote resources and no pair registry: support is decided by which
// files actually sit in the directory, checked when the grouped view
// is built. Expected layout is the standard naming convention —
// train/dev/test.{abbrev}, optional vocab.{abbrev}.
type localDir struct {
	base
}

func newLocalDir(pair entity.Pair, opts Options, deps Deps) (*localDir, error) {
	src := &localDir{
		base: base{
			name: KindLocalDir,
			pair: pair,
			opts: opts,
			deps: deps,
			skipPreprocess: func(name string) bool {
				return strings.HasPrefix(name, "vocab.")
			},
		},
	}

	return src, nil
}

func (s *localDir) RemoteResources() []entity.RemoteResource {
	return nil
}

func (s *localDir) GroupedFiles(ctx context.Context) (*entity.GroupedFiles, error) {
	found, err := s.deps.Extractor.Flatten(s.DownloadDir())
	if err != nil {
		return nil, err
	}

	files := make(map[string]string)
	if err := s.preprocessAll(ctx, found, files); err != nil {
		return nil, err
	}

	train, err := s.entry(files, "train", "train")
	if err != nil {
		return nil, err
	}

	dev, err := s.entry(files, "dev", "dev")
	if err != nil {
		return nil, err
	}

	test, err := s.entry(files, "test", "test")
	if err != nil {
		return nil, err
	}

	gf := &entity.GroupedFiles{
		TrainCorpora: []entity.CorpusEntry{train},
		DevCorpora:   []entity.CorpusEntry{dev},
		TestCorpora:  []entity.CorpusEntry{test},
	}

	vocabSrc, errSrc := s.lookup(files, "vocab."+s.pair.Src.Abbrev)
	vocabTgt, errTgt := s.lookup(files, "vocab."+s.pair.Tgt.Abbrev)
	if errSrc == nil && errTgt == nil {
		gf.Vocabularies = &entity.VocabularyPair{Source: vocabSrc, Target: vocabTgt}
	}

	return gf, nil
}
