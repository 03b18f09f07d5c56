// Package dataset describes the upstream corpus providers. Each
// provider is one variant of the Source interface; adding a provider
// means adding a variant, not editing dispatch logic elsewhere.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/entity"
)

const (
	KindIWSLT15  = "iwslt15"
	KindIWSLT16  = "iwslt16"
	KindWMT16    = "wmt16"
	KindLocalDir = "localdir"
)

type Downloader interface {
	FetchAll(ctx context.Context, resources []entity.RemoteResource, dir string, chunkSize, workers int) error
}

type Extractor interface {
	MaybeExtract(path string) (string, error)
	Flatten(dir string) ([]string, error)
}

type Preprocessor interface {
	Preprocess(ctx context.Context, path string) (string, error)
}

// Source is the capability contract of one corpus provider for one
// language pair. GroupedFiles is the one-shot build step: it
// materializes (download, extract, preprocess) whatever is missing and
// returns the immutable grouped view. Callers call it once per run.
type Source interface {
	Name() string
	Pair() entity.Pair
	WorkDir() string
	DownloadDir() string
	RemoteResources() []entity.RemoteResource
	GroupedFiles(ctx context.Context) (*entity.GroupedFiles, error)
}

type Deps struct {
	Downloader   Downloader
	Extractor    Extractor
	Preprocessor Preprocessor
	Log          *slog.Logger
}

type Options struct {
	RootDir   string
	ChunkSize int
	Workers   int
}

// New constructs the variant for kind. Unsupported language pairs fail
// here, before any I/O.
func New(kind string, pair entity.Pair, opts Options, deps Deps) (Source, error) {
	switch kind {
	case KindIWSLT15:
		return newIWSLT15(pair, opts, deps)
	case KindIWSLT16:
		return newIWSLT16(pair, opts, deps)
	case KindWMT16:
		return newWMT16(pair, opts, deps)
	case KindLocalDir:
		return newLocalDir(pair, opts, deps)
	}

	return nil, fmt.Errorf("%w: %s", common.ErrUnknownDataset, kind)
}

// base carries what every variant shares: identity, directory
// derivation and the materialization walk.
type base struct {
	name string
	pair entity.Pair
	opts Options
	deps Deps

	// skipPreprocess marks files that must pass through untouched
	// (e.g. released vocabulary files).
	skipPreprocess func(name string) bool
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Pair() entity.Pair {
	return b.pair
}

func (b *base) WorkDir() string {
	return filepath.Join(b.opts.RootDir, b.name, b.pair.String())
}

func (b *base) DownloadDir() string {
	return filepath.Join(b.WorkDir(), "download")
}

// materialize runs download, extraction and preprocessing for the
// given resources and returns final file paths keyed by normalized
// basename (the raw name with any .sgm suffix stripped). Every step is
// idempotent, so calling this on a warm working directory does no
// network or subprocess work.
func (b *base) materialize(ctx context.Context, resources []entity.RemoteResource) (map[string]string, error) {
	dir := b.DownloadDir()

	b.deps.Log.Info("Materialize dataset",
		slog.String("dataset", b.name),
		slog.String("pair", b.pair.String()),
		slog.Int("resources", len(resources)))

	if err := b.deps.Downloader.FetchAll(ctx, resources, dir, b.opts.ChunkSize, b.opts.Workers); err != nil {
		return nil, fmt.Errorf("cannot download %s resources: %w", b.name, err)
	}

	files := make(map[string]string)
	for _, res := range resources {
		local := filepath.Join(dir, res.FileName())

		expanded, err := b.deps.Extractor.MaybeExtract(local)
		if err != nil {
			return nil, err
		}

		var found []string
		if expanded != local {
			found, err = b.deps.Extractor.Flatten(expanded)
			if err != nil {
				return nil, err
			}
		} else {
			found = []string{local}
		}

		if err := b.preprocessAll(ctx, found, files); err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (b *base) preprocessAll(ctx context.Context, found []string, files map[string]string) error {
	for _, f := range found {
		name := filepath.Base(f)
		if strings.HasPrefix(name, ".") {
			continue
		}

		final := f
		if b.skipPreprocess == nil || !b.skipPreprocess(name) {
			var err error
			final, err = b.deps.Preprocessor.Preprocess(ctx, f)
			if err != nil {
				return fmt.Errorf("cannot preprocess %s: %w", f, err)
			}
		}

		files[strings.TrimSuffix(name, ".sgm")] = final
	}

	return nil
}

func (b *base) lookup(files map[string]string, name string) (string, error) {
	if path, ok := files[name]; ok {
		return path, nil
	}

	return "", fmt.Errorf("%w: %s in dataset %s", common.ErrCorpusFileNotFound, name, b.name)
}

// entry builds a CorpusEntry for a shared file prefix, resolving both
// language sides.
func (b *base) entry(files map[string]string, tag, prefix string) (entity.CorpusEntry, error) {
	src, err := b.lookup(files, prefix+"."+b.pair.Src.Abbrev)
	if err != nil {
		return entity.CorpusEntry{}, err
	}

	tgt, err := b.lookup(files, prefix+"."+b.pair.Tgt.Abbrev)
	if err != nil {
		return entity.CorpusEntry{}, err
	}

	return entity.CorpusEntry{Tag: tag, SourceFile: src, TargetFile: tgt}, nil
}
