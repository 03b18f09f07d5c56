package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/corpustools/corpusprep/internal/config"
	"github.com/corpustools/corpusprep/internal/entity"
)

type Source interface {
	Name() string
	Pair() entity.Pair
	WorkDir() string
	GroupedFiles(ctx context.Context) (*entity.GroupedFiles, error)
}

type VocabBuilder interface {
	Build(inputs []string, output string, sizeThreshold, countThreshold int) error
}

type Cleaner interface {
	Clean(ctx context.Context, srcFile, tgtFile, srcLang, tgtLang string, minLen, maxLen int) (string, string, error)
}

// Builder assembles the final manifest for a dataset source: the
// grouped corpus files, vocabularies derived when the source released
// none, and train corpora filtered by sentence length when bounds are
// configured. Dev and test corpora are never length-filtered;
// evaluation sets stay exactly as released.
type Builder struct {
	cfg     *config.PipelineConfig
	vocab   VocabBuilder
	cleaner Cleaner
	log     *slog.Logger
}

func New(cfg *config.PipelineConfig, vocab VocabBuilder, cleaner Cleaner, log *slog.Logger) *Builder {
	return &Builder{
		cfg:     cfg,
		vocab:   vocab,
		cleaner: cleaner,
		log:     log.With(slog.String("item", "ManifestBuilder")),
	}
}

// Assemble returns the fully-populated manifest. Every step is
// idempotent by file existence, so a rerun against a warm working
// directory only re-reads the grouped view.
func (b *Builder) Assemble(ctx context.Context, source Source) (*entity.GroupedFiles, error) {
	gf, err := source.GroupedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot build grouped files for %s: %w", source.Name(), err)
	}

	if gf.Vocabularies == nil {
		if err := b.deriveVocabularies(source, gf); err != nil {
			return nil, err
		}
	}

	if b.cfg.LengthBounds.Enabled {
		if err := b.cleanTrainCorpora(ctx, source, gf); err != nil {
			return nil, err
		}
	}

	return gf, nil
}

func (b *Builder) deriveVocabularies(source Source, gf *entity.GroupedFiles) error {
	all := make([]entity.CorpusEntry, 0, len(gf.TrainCorpora)+len(gf.DevCorpora)+len(gf.TestCorpora))
	all = append(all, gf.TrainCorpora...)
	all = append(all, gf.DevCorpora...)
	all = append(all, gf.TestCorpora...)

	srcInputs := make([]string, 0, len(all))
	tgtInputs := make([]string, 0, len(all))
	for _, e := range all {
		srcInputs = append(srcInputs, e.SourceFile)
		tgtInputs = append(tgtInputs, e.TargetFile)
	}

	pair := source.Pair()
	srcOut := filepath.Join(source.WorkDir(), "vocab."+pair.Src.Abbrev)
	tgtOut := filepath.Join(source.WorkDir(), "vocab."+pair.Tgt.Abbrev)

	if err := b.vocab.Build(srcInputs, srcOut, b.cfg.VocabSize, b.cfg.VocabMinCount); err != nil {
		return fmt.Errorf("cannot derive source vocabulary: %w", err)
	}
	if err := b.vocab.Build(tgtInputs, tgtOut, b.cfg.VocabSize, b.cfg.VocabMinCount); err != nil {
		return fmt.Errorf("cannot derive target vocabulary: %w", err)
	}

	gf.Vocabularies = &entity.VocabularyPair{Source: srcOut, Target: tgtOut}

	return nil
}

func (b *Builder) cleanTrainCorpora(ctx context.Context, source Source, gf *entity.GroupedFiles) error {
	pair := source.Pair()
	bounds := b.cfg.LengthBounds

	for i, e := range gf.TrainCorpora {
		src, tgt, err := b.cleaner.Clean(ctx, e.SourceFile, e.TargetFile,
			pair.Src.Abbrev, pair.Tgt.Abbrev, bounds.MinLength, bounds.MaxLength)
		if err != nil {
			return fmt.Errorf("cannot clean train corpus %s: %w", e.Tag, err)
		}

		gf.TrainCorpora[i].SourceFile = src
		gf.TrainCorpora[i].TargetFile = tgt
	}

	return nil
}
