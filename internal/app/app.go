package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/corpustools/corpusprep/internal/adapter/toolkit"
	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/config"
	"github.com/corpustools/corpusprep/internal/dataset"
	"github.com/corpustools/corpusprep/internal/entity"
	"github.com/corpustools/corpusprep/internal/service/clean"
	"github.com/corpustools/corpusprep/internal/service/download"
	"github.com/corpustools/corpusprep/internal/service/extract"
	"github.com/corpustools/corpusprep/internal/service/manifest"
	"github.com/corpustools/corpusprep/internal/service/preprocess"
	"github.com/corpustools/corpusprep/internal/service/vocab"
)

type App struct {
	cfgPath string
}

func New(cfgPath string) *App {
	return &App{cfgPath: cfgPath}
}

// Run prepares the corpus for one dataset/language-pair combination
// and prints the resulting manifest. Rerunning against the same
// working directory resumes from the first incomplete stage.
func (a *App) Run(ctx context.Context, kind, pairStr string) error {
	cfg := config.MustLoad(a.cfgPath)

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	pair, err := parsePair(pairStr)
	if err != nil {
		return err
	}

	policy, err := common.ParseFailurePolicy(cfg.PipelineConfig.OnToolFailure)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	tk := toolkit.New(&cfg.ToolkitConfig, log)

	deps := dataset.Deps{
		Downloader:   download.NewWithFS(fs, http.DefaultClient, log),
		Extractor:    extract.NewWithFS(fs, log),
		Preprocessor: preprocess.NewWithFS(fs, tk, cfg.PipelineConfig.Tokenize, policy, log),
		Log:          log,
	}

	source, err := dataset.New(kind, pair, dataset.Options{
		RootDir:   cfg.PipelineConfig.RootDir,
		ChunkSize: cfg.PipelineConfig.ChunkSize,
		Workers:   cfg.PipelineConfig.Workers,
	}, deps)
	if err != nil {
		return err
	}

	builder := manifest.New(&cfg.PipelineConfig,
		vocab.NewWithFS(fs, log),
		clean.NewWithFS(fs, tk, policy, log),
		log)

	gf, err := builder.Assemble(ctx, source)
	if err != nil {
		return err
	}

	printManifest(source, gf)

	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo)), nil
}

func parsePair(s string) (entity.Pair, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return entity.Pair{}, fmt.Errorf("invalid language pair %q, expected e.g. en-vi", s)
	}

	return entity.NewPair(parts[0], parts[1]), nil
}

func printManifest(source manifest.Source, gf *entity.GroupedFiles) {
	fmt.Printf("dataset %s, pair %s\n", source.Name(), source.Pair())

	printGroup := func(role string, entries []entity.CorpusEntry) {
		for _, e := range entries {
			fmt.Printf("  %s [%s]: %s | %s\n", role, e.Tag, e.SourceFile, e.TargetFile)
		}
	}

	printGroup("train", gf.TrainCorpora)
	printGroup("dev", gf.DevCorpora)
	printGroup("test", gf.TestCorpora)

	if gf.Vocabularies != nil {
		fmt.Printf("  vocab: %s | %s\n", gf.Vocabularies.Source, gf.Vocabularies.Target)
	}
}
