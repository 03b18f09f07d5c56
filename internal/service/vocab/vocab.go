package vocab

import (
	"bufio"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/corpustools/corpusprep/internal/util"
)

// scanner buffer large enough for very long corpus lines.
const scannerBufSize = 4 * 1024 * 1024

// Builder derives a frequency-thresholded vocabulary from the union of
// corpus files. Selection is either the top sizeThreshold tokens by
// frequency or, when a non-zero countThreshold is set, every token
// with at least that frequency; the count threshold overrides the size
// cap when both are given.
type Builder struct {
	fs  afero.Fs
	log *slog.Logger
}

func New(log *slog.Logger) *Builder {
	return NewWithFS(afero.NewOsFs(), log)
}

func NewWithFS(fs afero.Fs, log *slog.Logger) *Builder {
	return &Builder{
		fs:  fs,
		log: log.With(slog.String("item", "VocabBuilder")),
	}
}

type tokenFreq struct {
	token string
	freq  int
}

// Build writes the vocabulary to output, one token per line, sorted
// descending by frequency then ascending by token. An existing output
// skips the whole pass. Unreadable input is fatal: a missing
// vocabulary breaks every downstream consumer.
func (b *Builder) Build(inputs []string, output string, sizeThreshold, countThreshold int) error {
	if util.Exists(b.fs, output) {
		b.log.Info("Vocabulary exists, skip", slog.String("path", output))

		return nil
	}

	freq := make(map[string]int)
	for _, input := range inputs {
		if err := b.tally(input, freq); err != nil {
			return fmt.Errorf("cannot tally %s: %w", input, err)
		}
	}

	entries := make([]tokenFreq, 0, len(freq))
	for token, f := range freq {
		entries = append(entries, tokenFreq{token: token, freq: f})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].freq != entries[j].freq {
			return entries[i].freq > entries[j].freq
		}

		return entries[i].token < entries[j].token
	})

	entries = applyThresholds(entries, sizeThreshold, countThreshold)

	if err := b.write(entries, output); err != nil {
		return fmt.Errorf("cannot write vocabulary %s: %w", output, err)
	}

	b.log.Info("Built vocabulary", slog.String("path", output), slog.Int("tokens", len(entries)))

	return nil
}

func applyThresholds(entries []tokenFreq, sizeThreshold, countThreshold int) []tokenFreq {
	if countThreshold > 0 {
		n := 0
		for _, e := range entries {
			if e.freq < countThreshold {
				break
			}
			n++
		}

		return entries[:n]
	}

	if sizeThreshold > 0 && len(entries) > sizeThreshold {
		return entries[:sizeThreshold]
	}

	return entries
}

func (b *Builder) tally(input string, freq map[string]int) error {
	f, err := b.fs.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scannerBufSize), scannerBufSize)

	for scanner.Scan() {
		for _, token := range strings.Fields(scanner.Text()) {
			freq[token]++
		}
	}

	return scanner.Err()
}

func (b *Builder) write(entries []tokenFreq, output string) error {
	if err := b.fs.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}

	tmp := output + ".part-" + uuid.NewString()
	f, err := b.fs.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.token); err != nil {
			f.Close()
			b.fs.Remove(tmp)

			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		b.fs.Remove(tmp)

		return err
	}

	if err := f.Close(); err != nil {
		b.fs.Remove(tmp)

		return err
	}

	return b.fs.Rename(tmp, output)
}
