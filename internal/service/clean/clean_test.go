package clean

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/corpustools/corpusprep/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// fakeCleaner drops line pairs whose source side is outside the length
// bounds, keeping both sides aligned, the way the real tool behaves.
type fakeCleaner struct {
	fs    afero.Fs
	fail  bool
	calls int
}

func (f *fakeCleaner) CleanCorpus(ctx context.Context, src, tgt, srcLang, tgtLang string, minLen, maxLen int, outSrc, outTgt string) error {
	f.calls++
	if f.fail {
		return &common.ToolError{Tool: "clean-corpus", ExitCode: 1}
	}

	srcLines, err := readLines(f.fs, src)
	if err != nil {
		return err
	}
	tgtLines, err := readLines(f.fs, tgt)
	if err != nil {
		return err
	}

	var keptSrc, keptTgt []string
	for i := range srcLines {
		n := len(strings.Fields(srcLines[i]))
		if n >= minLen && n <= maxLen {
			keptSrc = append(keptSrc, srcLines[i])
			keptTgt = append(keptTgt, tgtLines[i])
		}
	}

	if err := writeLines(f.fs, outSrc, keptSrc); err != nil {
		return err
	}

	return writeLines(f.fs, outTgt, keptTgt)
}

func readLines(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

func writeLines(fs afero.Fs, path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	return afero.WriteFile(fs, path, []byte(content), 0o644)
}

func TestClean(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/train.en", []byte("one two three\nx\nfour five\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/train.vi", []byte("mot hai ba\ny\nbon nam\n"), 0o644))

	tk := &fakeCleaner{fs: fs}
	c := NewWithFS(fs, tk, common.FailurePolicyCopy, testLogger())

	outSrc, outTgt, err := c.Clean(context.Background(), "/dl/train.en", "/dl/train.vi", "en", "vi", 2, 50)
	require.NoError(t, err)
	require.Equal(t, "/dl/train.clean.en", outSrc)
	require.Equal(t, "/dl/train.clean.vi", outTgt)

	srcLines, err := readLines(fs, outSrc)
	require.NoError(t, err)
	tgtLines, err := readLines(fs, outTgt)
	require.NoError(t, err)

	require.Equal(t, []string{"one two three", "four five"}, srcLines)
	require.Equal(t, []string{"mot hai ba", "bon nam"}, tgtLines)
	require.Len(t, tgtLines, len(srcLines), "clean output must stay line-aligned")
}

func TestCleanIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/train.en", []byte("a\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/train.vi", []byte("b\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/train.clean.en", []byte("cached\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/train.clean.vi", []byte("cached\n"), 0o644))

	tk := &fakeCleaner{fs: fs}
	c := NewWithFS(fs, tk, common.FailurePolicyCopy, testLogger())

	_, _, err := c.Clean(context.Background(), "/dl/train.en", "/dl/train.vi", "en", "vi", 1, 80)
	require.NoError(t, err)
	require.Zero(t, tk.calls, "existing outputs must skip the tool")
}

// Tool failure under the copy policy lands the uncleaned pair at the
// clean paths; alignment is preserved because both files are copied
// verbatim.
func TestCleanFailureCopiesThrough(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/train.en", []byte("a b\nc d\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/train.vi", []byte("e f\ng h\n"), 0o644))

	tk := &fakeCleaner{fs: fs, fail: true}
	c := NewWithFS(fs, tk, common.FailurePolicyCopy, testLogger())

	outSrc, outTgt, err := c.Clean(context.Background(), "/dl/train.en", "/dl/train.vi", "en", "vi", 1, 80)
	require.NoError(t, err)

	srcContent, err := afero.ReadFile(fs, outSrc)
	require.NoError(t, err)
	tgtContent, err := afero.ReadFile(fs, outTgt)
	require.NoError(t, err)

	require.Equal(t, "a b\nc d\n", string(srcContent))
	require.Equal(t, "e f\ng h\n", string(tgtContent))
}

func TestCleanAbortPolicy(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/train.en", []byte("a\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/train.vi", []byte("b\n"), 0o644))

	tk := &fakeCleaner{fs: fs, fail: true}
	c := NewWithFS(fs, tk, common.FailurePolicyAbort, testLogger())

	_, _, err := c.Clean(context.Background(), "/dl/train.en", "/dl/train.vi", "en", "vi", 1, 80)
	require.Error(t, err)
}
