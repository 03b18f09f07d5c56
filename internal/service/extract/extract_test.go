package extract

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/corpustools/corpusprep/internal/util"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func makeArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	return buf.Bytes()
}

func TestMaybeExtract(t *testing.T) {
	archive := makeArchive(t, map[string]string{
		"en-vi/train.en":      "hello\n",
		"en-vi/train.vi":      "xin chao\n",
		"en-vi/nested/tst.en": "deep\n",
		"en-vi/nested/tst.vi": "sau\n",
	})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/en-vi.tgz", archive, 0o644))

	e := NewWithFS(fs, testLogger())

	root, err := e.MaybeExtract("/dl/en-vi.tgz")
	require.NoError(t, err)
	require.Equal(t, "/dl/en-vi", root)

	content, err := afero.ReadFile(fs, "/dl/en-vi/en-vi/train.vi")
	require.NoError(t, err)
	require.Equal(t, "xin chao\n", string(content))

	files, err := e.Flatten(root)
	require.NoError(t, err)
	require.Equal(t, []string{
		"/dl/en-vi/en-vi/nested/tst.en",
		"/dl/en-vi/en-vi/nested/tst.vi",
		"/dl/en-vi/en-vi/train.en",
		"/dl/en-vi/en-vi/train.vi",
	}, files)
}

func TestMaybeExtractTarGzSuffix(t *testing.T) {
	archive := makeArchive(t, map[string]string{"a.txt": "x"})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/bundle.tar.gz", archive, 0o644))

	e := NewWithFS(fs, testLogger())

	root, err := e.MaybeExtract("/dl/bundle.tar.gz")
	require.NoError(t, err)
	require.Equal(t, "/dl/bundle", root)
	require.True(t, util.Exists(fs, "/dl/bundle/a.txt"))
}

// An existing expanded directory short-circuits extraction: the
// archive is not even opened, so garbage bytes are fine.
func TestMaybeExtractIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/en-vi.tgz", []byte("not an archive"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/dl/en-vi/train.en", []byte("kept\n"), 0o644))

	e := NewWithFS(fs, testLogger())

	root, err := e.MaybeExtract("/dl/en-vi.tgz")
	require.NoError(t, err)
	require.Equal(t, "/dl/en-vi", root)

	content, err := afero.ReadFile(fs, "/dl/en-vi/train.en")
	require.NoError(t, err)
	require.Equal(t, "kept\n", string(content))
}

func TestMaybeExtractNonArchiveIdentity(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/train.en", []byte("plain\n"), 0o644))

	e := NewWithFS(fs, testLogger())

	path, err := e.MaybeExtract("/dl/train.en")
	require.NoError(t, err)
	require.Equal(t, "/dl/train.en", path)

	entries, err := afero.ReadDir(fs, "/dl")
	require.NoError(t, err)
	require.Len(t, entries, 1, "no new file may appear for non-archive input")
}

func TestMaybeExtractCorruptLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/bad.tgz", []byte("garbage"), 0o644))

	e := NewWithFS(fs, testLogger())

	_, err := e.MaybeExtract("/dl/bad.tgz")
	require.Error(t, err)
	require.False(t, util.Exists(fs, "/dl/bad"))
}

func TestMaybeExtractRejectsEscapingEntries(t *testing.T) {
	archive := makeArchive(t, map[string]string{"../evil.txt": "nope"})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dl/evil.tgz", archive, 0o644))

	e := NewWithFS(fs, testLogger())

	_, err := e.MaybeExtract("/dl/evil.tgz")
	require.Error(t, err)
	require.False(t, util.Exists(fs, "/evil.txt"))
}
