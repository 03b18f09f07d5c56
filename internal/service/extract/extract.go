package extract

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/corpustools/corpusprep/internal/util"
)

// Suffixes recognized as gzip-compressed tar archives. Anything else
// passes through MaybeExtract unchanged.
var archiveSuffixes = []string{".tar.gz", ".tgz"}

// Extractor expands tar.gz archives next to the archive file. The
// expanded directory's existence is the idempotence anchor: if it is
// already there, the archive is not opened again.
type Extractor struct {
	fs  afero.Fs
	log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return NewWithFS(afero.NewOsFs(), log)
}

func NewWithFS(fs afero.Fs, log *slog.Logger) *Extractor {
	return &Extractor{
		fs:  fs,
		log: log.With(slog.String("item", "Extractor")),
	}
}

// archiveRoot returns the canonical expanded path for an archive, or
// ("", false) for non-archive input.
func archiveRoot(path string) (string, bool) {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(path, suffix) {
			return strings.TrimSuffix(path, suffix), true
		}
	}

	return "", false
}

// MaybeExtract expands path if it names a known archive and the
// canonical expanded directory does not exist yet. It returns the
// expanded path for archives and the input path unchanged otherwise.
func (e *Extractor) MaybeExtract(path string) (string, error) {
	root, ok := archiveRoot(path)
	if !ok {
		return path, nil
	}

	if util.Exists(e.fs, root) {
		e.log.Info("Archive already expanded, skip", slog.String("path", root))

		return root, nil
	}

	if err := e.extract(path, root); err != nil {
		// Leave nothing at the canonical path, or the next run would
		// treat the partial expansion as complete.
		e.fs.RemoveAll(root)

		return "", fmt.Errorf("cannot extract %s: %w", path, err)
	}

	e.log.Info("Extracted archive", slog.String("archive", path), slog.String("path", root))

	return root, nil
}

func (e *Extractor) extract(path, root string) error {
	f, err := e.fs.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("cannot read gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot read tar entry: %w", err)
		}

		name := filepath.Clean(hdr.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return fmt.Errorf("archive entry escapes root: %s", hdr.Name)
		}

		target := filepath.Join(root, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := e.fs.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("cannot create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := e.writeFile(target, tr); err != nil {
				return err
			}
		default:
			e.log.Info("Skip archive entry", slog.String("name", hdr.Name), slog.Int("type", int(hdr.Typeflag)))
		}
	}
}

func (e *Extractor) writeFile(target string, r io.Reader) error {
	if err := e.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("cannot create dir for %s: %w", target, err)
	}

	out, err := e.fs.Create(target)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", target, err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()

		return fmt.Errorf("cannot write %s: %w", target, err)
	}

	return out.Close()
}

// Flatten walks dir recursively and returns every regular file,
// sorted, with nested directory structure collapsed into a flat list.
func (e *Extractor) Flatten(dir string) ([]string, error) {
	var files []string

	err := afero.Walk(e.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk %s: %w", dir, err)
	}

	sort.Strings(files)

	return files, nil
}
