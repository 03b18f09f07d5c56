package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Exists reports whether path exists on fs. Errors other than
// "not exist" (e.g. permissions) are treated as absent.
func Exists(fs afero.Fs, path string) bool {
	if path == "" {
		return false
	}

	_, err := fs.Stat(path)
	if err == nil {
		return true
	}

	if os.IsNotExist(err) {
		return false
	}

	return false
}

// InsertMarker derives a sibling path with marker inserted before the
// final extension: ("train.en", "tok") -> "train.tok.en". A path with
// no extension gets the marker appended.
func InsertMarker(path, marker string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return filepath.Join(dir, base+"."+marker)
	}

	return filepath.Join(dir, base[:idx]+"."+marker+base[idx:])
}

// HasMarker reports whether the file name carries marker as one of its
// dot-separated segments ("train.tok.en" has "tok").
func HasMarker(path, marker string) bool {
	for _, seg := range strings.Split(filepath.Base(path), ".") {
		if seg == marker {
			return true
		}
	}

	return false
}

// CopyFile copies src to dst through a unique temp sibling and renames
// it into place, so an interrupted copy never leaves a file at dst.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", src, err)
	}
	defer in.Close()

	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("cannot create dir for %s: %w", dst, err)
	}

	tmp := dst + ".part-" + uuid.NewString()
	out, err := fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", tmp, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fs.Remove(tmp)

		return fmt.Errorf("cannot copy %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		fs.Remove(tmp)

		return fmt.Errorf("cannot close %s: %w", tmp, err)
	}

	if err := fs.Rename(tmp, dst); err != nil {
		fs.Remove(tmp)

		return fmt.Errorf("cannot rename %s to %s: %w", tmp, dst, err)
	}

	return nil
}
