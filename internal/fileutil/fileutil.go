// Package fileutil holds the small file helpers shared by the renderer,
// the PDF inspector, config lookup and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidExtension rejects extensions that could escape the temp directory.
var ErrInvalidExtension = errors.New("invalid file extension")

// checkExtension accepts ".html", ".pdf" and the like.
func checkExtension(ext string) error {
	if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext[1:], "./\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return nil
}

// SpoolTemp writes data to a new temp file named folio-*<ext>, for tools that
// only read from disk. The returned cleanup removes the file.
func SpoolTemp(data []byte, ext string) (path string, cleanup func(), err error) {
	if err := checkExtension(ext); err != nil {
		return "", nil, err
	}
	f, err := os.CreateTemp("", "folio-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	return path, cleanup, nil
}

// WriteAtomic replaces path with data through a sibling temp file and a
// rename, so readers never see a partial file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(perm)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsFilePath reports whether s contains a path separator, which tells a
// config path ("./folio.yaml") from a config name ("folio").
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}
