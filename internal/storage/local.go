package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores objects on disk under dir and serves them below baseURL.
// It is meant for development and tests.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates dir if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the root directory, for static file serving.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Upload(ctx context.Context, folder, name string, r io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := validateName(folder, name); err != nil {
		return Object{}, err
	}
	target := filepath.Join(l.dir, filepath.FromSlash(folder), name)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return Object{}, fmt.Errorf("creating folder %s: %w", folder, err)
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- name validated above
	if err != nil {
		return Object{}, fmt.Errorf("creating %s/%s: %w", folder, name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return Object{}, fmt.Errorf("writing %s/%s: %w", folder, name, err)
	}
	if err := f.Close(); err != nil {
		return Object{}, fmt.Errorf("closing %s/%s: %w", folder, name, err)
	}
	publicID := path.Join(folder, name)
	return Object{PublicID: publicID, URL: l.baseURL + "/" + publicID}, nil
}

func (l *Local) Delete(ctx context.Context, obj Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	folder, name := path.Split(obj.PublicID)
	if err := validateName(strings.TrimSuffix(folder, "/"), name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(obj.PublicID)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", obj.PublicID, err)
	}
	return nil
}

func (l *Local) DeleteByURL(ctx context.Context, rawURL string) error {
	publicID, ok := strings.CutPrefix(rawURL, l.baseURL+"/")
	if !ok {
		return fmt.Errorf("%w: %q", ErrForeignURL, rawURL)
	}
	return l.Delete(ctx, Object{PublicID: publicID, URL: rawURL})
}
