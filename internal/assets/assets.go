package assets

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed styles templates docs
var builtin embed.FS

// Built-in asset names.
const (
	DefaultStyleName    = "cv"
	DefaultTemplateName = "cv"
	APIDocumentName     = "api"
)

// Kind is a family of assets sharing a directory and an extension.
type Kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	Style    = Kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	Template = Kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	Document = Kind{dir: "docs", ext: ".md", notFound: ErrDocumentNotFound}
)

func (k Kind) path(name string) string { return k.dir + "/" + name + k.ext }

// Resolver loads assets, preferring an override directory when one is set.
// The zero value serves built-in assets only.
type Resolver struct {
	dir string
}

// NewResolver returns a Resolver over dir. An empty dir means built-in only.
func NewResolver(dir string) (*Resolver, error) {
	if dir == "" {
		return &Resolver{}, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidBasePath, abs)
	}
	return &Resolver{dir: abs}, nil
}

// Load returns the named asset of kind k. A nil Resolver serves built-in
// assets only.
func (r *Resolver) Load(k Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	rel := k.path(name)

	if r != nil && r.dir != "" {
		data, err := readInRoot(r.dir, filepath.FromSlash(rel))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, rel, err)
		}
	}

	data, err := builtin.ReadFile(rel)
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(data), nil
}

func (r *Resolver) LoadStyle(name string) (string, error)    { return r.Load(Style, name) }
func (r *Resolver) LoadTemplate(name string) (string, error) { return r.Load(Template, name) }
func (r *Resolver) LoadDocument(name string) (string, error) { return r.Load(Document, name) }

func readInRoot(dir, name string) ([]byte, error) {
	f, err := os.OpenInRoot(dir, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// LoadDocument reads a built-in markdown document.
func LoadDocument(name string) (string, error) {
	return (&Resolver{}).Load(Document, name)
}
