package folio

import (
	"errors"

	"github.com/alnah/go-folio/internal/assets"
)

// Asset names of the built-in CV layout.
const (
	// DefaultStyle is the name of the built-in CSS style.
	DefaultStyle = "cv"

	// DefaultTemplate is the name of the built-in HTML layout template.
	DefaultTemplate = "cv"
)

// AssetLoader supplies the stylesheet and layout template of the CV by name,
// without extension. Missing assets yield ErrStyleNotFound or
// ErrTemplateNotFound.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns the built-in assets, overridden file by file by
// basePath/styles/{name}.css and basePath/templates/{name}.html when basePath
// is set. A basePath that is not a directory yields ErrInvalidAssetPath.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return resolverLoader{resolver}, nil
}

// resolverLoader translates internal asset errors to the public sentinels.
type resolverLoader struct {
	r *assets.Resolver
}

func (l resolverLoader) LoadStyle(name string) (string, error) {
	content, err := l.r.Load(assets.Style, name)
	return content, convertAssetError(err)
}

func (l resolverLoader) LoadTemplate(name string) (string, error) {
	content, err := l.r.Load(assets.Template, name)
	return content, convertAssetError(err)
}

// convertAssetError keeps the internal message but matches the public sentinel.
func convertAssetError(err error) error {
	var public error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrStyleNotFound), errors.Is(err, assets.ErrInvalidAssetName):
		public = ErrStyleNotFound
	case errors.Is(err, assets.ErrTemplateNotFound):
		public = ErrTemplateNotFound
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrAssetRead):
		public = ErrInvalidAssetPath
	default:
		return err
	}
	return &assetError{public: public, msg: err.Error()}
}

type assetError struct {
	public error
	msg    string
}

func (e *assetError) Error() string { return e.msg }
func (e *assetError) Unwrap() error { return e.public }
