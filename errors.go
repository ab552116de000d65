package folio

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilInput           = errors.New("input cannot be nil")
	ErrInvalidSection     = errors.New("invalid section")
	ErrDuplicateSectionID = errors.New("duplicate section id")
	ErrInvalidContent     = errors.New("invalid section content")
	ErrUnknownElement     = errors.New("unknown content element type")

	ErrTemplateRender = errors.New("document template rendering failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// IsInputError reports whether err was caused by invalid caller input
// rather than by rendering or infrastructure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNilInput) ||
		errors.Is(err, ErrInvalidSection) ||
		errors.Is(err, ErrDuplicateSectionID) ||
		errors.Is(err, ErrInvalidContent) ||
		errors.Is(err, ErrUnknownElement)
}
