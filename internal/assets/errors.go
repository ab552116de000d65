package assets

import "errors"

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidAssetName rejects empty names and names with separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath means the override directory is missing or not a directory.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrAssetRead covers override files that exist but cannot be read,
	// including links that point outside the directory.
	ErrAssetRead = errors.New("failed to read asset")
)
