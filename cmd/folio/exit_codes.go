package main

import (
	"errors"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/internal/export"
)

// Exit codes for the folio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, arguments or CV input
	ExitConfig  = 3 // Missing or invalid configuration
	ExitRender  = 4 // Browser or PDF rendering errors
)

// CLI errors, wrapped with %w so exitCodeFor can classify them.
var (
	ErrUsage     = errors.New("invalid usage")
	ErrReadInput = errors.New("failed to read input")
	ErrWriteFile = errors.New("failed to write output")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Rendering errors (exit 4)
	if errors.Is(err, folio.ErrBrowserConnect) ||
		errors.Is(err, folio.ErrPageCreate) ||
		errors.Is(err, folio.ErrPageLoad) ||
		errors.Is(err, folio.ErrPDFGeneration) ||
		errors.Is(err, folio.ErrTemplateRender) {
		return ExitRender
	}

	// Configuration errors (exit 3)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrMissingField) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, folio.ErrStyleNotFound) ||
		errors.Is(err, folio.ErrTemplateNotFound) ||
		errors.Is(err, folio.ErrInvalidAssetPath) {
		return ExitConfig
	}

	// Usage and input errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, export.ErrMissingData) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		folio.IsInputError(err) {
		return ExitUsage
	}

	return ExitGeneral
}
