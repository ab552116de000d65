// Package pdfinfo reads structural facts back from rendered PDFs.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/tsawler/tabula/reader"

	"github.com/alnah/go-folio/internal/fileutil"
)

// ErrNotPDF indicates the data does not start with a PDF header.
var ErrNotPDF = errors.New("not a PDF document")

// A4 dimensions in PDF points (1/72 inch).
const (
	A4WidthPt  = 595.28
	A4HeightPt = 841.89

	// sizeTolerancePt absorbs Chrome's rounding of paper sizes.
	sizeTolerancePt = 2.0
)

// Info describes a rendered PDF.
type Info struct {
	Version  string
	Pages    int
	WidthPt  float64 // first page
	HeightPt float64 // first page
}

// IsA4 reports whether the first page is A4 portrait.
func (i Info) IsA4() bool {
	return math.Abs(i.WidthPt-A4WidthPt) <= sizeTolerancePt &&
		math.Abs(i.HeightPt-A4HeightPt) <= sizeTolerancePt
}

// Inspector reads PDF metadata.
type Inspector struct{}

// New creates an Inspector.
func New() *Inspector {
	return &Inspector{}
}

// Inspect parses data and returns its version, page count and first-page size.
// The reader needs a seekable file, so data is spooled to a temp file.
func (in *Inspector) Inspect(data []byte) (Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, ErrNotPDF
	}

	path, cleanup, err := fileutil.SpoolTemp(data, ".pdf")
	if err != nil {
		return Info{}, err
	}
	defer cleanup()

	r, err := reader.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return Info{}, fmt.Errorf("counting pages: %w", err)
	}

	info := Info{
		Version: r.Version().String(),
		Pages:   count,
	}
	if count == 0 {
		return info, nil
	}

	first, err := r.GetPage(0)
	if err != nil {
		return Info{}, fmt.Errorf("reading first page: %w", err)
	}
	if info.WidthPt, err = first.Width(); err != nil {
		return Info{}, fmt.Errorf("reading page width: %w", err)
	}
	if info.HeightPt, err = first.Height(); err != nil {
		return Info{}, fmt.Errorf("reading page height: %w", err)
	}
	return info, nil
}

// PageCount returns the number of pages in data.
func (in *Inspector) PageCount(data []byte) (int, error) {
	info, err := in.Inspect(data)
	if err != nil {
		return 0, err
	}
	return info.Pages, nil
}
