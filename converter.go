package folio

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/pdfinfo"
)

// Compile-time interface implementation checks.
var (
	_ pdfConverter  = (*rodConverter)(nil)
	_ pdfRenderer   = (*rodRenderer)(nil)
	_ pageInspector = (*pdfinfo.Inspector)(nil)
)

// pageInspector reads facts back from a rendered PDF.
type pageInspector interface {
	Inspect(pdf []byte) (pdfinfo.Info, error)
}

// Converter orchestrates the sections-to-PDF pipeline:
// validate, sort, paginate, assemble, render and inspect.
// Create with NewConverter, use Convert for conversion, and Close when done.
type Converter struct {
	cfg          converterConfig
	logger       *zap.Logger
	assembler    *Assembler
	pdfConverter pdfConverter
	inspector    pageInspector
}

// NewConverter creates a Converter with default configuration.
// Returns an error if the layout or stylesheet cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			budget:  DefaultPageBudget,
			now:     time.Now,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	loader, err := NewAssetLoader(c.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	if c.assembler, err = NewAssembler(loader); err != nil {
		return nil, err
	}
	if c.cfg.lang != "" {
		c.assembler.lang = c.cfg.lang
	}

	// Injected by tests.
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}
	if c.inspector == nil {
		c.inspector = pdfinfo.New()
	}

	return c, nil
}

// Convert runs the full pipeline and returns the HTML and PDF.
// If input.HTMLOnly is true, PDF rendering is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	generatedOn, err := ResolveDate(input.GeneratedOn, c.cfg.now())
	if err != nil {
		return nil, err
	}

	pages := Layout(input.Sections, c.cfg.budget)

	htmlContent, err := c.assembler.Assemble(pages, input.PersonalInfo, AssembleOptions{
		DarkMode:    input.DarkMode,
		GeneratedOn: generatedOn,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ConvertResult{
		HTML:  []byte(htmlContent),
		Pages: len(pages),
	}
	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, defaultPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes

	c.checkRendered(res)
	return res, nil
}

// checkRendered compares the rendered PDF against the paginator's plan.
// Mismatches are logged, never returned: the estimate is a heuristic.
func (c *Converter) checkRendered(res *ConvertResult) {
	info, err := c.inspector.Inspect(res.PDF)
	if err != nil {
		c.logger.Warn("inspecting rendered PDF", zap.Error(err))
		return
	}
	res.RenderedPages = info.Pages

	// An empty section list still prints one blank sheet.
	want := max(res.Pages, 1)
	if info.Pages != want {
		c.logger.Warn("rendered page count differs from layout",
			zap.Int("layout_pages", res.Pages),
			zap.Int("rendered_pages", info.Pages),
		)
	}
	if !info.IsA4() {
		c.logger.Warn("rendered page is not A4",
			zap.Float64("width_pt", info.WidthPt),
			zap.Float64("height_pt", info.HeightPt),
		)
	}
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
