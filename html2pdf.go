package folio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/process"
)

// pdfConverter prints an assembled CV document.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer prints an HTML file; the browser sits behind it.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfOptions is the sheet geometry in millimetres. The margin applies to
// all four sides.
type pdfOptions struct {
	WidthMM  float64
	HeightMM float64
	MarginMM float64
}

func defaultPDFOptions() *pdfOptions {
	return &pdfOptions{WidthMM: PageWidthMM, HeightMM: PageHeightMM, MarginMM: MarginMM}
}

func mmToInches(mm float64) float64 { return mm / 25.4 }

// buildPDFOptions maps the geometry to Chrome's print parameters. Backgrounds
// are printed so the dark theme survives, and the CSS @page size wins when the
// two disagree.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	if opts == nil {
		opts = defaultPDFOptions()
	}
	inches := func(mm float64) *float64 {
		v := mmToInches(mm)
		return &v
	}
	return &proto.PagePrintToPDF{
		PaperWidth:        inches(opts.WidthMM),
		PaperHeight:       inches(opts.HeightMM),
		MarginTop:         inches(opts.MarginMM),
		MarginBottom:      inches(opts.MarginMM),
		MarginLeft:        inches(opts.MarginMM),
		MarginRight:       inches(opts.MarginMM),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// newLauncher configures Chrome from the environment: ROD_BROWSER_BIN picks
// the binary, and the sandbox is dropped in CI, with a custom binary, or when
// ROD_NO_SANDBOX is "true" or "1".
func newLauncher() *launcher.Launcher {
	l := launcher.New()
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	switch os.Getenv("ROD_NO_SANDBOX") {
	case "true", "1":
		return l.NoSandbox(true)
	}
	if bin != "" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}
	return l
}

// rodRenderer owns one headless Chrome, started on first use. Chromium is
// downloaded by rod when no binary is found.
type rodRenderer struct {
	timeout time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

func (r *rodRenderer) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}

	l := newLauncher()
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser, r.launcher = b, l
	return b, nil
}

// Close shuts the browser down and kills its process group, so no Chrome
// helper outlives the renderer.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile loads filePath in a fresh tab and prints it. The page load
// is bounded by ctx's deadline, or by the renderer timeout without one.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browser, err := r.connect()
	if err != nil {
		return nil, err
	}

	wait := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if wait = time.Until(deadline); wait <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: fileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.Timeout(wait).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // drive letter
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// rodConverter spools the document to disk for rodRenderer, since Chrome
// resolves relative resources against the file location.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	path, cleanup, err := fileutil.SpoolTemp([]byte(htmlContent), ".html")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.renderer.RenderFromFile(ctx, path, opts)
}

func (c *rodConverter) Close() error {
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Close()
}
