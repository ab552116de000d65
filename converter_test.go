package folio

// Notes:
// - Tests Converter.Convert with a mocked PDF backend and page inspector, so
//   no browser is needed
// - Log assertions use zap's observer core
// - Internal test options (withPDFConverter, withInspector) inject the mocks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-folio/internal/pdfinfo"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
	panicWith any
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

type mockInspector struct {
	info pdfinfo.Info
	err  error
}

func (m *mockInspector) Inspect([]byte) (pdfinfo.Info, error) {
	return m.info, m.err
}

func a4Info(pages int) pdfinfo.Info {
	return pdfinfo.Info{Version: "1.4", Pages: pages, WidthPt: pdfinfo.A4WidthPt, HeightPt: pdfinfo.A4HeightPt}
}

func withPDFConverter(c pdfConverter) Option {
	return func(conv *Converter) {
		conv.pdfConverter = c
	}
}

func withInspector(i pageInspector) Option {
	return func(conv *Converter) {
		conv.inspector = i
	}
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// ---------------------------------------------------------------------------
// TestConvert_Success - Full Pipeline Data Flow
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{output: []byte("%PDF-1.7 test")}
	conv := newTestConverter(t,
		withPDFConverter(pdfConv),
		withInspector(&mockInspector{info: a4Info(2)}),
	)

	input := Input{
		PersonalInfo: PersonalInfo{Name: "Ada"},
		Sections: []Section{
			sectionOfHeight(t, "late", 2, 200),
			sectionOfHeight(t, "early", 1, 200),
		},
	}

	res, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if string(res.PDF) != "%PDF-1.7 test" {
		t.Errorf("PDF = %q, want %q", res.PDF, "%PDF-1.7 test")
	}
	if res.Pages != 2 || res.RenderedPages != 2 {
		t.Errorf("Pages = %d, RenderedPages = %d, want 2, 2", res.Pages, res.RenderedPages)
	}
	if pdfConv.inputHTML != string(res.HTML) {
		t.Error("PDF backend should receive the assembled HTML")
	}
	if pdfConv.inputOpts == nil || pdfConv.inputOpts.MarginMM != MarginMM {
		t.Errorf("PDF options = %+v, want A4 with %vmm margins", pdfConv.inputOpts, MarginMM)
	}

	html := string(res.HTML)
	if strings.Index(html, `data-section="early"`) > strings.Index(html, `data-section="late"`) {
		t.Error("sections should be sorted by order before rendering")
	}
}

func TestConvert_ValidationError(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{}
	conv := newTestConverter(t, withPDFConverter(pdfConv))

	_, err := conv.Convert(context.Background(), Input{Sections: []Section{{ID: "a"}, {ID: "a"}}})
	if !errors.Is(err, ErrDuplicateSectionID) {
		t.Errorf("Convert() error = %v, want %v", err, ErrDuplicateSectionID)
	}
	if pdfConv.called {
		t.Error("PDF backend should not run on invalid input")
	}
}

func TestConvert_PDFConverterError(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{err: ErrBrowserConnect}))

	_, err := conv.Convert(context.Background(), Input{Sections: []Section{{ID: "a"}}})
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("Convert() error = %v, want %v", err, ErrBrowserConnect)
	}
	if err != nil && !strings.Contains(err.Error(), "converting to PDF") {
		t.Errorf("error %q should be wrapped with context", err)
	}
	if IsInputError(err) {
		t.Error("browser failure should not be an input error")
	}
}

func TestConvert_HTMLOnlySkipsPDF(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{}
	conv := newTestConverter(t, withPDFConverter(pdfConv))

	res, err := conv.Convert(context.Background(), Input{Sections: []Section{{ID: "a"}}, HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if pdfConv.called {
		t.Error("PDF backend should not be called in HTMLOnly mode")
	}
	if res.PDF != nil {
		t.Error("PDF should be nil in HTMLOnly mode")
	}
	if len(res.HTML) == 0 || res.Pages != 1 {
		t.Errorf("HTML len = %d, Pages = %d", len(res.HTML), res.Pages)
	}
}

func TestConvert_EmptySections(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t,
		withPDFConverter(&mockPDFConverter{}),
		withInspector(&mockInspector{info: a4Info(1)}),
	)

	res, err := conv.Convert(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if res.Pages != 0 {
		t.Errorf("Pages = %d, want 0", res.Pages)
	}
	if strings.Contains(string(res.HTML), "data-page=") {
		t.Error("empty input should assemble zero page blocks")
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{panicWith: "boom"}))

	_, err := conv.Convert(context.Background(), Input{Sections: []Section{{ID: "a"}}})
	if err == nil || !strings.Contains(err.Error(), "internal error: boom") {
		t.Errorf("Convert() error = %v, want recovered panic", err)
	}
}

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{}
	conv := newTestConverter(t, withPDFConverter(pdfConv))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Sections: []Section{{ID: "a"}}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want %v", err, context.Canceled)
	}
	if pdfConv.called {
		t.Error("PDF backend should not run after cancellation")
	}
}

func TestConvert_GeneratedOn(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), withClock(func() time.Time { return fixed }))

	tests := []struct {
		value string
		want  string
	}{
		{"auto", "2024-03-15"},
		{"auto:DD/MM/YYYY", "15/03/2024"},
		{"March 2024", "March 2024"},
	}

	for _, tt := range tests {
		res, err := conv.Convert(context.Background(), Input{
			Sections:    []Section{{ID: "a"}},
			GeneratedOn: tt.value,
			HTMLOnly:    true,
		})
		if err != nil {
			t.Fatalf("Convert(%q) error: %v", tt.value, err)
		}
		if !strings.Contains(string(res.HTML), `<div class="generated-on">`+tt.want+`</div>`) {
			t.Errorf("GeneratedOn %q should render %q", tt.value, tt.want)
		}
	}

	_, err := conv.Convert(context.Background(), Input{GeneratedOn: "auto:", HTMLOnly: true})
	if err == nil {
		t.Error("invalid auto date should fail")
	}
}

func TestConvert_LogsRenderMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		info    pdfinfo.Info
		err     error
		wantMsg string
		wantNum int
	}{
		{
			name:    "page count differs",
			info:    a4Info(3),
			wantMsg: "rendered page count differs from layout",
			wantNum: 3,
		},
		{
			name:    "not A4",
			info:    pdfinfo.Info{Pages: 1, WidthPt: 612, HeightPt: 792},
			wantMsg: "rendered page is not A4",
			wantNum: 1,
		},
		{
			name:    "inspection fails",
			err:     pdfinfo.ErrNotPDF,
			wantMsg: "inspecting rendered PDF",
			wantNum: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			conv := newTestConverter(t,
				withPDFConverter(&mockPDFConverter{}),
				withInspector(&mockInspector{info: tt.info, err: tt.err}),
				WithLogger(zap.New(core)),
			)

			res, err := conv.Convert(context.Background(), Input{Sections: []Section{{ID: "a"}}})
			if err != nil {
				t.Fatalf("Convert() should not fail on a mismatch: %v", err)
			}
			if res.RenderedPages != tt.wantNum {
				t.Errorf("RenderedPages = %d, want %d", res.RenderedPages, tt.wantNum)
			}
			if logs.FilterMessage(tt.wantMsg).Len() != 1 {
				t.Errorf("expected one %q warning, got %v", tt.wantMsg, logs.All())
			}
		})
	}
}

func TestConvert_NoWarningWhenRenderMatches(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	conv := newTestConverter(t,
		withPDFConverter(&mockPDFConverter{}),
		withInspector(&mockInspector{info: a4Info(1)}),
		WithLogger(zap.New(core)),
	)

	if _, err := conv.Convert(context.Background(), Input{Sections: []Section{{ID: "a"}}}); err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestConvert_PageBudgetOption(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), WithPageBudget(100))

	res, err := conv.Convert(context.Background(), Input{
		Sections: []Section{sectionOfHeight(t, "a", 0, 100), sectionOfHeight(t, "b", 1, 100)},
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2 with a budget of 100", res.Pages)
	}
}

func TestNewConverter_Options(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}), WithTimeout(time.Minute), WithLang("fr"))
	if conv.cfg.timeout != time.Minute {
		t.Errorf("timeout = %v, want 1m", conv.cfg.timeout)
	}
	if conv.cfg.budget != DefaultPageBudget {
		t.Errorf("budget = %d, want %d", conv.cfg.budget, DefaultPageBudget)
	}

	res, err := conv.Convert(context.Background(), Input{HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if !strings.Contains(string(res.HTML), `<html lang="fr">`) {
		t.Error("WithLang not applied")
	}
}

func TestNewConverter_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	_, err := NewConverter(WithAssetPath("/nonexistent/folio/assets"))
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewConverter() error = %v, want %v", err, ErrInvalidAssetPath)
	}
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"zero timeout", func() { WithTimeout(0) }},
		{"negative timeout", func() { WithTimeout(-time.Second) }},
		{"zero budget", func() { WithPageBudget(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{}
	conv, err := NewConverter(withPDFConverter(pdfConv))
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if !pdfConv.closed {
		t.Error("Close() should close the PDF backend")
	}

	if err := (&Converter{}).Close(); err != nil {
		t.Errorf("Close() with nil backend error: %v", err)
	}
}
