package folio

import (
	"context"
	"errors"
	"math"
	"os"
	"runtime"
	"strings"
	"testing"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	Result     []byte
	Err        error
	CalledWith string
	CalledOpts *pdfOptions
	FileHTML   string
	Closed     bool
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.CalledWith = filePath
	m.CalledOpts = opts
	data, err := os.ReadFile(filePath) // #nosec G304 -- test temp file
	if err != nil {
		return nil, err
	}
	m.FileHTML = string(data)
	return m.Result, m.Err
}

func (m *mockRenderer) Close() error {
	m.Closed = true
	return nil
}

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		result  []byte
		err     error
		wantErr error
	}{
		{
			name:   "writes html to a temp file and renders it",
			html:   "<html><body>CV</body></html>",
			result: []byte("%PDF-1.4 test"),
		},
		{
			name:    "renderer error is returned",
			html:    "<html></html>",
			err:     ErrPDFGeneration,
			wantErr: ErrPDFGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockRenderer{Result: tt.result, Err: tt.err}
			conv := &rodConverter{renderer: mock}

			got, err := conv.ToPDF(context.Background(), tt.html, defaultPDFOptions())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ToPDF() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("ToPDF() unexpected error: %v", err)
			}

			if string(got) != string(tt.result) {
				t.Errorf("ToPDF() = %q, want %q", got, tt.result)
			}
			if mock.FileHTML != tt.html {
				t.Errorf("renderer read %q, want %q", mock.FileHTML, tt.html)
			}
			if !strings.HasSuffix(mock.CalledWith, ".html") {
				t.Errorf("temp file %q should have .html extension", mock.CalledWith)
			}
			if _, statErr := os.Stat(mock.CalledWith); !os.IsNotExist(statErr) {
				t.Errorf("temp file %q was not removed", mock.CalledWith)
			}
		})
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{}
	conv := &rodConverter{renderer: mock}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !mock.Closed {
		t.Error("Close() did not close the renderer")
	}

	empty := &rodConverter{}
	if err := empty.Close(); err != nil {
		t.Errorf("Close() with nil renderer error: %v", err)
	}
}

func TestNewRodConverter(t *testing.T) {
	t.Parallel()

	conv := newRodConverter(defaultTimeout)
	r, ok := conv.renderer.(*rodRenderer)
	if !ok {
		t.Fatalf("renderer is %T, want *rodRenderer", conv.renderer)
	}
	if r.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", r.timeout, defaultTimeout)
	}
	if r.browser != nil {
		t.Error("browser should be launched lazily")
	}
}

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	const eps = 1e-9
	approx := func(a, b float64) bool { return math.Abs(a-b) < eps }

	for _, tc := range []struct {
		name string
		opts *pdfOptions
	}{
		{"nil uses A4 defaults", nil},
		{"explicit defaults", defaultPDFOptions()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := buildPDFOptions(tc.opts)
			if !approx(*p.PaperWidth, 210/25.4) || !approx(*p.PaperHeight, 297/25.4) {
				t.Errorf("paper = %vx%v in, want A4", *p.PaperWidth, *p.PaperHeight)
			}
			for name, m := range map[string]*float64{
				"top": p.MarginTop, "bottom": p.MarginBottom, "left": p.MarginLeft, "right": p.MarginRight,
			} {
				if !approx(*m, 20/25.4) {
					t.Errorf("margin %s = %v in, want 20mm", name, *m)
				}
			}
			if !p.PrintBackground {
				t.Error("PrintBackground should be on for dark mode")
			}
			if !p.PreferCSSPageSize {
				t.Error("PreferCSSPageSize should be on")
			}
		})
	}
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/folio-1.html", "file:///tmp/folio-1.html"},
		{"/tmp/my cv.html", "file:///tmp/my%20cv.html"},
	}
	for _, tt := range tests {
		if got := fileURL(tt.path); got != tt.want {
			t.Errorf("fileURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
