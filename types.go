package folio

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Physical page geometry of the rendered CV (A4 portrait).
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	MarginMM     = 20.0
)

// Theme names accepted by AssembleOptions.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PersonalInfo is the header block rendered once, at the top of page 1.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Age      string `json:"age,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	Github   string `json:"github,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
}

// contactLines returns the non-empty contact entries in display order.
func (p PersonalInfo) contactLines() []string {
	var lines []string
	for _, v := range []string{p.Age, p.Email, p.Phone, p.Website, p.Github, p.Linkedin} {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, v)
		}
	}
	return lines
}

// AssembleOptions are presentation toggles for the Document Assembler.
// None of them affects pagination.
type AssembleOptions struct {
	DarkMode    bool
	Lang        string // html lang attribute, "en" when empty
	GeneratedOn string // optional date line on the last page, omitted when empty
}

// Input contains generation parameters.
type Input struct {
	Sections     []Section    // sorted by Order before pagination
	PersonalInfo PersonalInfo // rendered on page 1
	DarkMode     bool
	GeneratedOn  string // literal date, or "auto" / "auto:FORMAT" (see ResolveDate)
	HTMLOnly     bool   // skip PDF rendering
}

// Validate checks section identifiers.
func (in *Input) Validate() error {
	if in == nil {
		return ErrNilInput
	}
	return ValidateSections(in.Sections)
}

// ConvertResult holds the assembled HTML and the rendered PDF.
type ConvertResult struct {
	HTML []byte
	PDF  []byte // nil when Input.HTMLOnly is set

	// Pages is the page count decided by the paginator.
	Pages int

	// RenderedPages is the page count read back from the PDF, 0 if unknown.
	RenderedPages int
}

// Option configures a Converter.
type Option func(*Converter)

type converterConfig struct {
	timeout   time.Duration
	budget    int
	assetPath string
	lang      string
	now       func() time.Time
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("folio: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithPageBudget sets the page-height budget used by the paginator.
// Panics if budget <= 0.
func WithPageBudget(budget int) Option {
	if budget <= 0 {
		panic("folio: WithPageBudget budget must be positive")
	}
	return func(c *Converter) {
		c.cfg.budget = budget
	}
}

// WithAssetPath overrides embedded styles and templates with files from dir.
// Missing files fall back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithLang sets the html lang attribute of generated documents.
func WithLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.lang = lang
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// withClock injects the time source used for "auto" dates.
func withClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}
