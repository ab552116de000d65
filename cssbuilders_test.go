package folio

import (
	"strings"
	"testing"
)

func TestBuildThemeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dark bool
		want []string
	}{
		{
			name: "light",
			dark: false,
			want: []string{"--cv-fg: #000000", "--cv-bg: #ffffff", "--cv-muted: #666666", "--cv-body: #333333", "--cv-rule: #cccccc"},
		},
		{
			name: "dark",
			dark: true,
			want: []string{"--cv-fg: #ffffff", "--cv-bg: #000000", "--cv-muted: #cccccc", "--cv-body: #cccccc", "--cv-rule: #666666"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css := buildThemeCSS(tt.dark)
			for _, w := range tt.want {
				if !strings.Contains(css, w) {
					t.Errorf("buildThemeCSS(%v) missing %q", tt.dark, w)
				}
			}
		})
	}
}

func TestBuildPageCSS(t *testing.T) {
	t.Parallel()

	css := buildPageCSS()
	for _, want := range []string{
		"size: A4;",
		"margin: 20mm;",
		"width: 170mm;",
		"min-height: 257mm;",
		"break-after: page;",
		".page.last-page",
		"break-inside: avoid;",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("buildPageCSS() missing %q", want)
		}
	}
}

func TestPageCSSMatchesBudget(t *testing.T) {
	t.Parallel()

	if got := int(PageHeightMM - 2*MarginMM); got != DefaultPageBudget {
		t.Errorf("printable height = %dmm, DefaultPageBudget = %d", got, DefaultPageBudget)
	}
}

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"body { color: red; }", "body { color: red; }"},
		{"</style><script>", `<\/style><script>`},
		{"a</b</c", `a<\/b<\/c`},
	}

	for _, tt := range tests {
		if got := sanitizeCSS(tt.input); got != tt.want {
			t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
