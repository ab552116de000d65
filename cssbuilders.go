package folio

import (
	"fmt"
	"strings"
)

// palette holds the colors of one theme.
type palette struct {
	Foreground string
	Background string
	Muted      string // job title, contact lines
	Body       string // paragraphs and lists
	Rule       string // header and section-title borders
}

var (
	lightPalette = palette{
		Foreground: "#000000",
		Background: "#ffffff",
		Muted:      "#666666",
		Body:       "#333333",
		Rule:       "#cccccc",
	}
	darkPalette = palette{
		Foreground: "#ffffff",
		Background: "#000000",
		Muted:      "#cccccc",
		Body:       "#cccccc",
		Rule:       "#666666",
	}
)

func paletteFor(dark bool) palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

// buildThemeCSS generates the custom properties read by the base stylesheet.
func buildThemeCSS(dark bool) string {
	p := paletteFor(dark)
	return fmt.Sprintf(`
/* Theme */
:root {
  --cv-fg: %s;
  --cv-bg: %s;
  --cv-muted: %s;
  --cv-body: %s;
  --cv-rule: %s;
}
`, p.Foreground, p.Background, p.Muted, p.Body, p.Rule)
}

// buildPageCSS generates the physical page size and the page-break rules.
// Each .page block fills the printable area so the renderer starts a new
// sheet exactly where the paginator did.
func buildPageCSS() string {
	var buf strings.Builder

	contentWidth := PageWidthMM - 2*MarginMM
	contentHeight := PageHeightMM - 2*MarginMM

	fmt.Fprintf(&buf, `
/* Page geometry */
@page {
  size: A4;
  margin: %gmm;
}
.page {
  width: %gmm;
  min-height: %gmm;
  box-sizing: border-box;
  display: flex;
  flex-direction: column;
  break-after: page;
  page-break-after: always;
}
.page.last-page {
  break-after: auto;
  page-break-after: auto;
}
`, MarginMM, contentWidth, contentHeight)

	buf.WriteString(`
/* Page breaks */
.section {
  break-inside: avoid;
  page-break-inside: avoid;
}
.section-title, h4 {
  break-after: avoid;
  page-break-after: avoid;
}
`)

	return buf.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
