// Package apidocs renders the embedded API reference from Markdown to HTML.
package apidocs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates the Markdown could not be rendered.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// highlightStyle is the chroma style of code samples.
const highlightStyle = "github"

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; color: #24292f; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 4px 10px; }
pre { padding: 12px; overflow: auto; border-radius: 6px; }
code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; }
%s
</style>
</head>
<body>
%s
</body>
</html>`

// Renderer converts Markdown documents to standalone HTML pages.
type Renderer struct {
	md  goldmark.Markdown
	css string
}

// NewRenderer creates a Renderer with GFM and class-based syntax highlighting.
func NewRenderer() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithXHTML()),
	)

	var css bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&css, styles.Get(highlightStyle)); err != nil {
		return nil, fmt.Errorf("%w: highlight stylesheet: %v", ErrHTMLConversion, err)
	}
	return &Renderer{md: md, css: css.String()}, nil
}

// ToHTML renders content into a complete HTML page titled after its first heading.
// goldmark has no cancellation, so ctx is only checked before and after.
func (r *Renderer) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(title(content)), r.css, buf.String()), nil
}

// title returns the text of the first level-1 heading.
func title(content string) string {
	for line := range strings.Lines(content) {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return "API"
}
