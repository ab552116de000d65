package folio

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Placeholders rendered instead of empty blocks.
const (
	PlaceholderLegacyText = "content to add…"
	PlaceholderNoContent  = "no content added"
	PlaceholderEmptyList  = "no items in this list"
)

// Assembler renders paginated sections into a standalone HTML document.
// It is safe for concurrent use.
type Assembler struct {
	tmpl    *template.Template
	baseCSS string
	lang    string
}

// NewAssembler parses the CV layout and stylesheet from loader.
func NewAssembler(loader AssetLoader) (*Assembler, error) {
	layout, err := loader.LoadTemplate(DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	tmpl, err := template.New(DefaultTemplate).Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing layout: %v", ErrTemplateRender, err)
	}
	return &Assembler{tmpl: tmpl, baseCSS: css, lang: "en"}, nil
}

var defaultAssembler = sync.OnceValues(func() (*Assembler, error) {
	loader, err := NewAssetLoader("")
	if err != nil {
		return nil, err
	}
	return NewAssembler(loader)
})

// Assemble renders pages with the built-in layout.
// It performs no I/O and returns identical output for identical input.
func Assemble(pages []Page, info PersonalInfo, opts AssembleOptions) (string, error) {
	a, err := defaultAssembler()
	if err != nil {
		return "", err
	}
	return a.Assemble(pages, info, opts)
}

// Assemble renders pages into one HTML document. All text is HTML-escaped.
// An empty page list yields a complete document with no page blocks.
func (a *Assembler) Assemble(pages []Page, info PersonalInfo, opts AssembleOptions) (string, error) {
	lang := opts.Lang
	if lang == "" {
		lang = a.lang
	}

	doc := documentView{
		Lang: lang,
		CSS:  template.CSS(sanitizeCSS(buildPageCSS() + buildThemeCSS(opts.DarkMode) + a.baseCSS)), // #nosec G203 -- built from trusted assets
		Info: headerView{
			Name:     info.Name,
			Title:    info.Title,
			Contacts: info.contactLines(),
		},
		GeneratedOn: opts.GeneratedOn,
		TotalPages:  len(pages),
		Pages:       make([]pageView, 0, len(pages)),
	}

	for _, p := range pages {
		pv := pageView{
			Number:   p.Number,
			First:    p.First,
			Last:     p.Last,
			Sections: make([]sectionView, 0, len(p.Sections)),
		}
		for _, s := range p.Sections {
			pv.Sections = append(pv.Sections, sectionView{
				ID:     s.ID,
				Title:  s.Title,
				Blocks: renderBlocks(s.Content),
			})
		}
		doc.Pages = append(doc.Pages, pv)
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

type documentView struct {
	Lang        string
	CSS         template.CSS
	Info        headerView
	GeneratedOn string
	TotalPages  int
	Pages       []pageView
}

type headerView struct {
	Name     string
	Title    string
	Contacts []string
}

type pageView struct {
	Number   int
	First    bool
	Last     bool
	Sections []sectionView
}

type sectionView struct {
	ID     string
	Title  string
	Blocks []blockView
}

// Block kinds understood by the layout template.
const (
	blockSubtitle        = "subtitle"
	blockParagraph       = "paragraph"
	blockList            = "list"
	blockListPlaceholder = "list-placeholder"
	blockPlaceholder     = "placeholder"
)

type blockView struct {
	Kind  string
	Text  string
	Lines []string
	Items []string
}

// renderBlocks maps section content to layout blocks, substituting
// placeholders for empty content.
func renderBlocks(c Content) []blockView {
	if c == nil {
		return []blockView{{Kind: blockPlaceholder, Text: PlaceholderNoContent}}
	}
	r := &blockRenderer{}
	c.acceptContent(r)
	return r.blocks
}

type blockRenderer struct {
	blocks []blockView
}

func (r *blockRenderer) visitLegacyText(t LegacyText) {
	if t == "" {
		r.blocks = append(r.blocks, blockView{Kind: blockPlaceholder, Text: PlaceholderLegacyText})
		return
	}
	r.blocks = append(r.blocks, blockView{Kind: blockParagraph, Lines: splitLines(string(t))})
}

func (r *blockRenderer) visitElements(elems Elements) {
	for _, elem := range elems {
		if elem != nil {
			elem.acceptElement(r)
		}
	}
	if len(r.blocks) == 0 {
		r.blocks = append(r.blocks, blockView{Kind: blockPlaceholder, Text: PlaceholderNoContent})
	}
}

func (r *blockRenderer) visitSubtitle(s Subtitle) {
	r.blocks = append(r.blocks, blockView{Kind: blockSubtitle, Text: s.Text})
}

func (r *blockRenderer) visitParagraph(p Paragraph) {
	r.blocks = append(r.blocks, blockView{Kind: blockParagraph, Lines: splitLines(p.Text)})
}

func (r *blockRenderer) visitList(l List) {
	if len(l.Items) == 0 {
		r.blocks = append(r.blocks, blockView{Kind: blockListPlaceholder, Text: PlaceholderEmptyList})
		return
	}
	r.blocks = append(r.blocks, blockView{Kind: blockList, Items: l.Items})
}

// splitLines normalizes CRLF and splits on newlines.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
