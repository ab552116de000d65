package folio

import (
	"cmp"
	"fmt"
	"slices"
)

// Section is one titled block of the CV.
type Section struct {
	ID    string
	Title string

	// Content is either LegacyText or Elements. Nil means no content at all.
	Content Content

	// Order drives sorting before pagination. Ties keep their input order.
	Order int

	// Locked sections cannot be removed by the editor. The pipeline ignores it.
	Locked bool
}

// Content is the closed set of section content shapes: LegacyText or Elements.
type Content interface {
	acceptContent(v contentVisitor)
}

// contentVisitor dispatches over every Content variant.
// Adding a variant without handling it here fails to compile.
type contentVisitor interface {
	visitLegacyText(LegacyText)
	visitElements(Elements)
}

// LegacyText is the older single-string content shape.
type LegacyText string

// Elements is the structured content shape: an ordered list of elements.
type Elements []Element

func (t LegacyText) acceptContent(v contentVisitor) { v.visitLegacyText(t) }
func (e Elements) acceptContent(v contentVisitor)   { v.visitElements(e) }

// Element is the closed set of structured content elements:
// Subtitle, Paragraph and List.
type Element interface {
	acceptElement(v elementVisitor)
}

type elementVisitor interface {
	visitSubtitle(Subtitle)
	visitParagraph(Paragraph)
	visitList(List)
}

// Subtitle is a heading inside a section.
type Subtitle struct {
	Text string
}

// Paragraph is a block of text. Newlines are rendered as line breaks.
type Paragraph struct {
	Text string
}

// List is a bulleted list of items.
type List struct {
	Items []string
}

func (s Subtitle) acceptElement(v elementVisitor)  { v.visitSubtitle(s) }
func (p Paragraph) acceptElement(v elementVisitor) { v.visitParagraph(p) }
func (l List) acceptElement(v elementVisitor)      { v.visitList(l) }

// SortSections returns a copy of sections sorted by Order.
// The sort is stable and the input slice is left untouched.
func SortSections(sections []Section) []Section {
	sorted := slices.Clone(sections)
	slices.SortStableFunc(sorted, func(a, b Section) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return sorted
}

// ValidateSections checks that every section has a non-empty, unique ID.
func ValidateSections(sections []Section) error {
	seen := make(map[string]int, len(sections))
	for i, s := range sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalidSection, i)
		}
		if prev, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateSectionID, s.ID, prev, i)
		}
		seen[s.ID] = i
	}
	return nil
}
