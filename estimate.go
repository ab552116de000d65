package folio

import "unicode/utf8"

// Height estimation constants, in millimetre-like units.
const (
	BaseSectionHeight = 40 // section title block
	SubtitleHeight    = 25
	LineHeight        = 20
	CharsPerLine      = 80
	ListItemHeight    = 20
	EmptyListHeight   = 20
)

// EstimateHeight returns the approximate rendered height of a section.
// It only drives page breaks; it is not a layout measurement.
func EstimateHeight(s Section) int {
	e := &heightEstimator{total: BaseSectionHeight}
	if s.Content != nil {
		s.Content.acceptContent(e)
	}
	return e.total
}

// textHeight counts characters as Unicode code points.
func textHeight(text string) int {
	n := utf8.RuneCountInString(text)
	lines := (n + CharsPerLine - 1) / CharsPerLine
	return lines * LineHeight
}

type heightEstimator struct {
	total int
}

func (e *heightEstimator) visitLegacyText(t LegacyText) {
	e.total += textHeight(string(t))
}

func (e *heightEstimator) visitElements(elems Elements) {
	for _, elem := range elems {
		if elem != nil {
			elem.acceptElement(e)
		}
	}
}

func (e *heightEstimator) visitSubtitle(Subtitle) {
	e.total += SubtitleHeight
}

func (e *heightEstimator) visitParagraph(p Paragraph) {
	e.total += textHeight(p.Text)
}

func (e *heightEstimator) visitList(l List) {
	if len(l.Items) == 0 {
		e.total += EmptyListHeight
		return
	}
	e.total += len(l.Items) * ListItemHeight
}
