package folio

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Element type tags used on the wire.
const (
	elementTypeSubtitle = "subtitle"
	elementTypeText     = "text"
	elementTypeList     = "list"
)

type sectionJSON struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content,omitempty"`
	Order   int             `json:"order"`
	Locked  bool            `json:"locked,omitempty"`
}

type elementJSON struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON accepts content either as a string (legacy shape) or as an
// array of {"type": "subtitle"|"text"|"list", "content": ...} objects.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	content, err := decodeContent(raw.Content)
	if err != nil {
		return fmt.Errorf("section %q: %w", raw.ID, err)
	}

	*s = Section{
		ID:      raw.ID,
		Title:   raw.Title,
		Content: content,
		Order:   raw.Order,
		Locked:  raw.Locked,
	}
	return nil
}

// MarshalJSON writes the same wire shape UnmarshalJSON reads.
func (s Section) MarshalJSON() ([]byte, error) {
	raw := sectionJSON{
		ID:     s.ID,
		Title:  s.Title,
		Order:  s.Order,
		Locked: s.Locked,
	}
	if s.Content != nil {
		enc := &contentEncoder{}
		s.Content.acceptContent(enc)
		if enc.err != nil {
			return nil, enc.err
		}
		raw.Content = enc.out
	}
	return json.Marshal(raw)
}

func decodeContent(data json.RawMessage) (Content, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return LegacyText(text), nil
	case '[':
		var raw []elementJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		elems := make(Elements, 0, len(raw))
		for i, r := range raw {
			elem, err := decodeElement(r)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, elem)
		}
		return elems, nil
	default:
		return nil, fmt.Errorf("%w: expected string or array", ErrInvalidContent)
	}
}

func decodeElement(r elementJSON) (Element, error) {
	switch r.Type {
	case elementTypeSubtitle:
		text, err := decodeText(r.Content)
		if err != nil {
			return nil, err
		}
		return Subtitle{Text: text}, nil
	case elementTypeText:
		text, err := decodeText(r.Content)
		if err != nil {
			return nil, err
		}
		return Paragraph{Text: text}, nil
	case elementTypeList:
		var items []string
		if len(bytes.TrimSpace(r.Content)) > 0 {
			if err := json.Unmarshal(r.Content, &items); err != nil {
				return nil, fmt.Errorf("%w: list content must be an array of strings", ErrInvalidContent)
			}
		}
		return List{Items: items}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownElement, r.Type)
	}
}

func decodeText(data json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return "", fmt.Errorf("%w: element content must be a string", ErrInvalidContent)
	}
	return text, nil
}

// contentEncoder turns Content back into its wire shape.
type contentEncoder struct {
	out json.RawMessage
	err error
}

func (e *contentEncoder) visitLegacyText(t LegacyText) {
	e.out, e.err = json.Marshal(string(t))
}

func (e *contentEncoder) visitElements(elems Elements) {
	raw := make([]elementJSON, 0, len(elems))
	for _, elem := range elems {
		if elem == nil {
			continue
		}
		w := &elementEncoder{}
		elem.acceptElement(w)
		if w.err != nil {
			e.err = w.err
			return
		}
		raw = append(raw, w.out)
	}
	e.out, e.err = json.Marshal(raw)
}

type elementEncoder struct {
	out elementJSON
	err error
}

func (e *elementEncoder) visitSubtitle(s Subtitle) {
	e.out.Type = elementTypeSubtitle
	e.out.Content, e.err = json.Marshal(s.Text)
}

func (e *elementEncoder) visitParagraph(p Paragraph) {
	e.out.Type = elementTypeText
	e.out.Content, e.err = json.Marshal(p.Text)
}

func (e *elementEncoder) visitList(l List) {
	items := l.Items
	if items == nil {
		items = []string{}
	}
	e.out.Type = elementTypeList
	e.out.Content, e.err = json.Marshal(items)
}
