package export

import (
	"encoding/json"
	"errors"
	"fmt"

	folio "github.com/alnah/go-folio"
)

// ErrMissingData is returned when a request lacks sections or personal info.
var ErrMissingData = errors.New("missing CV data: sections and personalInfo are required")

// Mode selects what happens to the rendered PDF.
type Mode int

const (
	// ModeStream returns the PDF bytes to the caller.
	ModeStream Mode = iota
	// ModePersist stores the PDF and makes it the profile CV.
	ModePersist
	// ModeLink stores the PDF behind a temporary link.
	ModeLink
)

func (m Mode) String() string {
	switch m {
	case ModePersist:
		return "persist"
	case ModeLink:
		return "link"
	default:
		return "stream"
	}
}

// Request is one export. A nil Sections slice means the field was missing;
// an empty one renders a CV without sections.
type Request struct {
	Sections     []folio.Section
	PersonalInfo *folio.PersonalInfo
	DarkMode     bool
	Persist      bool
	Link         bool
	GeneratedOn  string
}

// Mode reports the export mode. Persist wins over Link.
func (r Request) Mode() Mode {
	switch {
	case r.Persist:
		return ModePersist
	case r.Link:
		return ModeLink
	default:
		return ModeStream
	}
}

// Validate checks that the CV data is present and well formed.
func (r Request) Validate() error {
	if r.Sections == nil || r.PersonalInfo == nil {
		return ErrMissingData
	}
	return folio.ValidateSections(r.Sections)
}

// Input converts the request for the rendering pipeline.
func (r Request) Input() folio.Input {
	in := folio.Input{
		Sections:    r.Sections,
		DarkMode:    r.DarkMode,
		GeneratedOn: r.GeneratedOn,
	}
	if r.PersonalInfo != nil {
		in.PersonalInfo = *r.PersonalInfo
	}
	return in
}

type cvDataJSON struct {
	Sections     []folio.Section     `json:"sections"`
	PersonalInfo *folio.PersonalInfo `json:"personalInfo"`
}

type requestJSON struct {
	CVData       *cvDataJSON         `json:"cvData"`
	Sections     []folio.Section     `json:"sections"`
	PersonalInfo *folio.PersonalInfo `json:"personalInfo"`
	DarkMode     *bool               `json:"darkMode"`
	IsDarkMode   *bool               `json:"isDarkMode"`
	Persist      *bool               `json:"persist"`
	SaveAsCV     *bool               `json:"saveAsCV"`
	Link         bool                `json:"link"`
	GeneratedOn  string              `json:"generatedOn"`
}

// UnmarshalJSON accepts both the flat shape and the legacy
// {cvData, isDarkMode, saveAsCV} shape. Flat fields win.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding export request: %w", err)
	}
	*r = Request{
		Sections:     raw.Sections,
		PersonalInfo: raw.PersonalInfo,
		DarkMode:     firstBool(raw.DarkMode, raw.IsDarkMode),
		Persist:      firstBool(raw.Persist, raw.SaveAsCV),
		Link:         raw.Link,
		GeneratedOn:  raw.GeneratedOn,
	}
	if raw.CVData != nil {
		if r.Sections == nil {
			r.Sections = raw.CVData.Sections
		}
		if r.PersonalInfo == nil {
			r.PersonalInfo = raw.CVData.PersonalInfo
		}
	}
	return nil
}

func firstBool(vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return false
}
