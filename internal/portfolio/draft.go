package portfolio

import (
	"strings"

	folio "github.com/alnah/go-folio"
)

// Draft section ids, in display order.
const (
	SectionResume    = "resume"
	SectionSkills    = "skills"
	SectionProjects  = "projects"
	SectionEducation = "education"
	SectionHobbies   = "hobbies"
)

// Snapshot is the portfolio content the default CV is built from.
type Snapshot struct {
	Profile   Profile
	Skills    []Skill
	Projects  []Project
	Education []Education
	Hobbies   []Hobby
	Links     []SocialLink
}

// Draft is the editable CV proposed from the portfolio.
type Draft struct {
	Sections     []folio.Section    `json:"sections"`
	PersonalInfo folio.PersonalInfo `json:"personalInfo"`
}

// BuildDraft turns the portfolio into the default CV sections and header.
// Lists are taken in the order given.
func BuildDraft(s Snapshot) Draft {
	return Draft{
		Sections: []folio.Section{
			{ID: SectionResume, Title: "PROFESSIONAL SUMMARY", Order: 1, Content: folio.LegacyText(strings.TrimSpace(s.Profile.Summary))},
			{ID: SectionSkills, Title: "TECHNICAL SKILLS", Order: 2, Content: skillElements(s.Skills)},
			{ID: SectionProjects, Title: "PROJECTS", Order: 3, Content: projectElements(s.Projects)},
			{ID: SectionEducation, Title: "EDUCATION", Order: 4, Content: educationElements(s.Education)},
			{ID: SectionHobbies, Title: "HOBBIES", Order: 5, Content: hobbiesText(s.Hobbies)},
		},
		PersonalInfo: personalInfo(s.Profile, s.Links),
	}
}

func skillElements(skills []Skill) folio.Elements {
	elems := folio.Elements{}
	for _, sk := range skills {
		elems = append(elems, folio.Subtitle{Text: sk.Title})
		if d := strings.TrimSpace(sk.Description); d != "" {
			elems = append(elems, folio.Paragraph{Text: d})
		}
	}
	return elems
}

func projectElements(projects []Project) folio.Elements {
	elems := folio.Elements{}
	for _, p := range projects {
		elems = append(elems, folio.Subtitle{Text: p.Title})
		if d := strings.TrimSpace(p.Description); d != "" {
			elems = append(elems, folio.Paragraph{Text: d})
		}
		if links := nonEmpty(p.AccessURL, p.SourceURL); len(links) > 0 {
			elems = append(elems, folio.List{Items: links})
		}
	}
	return elems
}

func educationElements(education []Education) folio.Elements {
	elems := folio.Elements{}
	for _, e := range education {
		elems = append(elems, folio.Subtitle{Text: e.Title})
		if line := strings.Join(nonEmpty(e.School, e.Year), ", "); line != "" {
			elems = append(elems, folio.Paragraph{Text: line})
		}
	}
	return elems
}

func hobbiesText(hobbies []Hobby) folio.LegacyText {
	parts := make([]string, 0, len(hobbies))
	for _, h := range hobbies {
		parts = append(parts, h.Description)
	}
	return folio.LegacyText(strings.Join(parts, ", "))
}

func personalInfo(p Profile, links []SocialLink) folio.PersonalInfo {
	return folio.PersonalInfo{
		Name:     p.FullName(),
		Title:    p.Title,
		Email:    p.Email,
		Phone:    p.Phone,
		Website:  p.Website,
		Github:   linkNamed(links, "github"),
		Linkedin: linkNamed(links, "linkedin"),
	}
}

// linkNamed returns the URL of the first link whose name contains word,
// ignoring case.
func linkNamed(links []SocialLink, word string) string {
	for _, l := range links {
		if strings.Contains(strings.ToLower(l.Name), word) {
			return l.URL
		}
	}
	return ""
}
