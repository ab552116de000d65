package portfolio

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	folio "github.com/alnah/go-folio"
)

func TestBuildDraft(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		Profile: Profile{
			FirstName: "Ada", LastName: "Lovelace", Title: "Engineer",
			Summary: " Builds engines. ", Email: "ada@example.com", Website: "https://ada.dev",
		},
		Skills: []Skill{{Title: "Go", Description: "Services"}, {Title: "SQL"}},
		Projects: []Project{
			{Title: "Engine", Description: "Analytical", AccessURL: "https://engine.dev", SourceURL: "https://git/engine"},
			{Title: "Notes"},
		},
		Education: []Education{{Title: "MSc", School: "Cambridge", Year: "2021"}, {Title: "Course"}},
		Hobbies:   []Hobby{{Description: "chess"}, {Description: "poetry"}},
		Links: []SocialLink{
			{Name: "My GitHub", URL: "https://github.com/ada"},
			{Name: "LinkedIn", URL: "https://linkedin.com/in/ada"},
		},
	}

	d := BuildDraft(snap)

	wantInfo := folio.PersonalInfo{
		Name: "Ada Lovelace", Title: "Engineer", Email: "ada@example.com", Website: "https://ada.dev",
		Github: "https://github.com/ada", Linkedin: "https://linkedin.com/in/ada",
	}
	if d.PersonalInfo != wantInfo {
		t.Errorf("PersonalInfo = %+v, want %+v", d.PersonalInfo, wantInfo)
	}

	wantSections := []folio.Section{
		{ID: "resume", Title: "PROFESSIONAL SUMMARY", Order: 1, Content: folio.LegacyText("Builds engines.")},
		{ID: "skills", Title: "TECHNICAL SKILLS", Order: 2, Content: folio.Elements{
			folio.Subtitle{Text: "Go"}, folio.Paragraph{Text: "Services"}, folio.Subtitle{Text: "SQL"},
		}},
		{ID: "projects", Title: "PROJECTS", Order: 3, Content: folio.Elements{
			folio.Subtitle{Text: "Engine"}, folio.Paragraph{Text: "Analytical"},
			folio.List{Items: []string{"https://engine.dev", "https://git/engine"}},
			folio.Subtitle{Text: "Notes"},
		}},
		{ID: "education", Title: "EDUCATION", Order: 4, Content: folio.Elements{
			folio.Subtitle{Text: "MSc"}, folio.Paragraph{Text: "Cambridge, 2021"}, folio.Subtitle{Text: "Course"},
		}},
		{ID: "hobbies", Title: "HOBBIES", Order: 5, Content: folio.LegacyText("chess, poetry")},
	}
	if diff := cmp.Diff(wantSections, d.Sections); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}
	for _, s := range d.Sections {
		if s.Locked {
			t.Errorf("section %q is locked, want all draft sections unlocked", s.ID)
		}
	}
	if err := folio.ValidateSections(d.Sections); err != nil {
		t.Errorf("draft sections fail validation: %v", err)
	}
}

func TestBuildDraft_EmptyPortfolio(t *testing.T) {
	t.Parallel()

	d := BuildDraft(Snapshot{})

	if len(d.Sections) != 5 {
		t.Fatalf("len(Sections) = %d, want 5", len(d.Sections))
	}
	if d.PersonalInfo != (folio.PersonalInfo{}) {
		t.Errorf("PersonalInfo = %+v, want zero", d.PersonalInfo)
	}
	// Empty sections still render, as placeholders.
	pages := folio.Layout(d.Sections, 0)
	if len(pages) == 0 {
		t.Error("Layout() of empty draft produced no pages")
	}
}

func TestStore_Snapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t, nil, nil)

	_, _, _ = s.Profile.Upsert(ctx, Profile{FirstName: "Ada"})
	_, _ = s.Skills.Create(ctx, Skill{Title: "Go"})
	_, _ = s.Projects.Create(ctx, Project{Title: "b", Position: 2})
	_, _ = s.Projects.Create(ctx, Project{Title: "a", Position: 1})
	_, _ = s.Links.Create(ctx, SocialLink{Name: "GitHub", URL: "https://github.com/ada"})

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Profile.FirstName != "Ada" || len(snap.Skills) != 1 || len(snap.Links) != 1 {
		t.Errorf("Snapshot() = %+v", snap)
	}
	if len(snap.Projects) != 2 || snap.Projects[0].Title != "a" {
		t.Errorf("Snapshot().Projects = %+v, want sorted by position", snap.Projects)
	}
}
