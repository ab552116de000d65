package portfolio

import (
	"fmt"
	"strings"
	"time"
)

// Entity is implemented by every portfolio document stored in its own collection.
type Entity[T any] interface {
	EntityID() string

	// WithID returns a copy carrying id.
	WithID(id string) T

	// Prepare validates and normalizes a document before it is written.
	// now stamps creation dates.
	Prepare(now time.Time) (T, error)

	// MediaURLs lists the storage objects the document owns.
	MediaURLs() []string
}

// Profile is the single "about me" document.
type Profile struct {
	ID        string `bson:"_id" json:"id"`
	LastName  string `bson:"last_name" json:"lastName"`
	FirstName string `bson:"first_name" json:"firstName"`
	BirthDate string `bson:"birth_date,omitempty" json:"birthDate,omitempty"`
	Summary   string `bson:"summary" json:"summary"`
	PhotoURL  string `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Title     string `bson:"title,omitempty" json:"title,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
	CVURL     string `bson:"cv_url,omitempty" json:"cvUrl,omitempty"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

func (p Profile) mediaURLs() []string {
	return nonEmpty(p.PhotoURL, p.CVURL)
}

// Skill is one technical skill.
type Skill struct {
	ID          string `bson:"_id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

func (s Skill) EntityID() string       { return s.ID }
func (s Skill) WithID(id string) Skill { s.ID = id; return s }
func (s Skill) MediaURLs() []string    { return nil }
func (s Skill) Prepare(time.Time) (Skill, error) {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return s, fmt.Errorf("%w: skill title is required", ErrInvalidEntity)
	}
	return s, nil
}

// Project is a portfolio project. Lists are sorted by Position then CreatedAt.
type Project struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	ImageURL    string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	AccessURL   string    `bson:"access_url,omitempty" json:"accessUrl,omitempty"`
	SourceURL   string    `bson:"source_url,omitempty" json:"sourceUrl,omitempty"`
	Position    int       `bson:"position" json:"position"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

func (p Project) EntityID() string         { return p.ID }
func (p Project) WithID(id string) Project { p.ID = id; return p }
func (p Project) MediaURLs() []string      { return nonEmpty(p.ImageURL) }
func (p Project) Prepare(now time.Time) (Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return p, fmt.Errorf("%w: project title is required", ErrInvalidEntity)
	}
	if p.Position < 0 {
		return p, fmt.Errorf("%w: project position must not be negative", ErrInvalidEntity)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	return p, nil
}

// inherit keeps the creation date of the stored version across replacements.
func (p Project) inherit(prev Project) Project {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = prev.CreatedAt
	}
	return p
}

func compareProjects(a, b Project) int {
	if a.Position != b.Position {
		return a.Position - b.Position
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// Education is one diploma or training. Lists are sorted by year, newest first.
type Education struct {
	ID         string `bson:"_id" json:"id"`
	Title      string `bson:"title" json:"title"`
	School     string `bson:"school" json:"school"`
	Year       string `bson:"year" json:"year"`
	DiplomaURL string `bson:"diploma_url,omitempty" json:"diplomaUrl,omitempty"`
}

func (e Education) EntityID() string           { return e.ID }
func (e Education) WithID(id string) Education { e.ID = id; return e }
func (e Education) MediaURLs() []string        { return nonEmpty(e.DiplomaURL) }
func (e Education) Prepare(time.Time) (Education, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.School = strings.TrimSpace(e.School)
	e.Year = strings.TrimSpace(e.Year)
	if e.Title == "" {
		return e, fmt.Errorf("%w: education title is required", ErrInvalidEntity)
	}
	return e, nil
}

func compareEducation(a, b Education) int {
	return strings.Compare(b.Year, a.Year)
}

// Hobby is a free-text interest.
type Hobby struct {
	ID          string `bson:"_id" json:"id"`
	Description string `bson:"description" json:"description"`
}

func (h Hobby) EntityID() string       { return h.ID }
func (h Hobby) WithID(id string) Hobby { h.ID = id; return h }
func (h Hobby) MediaURLs() []string    { return nil }
func (h Hobby) Prepare(time.Time) (Hobby, error) {
	h.Description = strings.TrimSpace(h.Description)
	if h.Description == "" {
		return h, fmt.Errorf("%w: hobby description is required", ErrInvalidEntity)
	}
	return h, nil
}

// SocialLink points to a profile on another site.
type SocialLink struct {
	ID      string `bson:"_id" json:"id"`
	Name    string `bson:"name" json:"name"`
	URL     string `bson:"url" json:"url"`
	IconURL string `bson:"icon_url,omitempty" json:"iconUrl,omitempty"`
}

func (l SocialLink) EntityID() string            { return l.ID }
func (l SocialLink) WithID(id string) SocialLink { l.ID = id; return l }
func (l SocialLink) MediaURLs() []string         { return nonEmpty(l.IconURL) }
func (l SocialLink) Prepare(time.Time) (SocialLink, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.URL = strings.TrimSpace(l.URL)
	if l.Name == "" || l.URL == "" {
		return l, fmt.Errorf("%w: social link name and url are required", ErrInvalidEntity)
	}
	return l, nil
}

// GalleryPhoto is one picture of the gallery.
type GalleryPhoto struct {
	ID       string `bson:"_id" json:"id"`
	PhotoURL string `bson:"photo_url" json:"photoUrl"`
}

func (g GalleryPhoto) EntityID() string              { return g.ID }
func (g GalleryPhoto) WithID(id string) GalleryPhoto { g.ID = id; return g }
func (g GalleryPhoto) MediaURLs() []string           { return nonEmpty(g.PhotoURL) }
func (g GalleryPhoto) Prepare(time.Time) (GalleryPhoto, error) {
	g.PhotoURL = strings.TrimSpace(g.PhotoURL)
	if g.PhotoURL == "" {
		return g, fmt.Errorf("%w: photo url is required", ErrInvalidEntity)
	}
	return g, nil
}

func nonEmpty(urls ...string) []string {
	var out []string
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
