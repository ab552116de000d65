// Package portfolio manages the portfolio content (profile, skills, projects,
// education, hobbies, social links, gallery) and builds the default CV from it.
package portfolio

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/mongostore"
)

// Collection names.
const (
	CollProfile   = "profile"
	CollSkills    = "skills"
	CollProjects  = "projects"
	CollEducation = "education"
	CollHobbies   = "hobbies"
	CollLinks     = "social_links"
	CollGallery   = "gallery"
)

// Repositories groups the persistence of every collection.
type Repositories struct {
	Profile   ProfileRepository
	Skills    Repository[Skill]
	Projects  Repository[Project]
	Education Repository[Education]
	Hobbies   Repository[Hobby]
	Links     Repository[SocialLink]
	Gallery   Repository[GalleryPhoto]
}

// MongoRepositories binds every collection to db.
func MongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Profile:   mongostore.New[Profile](db, CollProfile),
		Skills:    mongostore.New[Skill](db, CollSkills),
		Projects:  mongostore.New[Project](db, CollProjects),
		Education: mongostore.New[Education](db, CollEducation),
		Hobbies:   mongostore.New[Hobby](db, CollHobbies),
		Links:     mongostore.New[SocialLink](db, CollLinks),
		Gallery:   mongostore.New[GalleryPhoto](db, CollGallery),
	}
}

// MemoryRepositories keeps every collection in process memory.
func MemoryRepositories() Repositories {
	return Repositories{
		Profile:   mongostore.NewMemory(func(p Profile) string { return p.ID }),
		Skills:    mongostore.NewMemory(Skill.EntityID),
		Projects:  mongostore.NewMemory(Project.EntityID),
		Education: mongostore.NewMemory(Education.EntityID),
		Hobbies:   mongostore.NewMemory(Hobby.EntityID),
		Links:     mongostore.NewMemory(SocialLink.EntityID),
		Gallery:   mongostore.NewMemory(GalleryPhoto.EntityID),
	}
}

// Store exposes one service per collection.
type Store struct {
	Profile   *ProfileService
	Skills    *Service[Skill]
	Projects  *Projects
	Education *Service[Education]
	Hobbies   *Service[Hobby]
	Links     *Service[SocialLink]
	Gallery   *Service[GalleryPhoto]
}

// NewStore creates the services. media deletes replaced and removed objects.
func NewStore(repos Repositories, media MediaRemover, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	projects := NewService(repos.Projects, media, logger.With(zap.String("collection", CollProjects)))
	projects.compare = compareProjects
	education := NewService(repos.Education, media, logger.With(zap.String("collection", CollEducation)))
	education.compare = compareEducation

	return &Store{
		Profile:   NewProfileService(repos.Profile, media, logger.With(zap.String("collection", CollProfile))),
		Skills:    NewService(repos.Skills, media, logger.With(zap.String("collection", CollSkills))),
		Projects:  &Projects{Service: projects},
		Education: education,
		Hobbies:   NewService(repos.Hobbies, media, logger.With(zap.String("collection", CollHobbies))),
		Links:     NewService(repos.Links, media, logger.With(zap.String("collection", CollLinks))),
		Gallery:   NewService(repos.Gallery, media, logger.With(zap.String("collection", CollGallery))),
	}
}

// Snapshot reads everything BuildDraft needs.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Profile, _, err = s.Profile.Get(ctx); err != nil {
		return snap, fmt.Errorf("loading profile: %w", err)
	}
	if snap.Skills, err = s.Skills.List(ctx); err != nil {
		return snap, fmt.Errorf("loading skills: %w", err)
	}
	if snap.Projects, err = s.Projects.List(ctx); err != nil {
		return snap, fmt.Errorf("loading projects: %w", err)
	}
	if snap.Education, err = s.Education.List(ctx); err != nil {
		return snap, fmt.Errorf("loading education: %w", err)
	}
	if snap.Hobbies, err = s.Hobbies.List(ctx); err != nil {
		return snap, fmt.Errorf("loading hobbies: %w", err)
	}
	if snap.Links, err = s.Links.List(ctx); err != nil {
		return snap, fmt.Errorf("loading social links: %w", err)
	}
	return snap, nil
}
