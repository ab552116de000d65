package portfolio

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// profileID is the fixed id of the single profile document.
const profileID = "profile"

// ProfileRepository persists the profile singleton.
type ProfileRepository interface {
	Get(ctx context.Context, id string) (Profile, error)
	Upsert(ctx context.Context, id string, doc Profile) error
}

// ProfileService reads and writes the profile.
type ProfileService struct {
	repo   ProfileRepository
	media  MediaRemover
	logger *zap.Logger
}

func NewProfileService(repo ProfileRepository, media MediaRemover, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, media: media, logger: logger}
}

// Get returns the profile, or a zero Profile and false when none exists yet.
func (s *ProfileService) Get(ctx context.Context) (Profile, bool, error) {
	p, err := s.repo.Get(ctx, profileID)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

// Upsert creates or replaces the profile. It reports whether the profile
// existed before. A replaced photo or CV is deleted from storage.
func (s *ProfileService) Upsert(ctx context.Context, p Profile) (Profile, bool, error) {
	prev, existed, err := s.Get(ctx)
	if err != nil {
		return p, false, err
	}
	p.ID = profileID
	if err := s.repo.Upsert(ctx, profileID, p); err != nil {
		return p, existed, err
	}
	removeMedia(ctx, s.media, s.logger, droppedMedia(prev.mediaURLs(), p.mediaURLs()))
	return p, existed, nil
}

// SetCV makes url the profile CV. The previous CV object is deleted.
func (s *ProfileService) SetCV(ctx context.Context, url string) error {
	p, _, err := s.Get(ctx)
	if err != nil {
		return err
	}
	old := p.CVURL
	p.ID = profileID
	p.CVURL = url
	if err := s.repo.Upsert(ctx, profileID, p); err != nil {
		return err
	}
	if old != "" && old != url {
		removeMedia(ctx, s.media, s.logger, []string{old})
	}
	return nil
}
