package portfolio

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository persists documents of one collection.
// Get, Replace and Delete return an error matching ErrNotFound for unknown ids.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, doc T) error
	Replace(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// MediaRemover deletes a stored object from its public URL.
type MediaRemover interface {
	DeleteByURL(ctx context.Context, url string) error
}

// Service implements the CRUD operations of one entity collection and the
// lifecycle of the media objects its documents reference.
type Service[T Entity[T]] struct {
	repo    Repository[T]
	media   MediaRemover
	logger  *zap.Logger
	compare func(a, b T) int

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. media may be nil when no document owns media.
func NewService[T Entity[T]](repo Repository[T], media MediaRemover, logger *zap.Logger) *Service[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[T]{
		repo:   repo,
		media:  media,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns every document, sorted when the collection defines an order.
func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.compare != nil {
		slices.SortStableFunc(docs, s.compare)
	}
	return docs, nil
}

func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.Get(ctx, id)
}

// Create assigns a fresh id and stores doc.
func (s *Service[T]) Create(ctx context.Context, doc T) (T, error) {
	doc, err := doc.WithID(s.newID()).Prepare(s.now())
	if err != nil {
		return doc, err
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// Update replaces the document with the given id. Media the previous
// version referenced and the new one does not are deleted.
func (s *Service[T]) Update(ctx context.Context, id string, doc T) (T, error) {
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return doc, err
	}
	doc = doc.WithID(id)
	if h, ok := any(doc).(interface{ inherit(T) T }); ok {
		doc = h.inherit(prev)
	}
	doc, err = doc.Prepare(s.now())
	if err != nil {
		return doc, err
	}
	if err := s.repo.Replace(ctx, id, doc); err != nil {
		return doc, err
	}
	s.removeMedia(ctx, droppedMedia(prev.MediaURLs(), doc.MediaURLs()))
	return doc, nil
}

// Delete removes one document and its media.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeMedia(ctx, prev.MediaURLs())
	return nil
}

// DeleteAll removes every document and their media.
func (s *Service[T]) DeleteAll(ctx context.Context) (int64, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, d := range docs {
		s.removeMedia(ctx, d.MediaURLs())
	}
	return n, nil
}

// removeMedia deletes objects from storage. Failures are logged only:
// the document change has already been committed.
func (s *Service[T]) removeMedia(ctx context.Context, urls []string) {
	removeMedia(ctx, s.media, s.logger, urls)
}

func removeMedia(ctx context.Context, media MediaRemover, logger *zap.Logger, urls []string) {
	if media == nil {
		return
	}
	for _, u := range urls {
		if err := media.DeleteByURL(ctx, u); err != nil {
			logger.Warn("media cleanup failed", zap.String("url", u), zap.Error(err))
			continue
		}
		logger.Debug("media deleted", zap.String("url", u))
	}
}

// droppedMedia returns the URLs of prev missing from next.
func droppedMedia(prev, next []string) []string {
	var out []string
	for _, u := range prev {
		if !slices.Contains(next, u) {
			out = append(out, u)
		}
	}
	return out
}

// Projects adds manual ordering to the project collection.
type Projects struct {
	*Service[Project]
}

// Reorder sets each listed project's position to its index + 1.
// Every id must exist; ids not listed keep their position.
func (p *Projects) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no project ids", ErrInvalidOrder)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			return fmt.Errorf("%w: empty or repeated id %q", ErrInvalidOrder, id)
		}
		seen[id] = true
	}
	for i, id := range ids {
		proj, err := p.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		proj.Position = i + 1
		if err := p.repo.Replace(ctx, id, proj); err != nil {
			return fmt.Errorf("reordering project %s: %w", id, err)
		}
	}
	return nil
}
