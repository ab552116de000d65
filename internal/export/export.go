// Package export renders CVs and delivers them as a stream, as the stored
// profile CV, or behind a temporary link deleted after a retention window.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/mongostore"
	"github.com/alnah/go-folio/internal/retention"
	"github.com/alnah/go-folio/internal/storage"
)

var (
	ErrExportNotFound = errors.New("export not found")
	ErrExportExpired  = errors.New("export expired")
)

// CollExports is the collection of temporary export records.
const CollExports = "exports"

// Export is a PDF published behind a temporary link.
type Export struct {
	ID        string           `bson:"_id" json:"id"`
	Object    storage.Object   `bson:"object" json:"object"`
	Handle    retention.Handle `bson:"handle" json:"handle"`
	ExpiresAt time.Time        `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
	Purged    bool             `bson:"purged" json:"purged"`
}

// Renderer turns an input into HTML and PDF.
type Renderer interface {
	Convert(ctx context.Context, input folio.Input) (*folio.ConvertResult, error)
}

// Scheduler owns deferred deletions.
type Scheduler interface {
	Schedule(ctx context.Context, p retention.Payload, after time.Duration) (retention.Handle, error)
	Cancel(ctx context.Context, h retention.Handle) error
}

// Records persists export records.
type Records interface {
	Get(ctx context.Context, id string) (Export, error)
	Create(ctx context.Context, e Export) error
	Replace(ctx context.Context, id string, e Export) error
	Delete(ctx context.Context, id string) error
}

// ProfileCV sets the CV of the portfolio profile.
type ProfileCV interface {
	SetCV(ctx context.Context, url string) error
}

// Config wires a Service.
type Config struct {
	Renderer  Renderer
	Store     storage.Store
	Folder    string // storage folder for PDFs
	Profile   ProfileCV
	Scheduler Scheduler
	Records   Records
	Retention time.Duration
	Logger    *zap.Logger
}

// Service runs exports.
type Service struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, logger: logger, now: time.Now, newID: uuid.NewString}
}

// Result is the outcome of an export.
type Result struct {
	Mode        Mode
	PDF         []byte  // ModeStream only
	DownloadURL string  // ModePersist and ModeLink
	Export      *Export // ModeLink only
	Message     string
	Pages       int
}

// Render validates the request and runs the pipeline without delivering.
func (s *Service) Render(ctx context.Context, req Request, htmlOnly bool) (*folio.ConvertResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	in := req.Input()
	in.HTMLOnly = htmlOnly
	res, err := s.cfg.Renderer.Convert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("rendering CV: %w", err)
	}
	return res, nil
}

// Export renders req and delivers it according to its mode.
func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	res, err := s.Render(ctx, req, false)
	if err != nil {
		return Result{}, err
	}
	mode := req.Mode()
	s.logger.Info("cv rendered",
		zap.Stringer("mode", mode),
		zap.Int("pages", res.Pages),
		zap.Int("bytes", len(res.PDF)))

	switch mode {
	case ModePersist:
		return s.persist(ctx, res)
	case ModeLink:
		return s.link(ctx, res)
	default:
		return Result{Mode: ModeStream, PDF: res.PDF, Pages: res.Pages}, nil
	}
}

func (s *Service) upload(ctx context.Context, pdf []byte) (storage.Object, error) {
	name := storage.ObjectName("cv", "pdf", s.now())
	obj, err := s.cfg.Store.Upload(ctx, s.cfg.Folder, name, bytes.NewReader(pdf))
	if err != nil {
		return obj, fmt.Errorf("uploading CV: %w", err)
	}
	return obj, nil
}

// discard deletes an object whose export failed half-way.
func (s *Service) discard(ctx context.Context, obj storage.Object) {
	if err := s.cfg.Store.Delete(ctx, obj); err != nil {
		s.logger.Warn("orphan export object", zap.String("public_id", obj.PublicID), zap.Error(err))
	}
}

func (s *Service) persist(ctx context.Context, res *folio.ConvertResult) (Result, error) {
	obj, err := s.upload(ctx, res.PDF)
	if err != nil {
		return Result{}, err
	}
	if err := s.cfg.Profile.SetCV(ctx, obj.URL); err != nil {
		s.discard(ctx, obj)
		return Result{}, fmt.Errorf("saving profile CV: %w", err)
	}
	return Result{
		Mode:        ModePersist,
		DownloadURL: obj.URL,
		Message:     "CV generated and saved",
		Pages:       res.Pages,
	}, nil
}

func (s *Service) link(ctx context.Context, res *folio.ConvertResult) (Result, error) {
	obj, err := s.upload(ctx, res.PDF)
	if err != nil {
		return Result{}, err
	}
	exp := Export{ID: s.newID(), Object: obj, CreatedAt: s.now().UTC()}

	h, err := s.cfg.Scheduler.Schedule(ctx, retention.Payload{ExportID: exp.ID, Object: obj}, s.cfg.Retention)
	if err != nil {
		s.discard(ctx, obj)
		return Result{}, fmt.Errorf("scheduling deletion: %w", err)
	}
	exp.Handle = h
	exp.ExpiresAt = h.FireAt.UTC()

	if err := s.cfg.Records.Create(ctx, exp); err != nil {
		if cerr := s.cfg.Scheduler.Cancel(ctx, h); cerr == nil {
			s.discard(ctx, obj)
		}
		return Result{}, fmt.Errorf("recording export: %w", err)
	}
	return Result{
		Mode:        ModeLink,
		DownloadURL: obj.URL,
		Export:      &exp,
		Message:     fmt.Sprintf("temporary link valid for %s", s.cfg.Retention),
		Pages:       res.Pages,
	}, nil
}

// Keep promotes a temporary export to the profile CV. The pending
// deletion is cancelled first and restored if the profile update fails.
func (s *Service) Keep(ctx context.Context, id string) (Export, error) {
	exp, err := s.cfg.Records.Get(ctx, id)
	if errors.Is(err, mongostore.ErrNotFound) {
		return exp, fmt.Errorf("%w: %s", ErrExportNotFound, id)
	}
	if err != nil {
		return exp, err
	}
	if exp.Purged {
		return exp, ErrExportExpired
	}
	if err := s.cfg.Scheduler.Cancel(ctx, exp.Handle); err != nil {
		if errors.Is(err, retention.ErrExpired) {
			return exp, ErrExportExpired
		}
		return exp, fmt.Errorf("cancelling deletion: %w", err)
	}
	if err := s.cfg.Profile.SetCV(ctx, exp.Object.URL); err != nil {
		s.restoreDeletion(ctx, &exp)
		return exp, fmt.Errorf("saving profile CV: %w", err)
	}
	if err := s.cfg.Records.Delete(ctx, id); err != nil {
		s.logger.Warn("stale export record", zap.String("export_id", id), zap.Error(err))
	}
	s.logger.Info("export kept", zap.String("export_id", id))
	return exp, nil
}

// restoreDeletion reschedules the deletion cancelled by a failed Keep, for
// what is left of the original window, so the export can be kept on retry
// or still expires.
func (s *Service) restoreDeletion(ctx context.Context, exp *Export) {
	remaining := max(exp.ExpiresAt.Sub(s.now()), 0)
	h, err := s.cfg.Scheduler.Schedule(ctx, retention.Payload{ExportID: exp.ID, Object: exp.Object}, remaining)
	if err != nil {
		s.logger.Error("export left without deletion",
			zap.String("export_id", exp.ID), zap.String("public_id", exp.Object.PublicID), zap.Error(err))
		return
	}
	exp.Handle = h
	exp.ExpiresAt = h.FireAt.UTC()
	if err := s.cfg.Records.Replace(ctx, exp.ID, *exp); err != nil {
		s.logger.Warn("stale export handle", zap.String("export_id", exp.ID), zap.Error(err))
	}
}

// Purge deletes an expired export's object and marks its record. It is
// the retention.Purger run when the window elapses.
func (s *Service) Purge(ctx context.Context, p retention.Payload) error {
	if err := s.cfg.Store.Delete(ctx, p.Object); err != nil {
		return fmt.Errorf("deleting export object: %w", err)
	}
	exp, err := s.cfg.Records.Get(ctx, p.ExportID)
	if errors.Is(err, mongostore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	exp.Purged = true
	return s.cfg.Records.Replace(ctx, p.ExportID, exp)
}
