package main

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
)

// renderer is the PDF pipeline as the CLI sees it.
type renderer interface {
	Convert(ctx context.Context, input folio.Input) (*folio.ConvertResult, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ func() []string

	// NewRenderer builds the rendering pipeline from the loaded config.
	NewRenderer func(cfg *config.Config, logger *zap.Logger) renderer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Environ:     os.Environ,
		NewRenderer: newPoolRenderer,
	}
}

// newPoolRenderer builds a browser pool sized from render.workers.
func newPoolRenderer(cfg *config.Config, logger *zap.Logger) renderer {
	opts := []folio.Option{
		folio.WithTimeout(cfg.Render.Timeout),
		folio.WithPageBudget(cfg.Render.PageBudget),
		folio.WithLogger(logger.Named("render")),
	}
	if cfg.Render.AssetsPath != "" {
		opts = append(opts, folio.WithAssetPath(cfg.Render.AssetsPath))
	}
	if cfg.Render.Lang != "" {
		opts = append(opts, folio.WithLang(cfg.Render.Lang))
	}
	size := folio.ResolvePoolSize(cfg.Render.Workers)
	logger.Debug("converter pool", zap.Int("size", size))
	return folio.NewConverterPool(size, opts...)
}

// datedRenderer applies the configured generation-date line to inputs
// that carry none.
type datedRenderer struct {
	renderer
	generatedOn string
}

func (r datedRenderer) Convert(ctx context.Context, input folio.Input) (*folio.ConvertResult, error) {
	if input.GeneratedOn == "" {
		input.GeneratedOn = r.generatedOn
	}
	return r.renderer.Convert(ctx, input)
}
