package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/export"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/yamlutil"
)

// maxRequestSize caps export request files.
const maxRequestSize = 4 << 20

// runRender renders one export request file without the HTTP API.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(f.common.config)
	if err != nil {
		return err
	}
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid --timeout %q", ErrUsage, f.timeout)
		}
		cfg.Render.Timeout = d
	}

	req, err := readRequest(f.input, env.Stdin)
	if err != nil {
		return err
	}
	if f.dark {
		req.DarkMode = true
	}
	if f.date != "" {
		req.GeneratedOn = f.date
	}
	if err := req.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg, f.common.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r := datedRenderer{renderer: env.NewRenderer(cfg, logger), generatedOn: cfg.Render.GeneratedOn}
	defer func() { _ = r.Close() }()

	in := req.Input()
	in.HTMLOnly = f.htmlOnly
	start := env.Now()
	res, err := r.Convert(ctx, in)
	if err != nil {
		return err
	}

	data, ext := res.PDF, ".pdf"
	if f.htmlOnly {
		data, ext = res.HTML, ".html"
	}
	out := f.output
	if out == "" {
		out = outputPath(f.input, ext)
	}
	if err := fileutil.WriteAtomic(out, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}

	logger.Debug("rendered",
		zap.String("output", out),
		zap.Int("pages", res.Pages),
		zap.Duration("elapsed", env.Now().Sub(start)))
	fmt.Fprintf(env.Stdout, "%s (%d %s)\n", out, res.Pages, plural(res.Pages, "page"))
	return nil
}

// readRequest decodes an export request from path, or stdin for "-".
func readRequest(path string, stdin io.Reader) (export.Request, error) {
	var req export.Request

	var src io.Reader = stdin
	if path != "-" {
		file, err := os.Open(path) // #nosec G304 -- path is user-provided
		if err != nil {
			return req, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		defer file.Close()
		src = file
	}
	data, err := io.ReadAll(io.LimitReader(src, maxRequestSize+1))
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if len(data) > maxRequestSize {
		return req, fmt.Errorf("%w: request exceeds %d bytes", ErrReadInput, maxRequestSize)
	}
	if isYAML(path) {
		if data, err = yamlutil.ToJSON(data); err != nil {
			return req, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return req, nil
}

// isYAML reports whether a request file is YAML, judged by its extension.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// outputPath swaps the input extension for ext; stdin renders to cv<ext>.
func outputPath(input, ext string) string {
	if input == "-" {
		return "cv" + ext
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
