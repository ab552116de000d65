// Package hints maps failures of the folio command to a short next step,
// printed after the error as "\n  hint: <text>".
package hints

import (
	"context"
	"errors"
	"os"
	"strings"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
)

// IsInContainer reports whether the process runs in a Docker container.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// rule pairs the sentinels it handles with the hint it prints.
type rule struct {
	targets []error
	hint    func(err error) string
}

var rules = []rule{
	{[]error{folio.ErrBrowserConnect}, func(error) string { return ForBrowserConnect() }},
	{[]error{context.DeadlineExceeded, folio.ErrPageLoad}, static("raise render.timeout or pass --timeout")},
	{[]error{config.ErrConfigNotFound}, static("use --config /path/to/folio.yaml or create ./folio.yaml")},
	{[]error{config.ErrMissingField}, missingField},
	{[]error{folio.ErrStyleNotFound, folio.ErrTemplateNotFound},
		static("render.assetsPath must contain styles/cv.css and templates/cv.html")},
}

// For returns the hint for err, or "" when none applies.
func For(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range rules {
		for _, target := range r.targets {
			if errors.Is(err, target) {
				return r.hint(err)
			}
		}
	}
	return ""
}

// ForBrowserConnect lists the Chrome settings worth trying, leaving out the
// ones already in effect.
func ForBrowserConnect() string {
	var steps []string
	switch os.Getenv("ROD_NO_SANDBOX") {
	case "1", "true":
	default:
		if inCI() || IsInContainer() {
			steps = append(steps, "set ROD_NO_SANDBOX=true for Docker/CI")
		}
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		steps = append(steps, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	steps = append(steps, "run 'folio doctor --launch' to diagnose")
	return prefix(strings.Join(steps, "; "))
}

func inCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// missingField keys off the field path carried in the validation message.
func missingField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "auth.passwordHash"):
		return prefix("generate one with: echo -n 'password' | folio passwd")
	case strings.Contains(msg, "auth.jwtSecret"):
		return prefix("set FOLIO_AUTH_JWT_SECRET to at least 32 random bytes")
	case strings.Contains(msg, "mongo."), strings.Contains(msg, "redis."):
		return prefix("run 'folio serve --memory' to develop without MongoDB and Redis")
	}
	return ""
}

func static(text string) func(error) string {
	return func(error) string { return prefix(text) }
}

func prefix(text string) string {
	if text == "" {
		return ""
	}
	return "\n  hint: " + text
}
