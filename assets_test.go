package folio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-folio/internal/assets"
)

func TestNewAssetLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader(\"\") error = %v", err)
	}

	css, err := loader.LoadStyle(DefaultStyle)
	if err != nil {
		t.Errorf("LoadStyle(%q) error = %v", DefaultStyle, err)
	}
	if css == "" {
		t.Error("LoadStyle returned empty CSS for default style")
	}

	layout, err := loader.LoadTemplate(DefaultTemplate)
	if err != nil {
		t.Fatalf("LoadTemplate(%q) error = %v", DefaultTemplate, err)
	}
	if !strings.Contains(layout, "{{range .Pages}}") && !strings.Contains(layout, "{{- range .Pages}}") {
		t.Error("default layout should iterate over pages")
	}
}

func TestNewAssetLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetLoader("/nonexistent/path/to/assets")
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNewAssetLoader_FallsBackToEmbedded(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}

	if css, err := loader.LoadStyle(DefaultStyle); err != nil || css == "" {
		t.Errorf("LoadStyle fallback = %d bytes, %v", len(css), err)
	}
	if layout, err := loader.LoadTemplate(DefaultTemplate); err != nil || layout == "" {
		t.Errorf("LoadTemplate fallback = %d bytes, %v", len(layout), err)
	}
}

func TestNewAssetLoader_CustomOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	customCSS := "/* custom */ .section { color: red; }"
	customLayout := "<html>{{len .Pages}}</html>"

	for path, content := range map[string]string{
		filepath.Join(tmpDir, "styles", "cv.css"):     customCSS,
		filepath.Join(tmpDir, "templates", "cv.html"): customLayout,
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	loader, err := NewAssetLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}

	if css, _ := loader.LoadStyle(DefaultStyle); css != customCSS {
		t.Errorf("LoadStyle = %q, want %q", css, customCSS)
	}

	a, err := NewAssembler(loader)
	if err != nil {
		t.Fatalf("NewAssembler() error = %v", err)
	}
	html, err := a.Assemble(make([]Page, 2), PersonalInfo{}, AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if html != "<html>2</html>" {
		t.Errorf("custom layout not used, got %q", html)
	}
}

func TestAssetLoader_NotFound(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader error = %v", err)
	}

	_, err = loader.LoadStyle("custom-style")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "custom-style") {
		t.Errorf("error message %q should contain the style name", err)
	}

	_, err = loader.LoadTemplate("missing")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestConvertAssetError(t *testing.T) {
	t.Parallel()

	if convertAssetError(nil) != nil {
		t.Error("convertAssetError(nil) should be nil")
	}

	_, internal := (&assets.Resolver{}).Load(assets.Template, "missing")
	err := convertAssetError(internal)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("errors.Is(err, ErrTemplateNotFound) = false for %v", err)
	}
	if errors.Is(err, assets.ErrTemplateNotFound) {
		t.Error("internal sentinel should not leak through the public error")
	}
	if err.Error() != internal.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), internal.Error())
	}

	other := errors.New("disk on fire")
	if got := convertAssetError(other); got != other {
		t.Errorf("unknown errors should pass through, got %v", got)
	}
}
