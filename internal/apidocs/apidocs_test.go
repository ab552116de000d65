package apidocs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-folio/internal/assets"
)

func TestRenderer_ToHTML(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	md := "# Folio API & Docs\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n```json\n{\"success\": true}\n```\n"
	got, err := r.ToHTML(context.Background(), md)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"doctype", "<!DOCTYPE html>"},
		{"escaped title", "<title>Folio API &amp; Docs</title>"},
		{"heading id", `<h1 id="`},
		{"gfm table", "<table>"},
		{"chroma classes", `class="chroma"`},
		{"chroma stylesheet", ".chroma"},
	}
	for _, tt := range tests {
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s: output missing %q", tt.name, tt.want)
		}
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.ToHTML(ctx, "# x"); !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

func TestEmbeddedReference(t *testing.T) {
	t.Parallel()

	doc, err := assets.LoadDocument("api")
	if err != nil {
		t.Fatalf("LoadDocument(api) error = %v", err)
	}
	if !strings.HasPrefix(doc, "# ") || !strings.Contains(doc, "/api/cv/generate") {
		t.Error("embedded API reference lacks its title or the generate endpoint")
	}
	r, _ := NewRenderer()
	if _, err := r.ToHTML(context.Background(), doc); err != nil {
		t.Errorf("rendering embedded reference: %v", err)
	}
}
