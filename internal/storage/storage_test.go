package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestObjectName(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)
	re := regexp.MustCompile(`^cv_1700000000123_[0-9a-f]{8}\.pdf$`)

	for _, ext := range []string{"pdf", ".pdf"} {
		if got := ObjectName("cv", ext, now); !re.MatchString(got) {
			t.Errorf("ObjectName(cv, %q) = %q, want match %s", ext, got, re)
		}
	}
	if ObjectName("cv", "pdf", now) == ObjectName("cv", "pdf", now) {
		t.Error("ObjectName() should differ between calls at the same instant")
	}
}

func TestParseCloudinaryURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		cloud   string
		want    Object
		wantErr bool
	}{
		{
			name: "image with version",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/medias/image_1_abcd1234.png",
			want: Object{PublicID: "medias/image_1_abcd1234", ResourceType: "image"},
		},
		{
			name: "pdf delivered as image",
			url:  "https://res.cloudinary.com/demo/image/upload/docs/cv_1_abcd1234.pdf",
			want: Object{PublicID: "docs/cv_1_abcd1234", ResourceType: "image"},
		},
		{
			name: "raw keeps extension",
			url:  "https://res.cloudinary.com/demo/raw/upload/v1/docs/notes.txt",
			want: Object{PublicID: "docs/notes.txt", ResourceType: "raw"},
		},
		{
			name:  "matching cloud",
			url:   "https://res.cloudinary.com/demo/video/upload/clip.mp4",
			cloud: "demo",
			want:  Object{PublicID: "clip", ResourceType: "video"},
		},
		{name: "other cloud", url: "https://res.cloudinary.com/other/image/upload/a.png", cloud: "demo", wantErr: true},
		{name: "not a delivery url", url: "https://example.com/a.png", wantErr: true},
		{name: "no public id", url: "https://res.cloudinary.com/demo/image/upload/v12", wantErr: true},
		{name: "relative", url: "/uploads/a.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCloudinaryURL(tt.url, tt.cloud)
			if tt.wantErr {
				if !errors.Is(err, ErrForeignURL) {
					t.Errorf("error = %v, want ErrForeignURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.PublicID != tt.want.PublicID || got.ResourceType != tt.want.ResourceType {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocal_UploadAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	obj, err := l.Upload(ctx, "docs", "cv.pdf", strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if obj.URL != "/uploads/docs/cv.pdf" || obj.PublicID != "docs/cv.pdf" {
		t.Errorf("Upload() = %+v", obj)
	}
	data, err := os.ReadFile(filepath.Join(dir, "docs", "cv.pdf"))
	if err != nil || string(data) != "%PDF-1.7" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	if _, err := l.Upload(ctx, "docs", "cv.pdf", strings.NewReader("x")); err == nil {
		t.Error("Upload() over an existing object should fail")
	}

	if err := l.DeleteByURL(ctx, obj.URL); err != nil {
		t.Fatalf("DeleteByURL() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", "cv.pdf")); !os.IsNotExist(err) {
		t.Errorf("file still present after delete: %v", err)
	}
	if err := l.DeleteByURL(ctx, obj.URL); err != nil {
		t.Errorf("second DeleteByURL() error = %v, want nil", err)
	}
	if err := l.DeleteByURL(ctx, "https://elsewhere/docs/cv.pdf"); !errors.Is(err, ErrForeignURL) {
		t.Errorf("DeleteByURL(foreign) error = %v, want ErrForeignURL", err)
	}
}

func TestLocal_RejectsTraversal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, _ := NewLocal(t.TempDir(), "/uploads")

	tests := []struct {
		folder, name string
	}{
		{"docs", "../escape.pdf"},
		{"..", "x.pdf"},
		{"docs", "a/b.pdf"},
		{"", "x.pdf"},
		{"docs", ""},
	}
	for _, tt := range tests {
		if _, err := l.Upload(ctx, tt.folder, tt.name, bytes.NewReader(nil)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Upload(%q, %q) error = %v, want ErrInvalidName", tt.folder, tt.name, err)
		}
	}
	if err := l.DeleteByURL(ctx, "/uploads/../../etc/passwd"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("DeleteByURL(traversal) error = %v, want ErrInvalidName", err)
	}
}

func TestPolicy_Check(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	pdf := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")

	tests := []struct {
		name     string
		policy   Policy
		data     []byte
		wantMIME string
		wantExt  string
		wantErr  error
	}{
		{"png image", ImagePolicy("medias"), png, "image/png", ".png", nil},
		{"pdf document", PDFPolicy("docs"), pdf, "application/pdf", ".pdf", nil},
		{"pdf as image", ImagePolicy("medias"), pdf, "", "", ErrUnsupportedType},
		{"text as pdf", PDFPolicy("docs"), []byte("hello"), "", "", ErrUnsupportedType},
		{"empty", ImagePolicy("medias"), nil, "", "", ErrEmptyFile},
		{"too large", Policy{MaxBytes: 4, Allowed: []string{"application/pdf"}}, pdf, "", "", ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mime, ext, err := tt.policy.Check(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if mime != tt.wantMIME || ext != tt.wantExt {
				t.Errorf("Check() = %q, %q, want %q, %q", mime, ext, tt.wantMIME, tt.wantExt)
			}
		})
	}
}
