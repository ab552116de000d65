package storage

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Policy restricts what an upload endpoint accepts.
type Policy struct {
	Kind     string // object name prefix
	Folder   string
	MaxBytes int64
	Allowed  []string // MIME types
}

// ImagePolicy accepts common web image formats up to 5MB.
func ImagePolicy(folder string) Policy {
	return Policy{
		Kind:     "image",
		Folder:   folder,
		MaxBytes: 5 << 20,
		Allowed:  []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"},
	}
}

// PDFPolicy accepts PDF documents up to 10MB.
func PDFPolicy(folder string) Policy {
	return Policy{
		Kind:     "pdf",
		Folder:   folder,
		MaxBytes: 10 << 20,
		Allowed:  []string{"application/pdf"},
	}
}

// Check sniffs data and returns the detected MIME type and extension
// (with leading dot). The client-declared type is never consulted.
func (p Policy) Check(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	if int64(len(data)) > p.MaxBytes {
		return "", "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), p.MaxBytes)
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		base, _, _ := strings.Cut(m.String(), ";")
		if slices.Contains(p.Allowed, base) {
			return base, mt.Extension(), nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
}
