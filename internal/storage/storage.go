// Package storage stores uploaded media and generated documents and deletes
// them again from their public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrForeignURL      = errors.New("url does not belong to this store")
	ErrInvalidName     = errors.New("invalid object name")
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
)

// Object is a stored file.
type Object struct {
	PublicID     string `json:"publicId" bson:"public_id"`
	ResourceType string `json:"resourceType,omitempty" bson:"resource_type,omitempty"`
	URL          string `json:"url" bson:"url"`
}

// Store persists objects under a folder and serves them from a public URL.
type Store interface {
	// Upload stores r as folder/name. name carries the file extension.
	Upload(ctx context.Context, folder, name string, r io.Reader) (Object, error)

	// Delete removes a previously uploaded object. Missing objects are not an error.
	Delete(ctx context.Context, obj Object) error

	// DeleteByURL resolves url to an object of this store and deletes it.
	DeleteByURL(ctx context.Context, url string) error
}

// ObjectName returns "<kind>_<unix-ms>_<uuid8>.<ext>".
func ObjectName(kind, ext string, now time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s_%d_%s.%s", kind, now.UnixMilli(), uuid.NewString()[:8], ext)
}

// validateName rejects names that would escape their folder.
func validateName(folder, name string) error {
	for _, part := range []string{folder, name} {
		if part == "" || strings.Contains(part, "..") || strings.ContainsAny(part, `\`) {
			return fmt.Errorf("%w: %q", ErrInvalidName, path.Join(folder, name))
		}
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
