package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/storage"
)

type uploadHandler struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

// upload stores the multipart "file" field if it satisfies p.
func (h *uploadHandler) upload(p storage.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Multipart framing adds a little on top of the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, p.MaxBytes+1<<20)

		fh, err := c.FormFile("file")
		if err != nil {
			fail(c, h.logger, fmt.Errorf("%w: file field required: %v", errBadRequest, err), "")
			return
		}
		if fh.Size > p.MaxBytes {
			fail(c, h.logger, fmt.Errorf("%w: %d bytes, limit %d", storage.ErrTooLarge, fh.Size, p.MaxBytes), "")
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, h.logger, fmt.Errorf("%w: %v", errBadRequest, err), "")
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, p.MaxBytes+1))
		if err != nil {
			fail(c, h.logger, fmt.Errorf("%w: %v", errBadRequest, err), "")
			return
		}

		mime, ext, err := p.Check(data)
		if err != nil {
			fail(c, h.logger, err, "")
			return
		}
		name := storage.ObjectName(p.Kind, ext, h.now())
		obj, err := h.store.Upload(c.Request.Context(), p.Folder, name, bytes.NewReader(data))
		if err != nil {
			fail(c, h.logger, err, "upload failed")
			return
		}
		h.logger.Info("file uploaded", zap.String("public_id", obj.PublicID), zap.String("mime", mime), zap.Int("bytes", len(data)))
		ok(c, gin.H{"url": obj.URL, "publicId": obj.PublicID, "mimeType": mime, "message": "file uploaded"})
	}
}

func (h *uploadHandler) delete(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		fail(c, h.logger, fmt.Errorf("%w: url parameter required", errBadRequest), "")
		return
	}
	if err := h.store.DeleteByURL(c.Request.Context(), url); err != nil {
		fail(c, h.logger, err, "delete failed")
		return
	}
	ok(c, gin.H{"message": "file deleted"})
}
