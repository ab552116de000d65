package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/auth"
	"github.com/alnah/go-folio/internal/export"
	"github.com/alnah/go-folio/internal/portfolio"
	"github.com/alnah/go-folio/internal/storage"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		folio.IsInputError(err),
		errors.Is(err, export.ErrMissingData),
		errors.Is(err, portfolio.ErrInvalidEntity),
		errors.Is(err, portfolio.ErrInvalidOrder),
		errors.Is(err, storage.ErrTooLarge),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrEmptyFile),
		errors.Is(err, storage.ErrForeignURL),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, auth.ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, portfolio.ErrNotFound),
		errors.Is(err, export.ErrExportNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrExportExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts with {success:false,error}. Client errors echo err; server
// errors are logged and answered with msg.
func fail(c *gin.Context, logger *zap.Logger, err error, msg string) {
	status := statusFor(err)
	text := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
		text = msg
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": text})
}

func ok(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}
