package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/export"
	"github.com/alnah/go-folio/internal/portfolio"
)

type cvHandler struct {
	exports *export.Service
	store   *portfolio.Store
	logger  *zap.Logger
}

func (h *cvHandler) generate(c *gin.Context) {
	var req export.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, fmt.Errorf("%w: %w", errBadRequest, err), "")
		return
	}
	res, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err, "failed to generate CV")
		return
	}

	switch res.Mode {
	case export.ModePersist:
		ok(c, gin.H{"downloadUrl": res.DownloadURL, "message": res.Message})
	case export.ModeLink:
		ok(c, gin.H{
			"downloadUrl": res.DownloadURL,
			"message":     res.Message,
			"exportId":    res.Export.ID,
			"expiresAt":   res.Export.ExpiresAt,
		})
	default:
		c.Header("Content-Disposition", `attachment; filename="cv.pdf"`)
		c.Data(http.StatusOK, "application/pdf", res.PDF)
	}
}

func (h *cvHandler) keep(c *gin.Context) {
	exp, err := h.exports.Keep(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "failed to keep export")
		return
	}
	ok(c, gin.H{"downloadUrl": exp.Object.URL, "message": "export saved as profile CV"})
}

func (h *cvHandler) draft(c *gin.Context) {
	d, err := h.buildDraft(c)
	if err != nil {
		fail(c, h.logger, err, "failed to build CV draft")
		return
	}
	ok(c, gin.H{"data": d})
}

func (h *cvHandler) preview(c *gin.Context) {
	d, err := h.buildDraft(c)
	if err != nil {
		fail(c, h.logger, err, "failed to build CV draft")
		return
	}
	req := export.Request{
		Sections:     d.Sections,
		PersonalInfo: &d.PersonalInfo,
		DarkMode:     c.Query("dark") == "true",
	}
	res, err := h.exports.Render(c.Request.Context(), req, true)
	if err != nil {
		fail(c, h.logger, err, "failed to render preview")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", res.HTML)
}

func (h *cvHandler) buildDraft(c *gin.Context) (portfolio.Draft, error) {
	snap, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		return portfolio.Draft{}, err
	}
	return portfolio.BuildDraft(snap), nil
}
