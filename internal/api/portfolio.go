package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/portfolio"
)

// collectionHandler serves the CRUD routes of one collection.
type collectionHandler[T portfolio.Entity[T]] struct {
	name   string
	svc    *portfolio.Service[T]
	logger *zap.Logger
}

func registerCollection[T portfolio.Entity[T]](g *gin.RouterGroup, name string, svc *portfolio.Service[T], logger *zap.Logger) {
	h := &collectionHandler[T]{name: name, svc: svc, logger: logger}
	grp := g.Group("/" + name)
	grp.GET("", h.list)
	grp.POST("", h.create)
	grp.DELETE("", h.deleteAll)
	grp.GET("/:id", h.get)
	grp.PUT("/:id", h.update)
	grp.DELETE("/:id", h.delete)
}

func (h *collectionHandler[T]) list(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "failed to list "+h.name)
		return
	}
	ok(c, gin.H{"data": docs})
}

func (h *collectionHandler[T]) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "failed to fetch "+h.name)
		return
	}
	ok(c, gin.H{"data": doc})
}

func (h *collectionHandler[T]) create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		fail(c, h.logger, fmt.Errorf("%w: %v", errBadRequest, err), "")
		return
	}
	created, err := h.svc.Create(c.Request.Context(), doc)
	if err != nil {
		fail(c, h.logger, err, "failed to create "+h.name)
		return
	}
	ok(c, gin.H{"data": created, "message": h.name + " entry created"})
}

func (h *collectionHandler[T]) update(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		fail(c, h.logger, fmt.Errorf("%w: %v", errBadRequest, err), "")
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), doc)
	if err != nil {
		fail(c, h.logger, err, "failed to update "+h.name)
		return
	}
	ok(c, gin.H{"data": updated, "message": h.name + " entry updated"})
}

func (h *collectionHandler[T]) delete(c *gin.Context) {
	h.deleteOne(c, c.Param("id"))
}

// deleteAll removes one entry when ?id= is given, every entry otherwise.
func (h *collectionHandler[T]) deleteAll(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		h.deleteOne(c, id)
		return
	}
	n, err := h.svc.DeleteAll(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "failed to delete "+h.name)
		return
	}
	ok(c, gin.H{"deleted": n, "message": fmt.Sprintf("all %s entries deleted", h.name)})
}

func (h *collectionHandler[T]) deleteOne(c *gin.Context, id string) {
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err, "failed to delete "+h.name)
		return
	}
	ok(c, gin.H{"message": h.name + " entry deleted"})
}

type profileHandler struct {
	svc    *portfolio.ProfileService
	logger *zap.Logger
}

func (h *profileHandler) get(c *gin.Context) {
	p, found, err := h.svc.Get(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "failed to fetch profile")
		return
	}
	if !found {
		ok(c, gin.H{"data": nil})
		return
	}
	ok(c, gin.H{"data": p})
}

func (h *profileHandler) upsert(c *gin.Context) {
	var p portfolio.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, h.logger, fmt.Errorf("%w: %v", errBadRequest, err), "")
		return
	}
	saved, existed, err := h.svc.Upsert(c.Request.Context(), p)
	if err != nil {
		fail(c, h.logger, err, "failed to save profile")
		return
	}
	msg := "profile created"
	if existed {
		msg = "profile updated"
	}
	ok(c, gin.H{"data": saved, "message": msg})
}

type reorderRequest struct {
	Projects []struct {
		ID string `json:"id"`
	} `json:"projects"`
}

func reorderProjects(svc *portfolio.Projects, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reorderRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Projects == nil {
			fail(c, logger, fmt.Errorf("%w: projects list required", errBadRequest), "")
			return
		}
		ids := make([]string, 0, len(req.Projects))
		for _, p := range req.Projects {
			ids = append(ids, p.ID)
		}
		if err := svc.Reorder(c.Request.Context(), ids); err != nil {
			fail(c, logger, err, "failed to reorder projects")
			return
		}
		ok(c, gin.H{"message": "projects reordered"})
	}
}
