// Package api exposes the portfolio, uploads, sessions and CV export over HTTP.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alnah/go-folio/internal/apidocs"
	"github.com/alnah/go-folio/internal/assets"
	"github.com/alnah/go-folio/internal/auth"
	"github.com/alnah/go-folio/internal/export"
	"github.com/alnah/go-folio/internal/portfolio"
	"github.com/alnah/go-folio/internal/storage"
)

// Options tunes the router.
type Options struct {
	CORSOrigins  []string
	RateLimit    float64 // requests per second per client, 0 disables
	RateBurst    int
	MediaFolder  string
	DocsFolder   string
	SecureCookie bool

	// StaticDir is served under StaticURL when media live on local disk.
	StaticDir string
	StaticURL string
}

// Deps are the services behind the routes.
type Deps struct {
	Store   *portfolio.Store
	Exports *export.Service
	Media   storage.Store
	Auth    *auth.Authenticator
	Docs    *apidocs.Renderer
	Assets  *assets.Resolver // source of docs/api.md, nil for the built-in copy
	Logger  *zap.Logger
}

// maxMultipartMemory bounds in-memory multipart parsing.
const maxMultipartMemory = 12 << 20

// NewRouter builds the HTTP handler.
func NewRouter(d Deps, opts Options) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(recovery(logger))
	r.Use(accessLog(logger.Named("http")))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	if opts.RateLimit > 0 {
		r.Use(rateLimit(newIPLimiter(opts.RateLimit, opts.RateBurst), logger))
	}
	if opts.StaticDir != "" && opts.StaticURL != "" {
		r.Static(opts.StaticURL, opts.StaticDir)
	}

	api := r.Group("/api")
	api.Use(requireSession(d.Auth, logger))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/docs", docsHandler(d.Assets, d.Docs, logger))

	ah := &authHandler{auth: d.Auth, secureCookie: opts.SecureCookie, logger: logger}
	api.POST("/auth/login", ah.login)
	api.POST("/auth/logout", ah.logout)
	api.GET("/auth/user", ah.user)

	pf := api.Group("/portfolio")
	ph := &profileHandler{svc: d.Store.Profile, logger: logger}
	pf.GET("/profile", ph.get)
	pf.POST("/profile", ph.upsert)
	pf.PUT("/projects/reorder", reorderProjects(d.Store.Projects, logger))
	registerCollection(pf, "skills", d.Store.Skills, logger)
	registerCollection(pf, "projects", d.Store.Projects.Service, logger)
	registerCollection(pf, "education", d.Store.Education, logger)
	registerCollection(pf, "hobbies", d.Store.Hobbies, logger)
	registerCollection(pf, "links", d.Store.Links, logger)
	registerCollection(pf, "gallery", d.Store.Gallery, logger)

	uh := &uploadHandler{store: d.Media, logger: logger, now: time.Now}
	api.POST("/upload/image", uh.upload(storage.ImagePolicy(opts.MediaFolder)))
	api.POST("/upload/pdf", uh.upload(storage.PDFPolicy(opts.DocsFolder)))
	api.DELETE("/upload", uh.delete)

	ch := &cvHandler{exports: d.Exports, store: d.Store, logger: logger}
	api.POST("/cv/generate", ch.generate)
	api.POST("/cv/exports/:id/keep", ch.keep)
	api.GET("/cv/draft", ch.draft)
	api.GET("/cv/preview", ch.preview)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        24 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// docsHandler renders the API reference once and serves it. An override in
// the assets directory replaces the built-in document.
func docsHandler(src *assets.Resolver, r *apidocs.Renderer, logger *zap.Logger) gin.HandlerFunc {
	var (
		mu   sync.Mutex
		page []byte
	)
	return func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		if page == nil {
			md, err := src.LoadDocument(assets.APIDocumentName)
			if err != nil {
				fail(c, logger, err, "API reference unavailable")
				return
			}
			html, err := r.ToHTML(c.Request.Context(), md)
			if err != nil {
				fail(c, logger, err, "API reference unavailable")
				return
			}
			page = []byte(html)
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
