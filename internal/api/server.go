package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/db"
	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/importer"
	"github.com/trustmrr/catalog/internal/seo"
	"github.com/trustmrr/catalog/internal/sitemap"
)

type Server struct {
	Store   *db.Store
	Echo    *echo.Echo
	DB      *pgxpool.Pool
	BaseURL string

	// Background import tracking. One import at a time; a second trigger
	// while one runs is rejected, not queued.
	jobMu      sync.Mutex
	runningJob *importJob
}

type importJob struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"` // running, completed, failed
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Stats     importer.Stats `json:"stats,omitempty"`
	Error     string         `json:"error,omitempty"`
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:3000"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	s := &Server{
		DB:      pool,
		Store:   db.NewStore(pool),
		Echo:    e,
		BaseURL: baseURL,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/sitemap.xml", s.handleSitemap)

	api := s.Echo.Group("/api")
	api.GET("/apps", s.handleListApps)
	api.GET("/apps/:slug", s.handleGetApp)
	api.GET("/categories", s.handleListCategories)
	api.GET("/categories/:slug", s.handleGetCategory)
	api.GET("/stats", s.handleGetStats)

	admin := api.Group("/admin")
	admin.Use(s.adminMiddleware)
	admin.POST("/seed", s.handleSeedCategories)
	admin.POST("/import", s.handleTriggerImport)
	admin.GET("/import/status", s.handleImportStatus)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// parseListParams maps listing query parameters onto store filters. Bad
// numeric input falls back to defaults rather than erroring; filters are a
// convenience surface.
func parseListParams(get func(string) string) db.ListParams {
	params := db.ListParams{
		Category: get("category"),
		Search:   strings.TrimSpace(get("search")),
		Sort:     get("sort"),
		Limit:    50,
	}

	if v := get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 100 {
				n = 100
			}
			params.Limit = n
		}
	}
	if v := get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			params.Offset = n
		}
	}
	if v := get("revenue_min"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			params.RevenueMin = &d
		}
	}
	if v := get("revenue_max"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			params.RevenueMax = &d
		}
	}
	return params
}

func (s *Server) handleListApps(c echo.Context) error {
	params := parseListParams(c.QueryParam)

	result, err := s.Store.ListApps(c.Request().Context(), params)
	if err != nil {
		log.Printf("api: list apps failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch apps"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetApp(c echo.Context) error {
	slug := c.Param("slug")
	locale := i18n.Normalize(c.QueryParam("locale"))

	app, err := s.Store.GetAppBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		log.Printf("api: get app %s failed: %v", slug, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch app"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"app": app,
		"seo": seo.BuildAppMeta(app, locale, s.BaseURL),
	})
}

func (s *Server) handleListCategories(c echo.Context) error {
	cats, err := s.Store.ListCategories(c.Request().Context())
	if err != nil {
		log.Printf("api: list categories failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch categories"})
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) handleGetCategory(c echo.Context) error {
	slug := c.Param("slug")
	locale := i18n.Normalize(c.QueryParam("locale"))

	category, apps, err := s.Store.GetCategoryBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		log.Printf("api: get category %s failed: %v", slug, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch category"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"category": category,
		"apps":     apps,
		"seo":      seo.BuildCategoryMeta(category, locale, s.BaseURL),
	})
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		log.Printf("api: stats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch stats"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()

	apps, err := s.Store.PublishedAppRefs(ctx)
	if err != nil {
		log.Printf("api: sitemap app refs failed: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	categories, err := s.Store.ActiveCategoryRefs(ctx)
	if err != nil {
		log.Printf("api: sitemap category refs failed: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	body, err := sitemap.Render(sitemap.Build(s.BaseURL, time.Now().UTC(), apps, categories))
	if err != nil {
		log.Printf("api: sitemap render failed: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (s *Server) handleSeedCategories(c echo.Context) error {
	count, err := importer.SeedCategories(c.Request().Context(), s.DB)
	if err != nil {
		log.Printf("api: seed categories failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Seed failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"seeded": count})
}

func (s *Server) handleTriggerImport(c echo.Context) error {
	reg, err := importer.LoadRegistry(c.QueryParam("registry"))
	if err != nil {
		log.Printf("api: load registry failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Registry unavailable"})
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "An import is already running",
			"job":   s.runningJob,
		})
	}

	job := &importJob{
		ID:        fmt.Sprintf("import-%d", time.Now().UnixNano()),
		Status:    "running",
		StartedAt: time.Now().UTC(),
	}
	s.runningJob = job

	go func() {
		pipeline := importer.NewPipeline(s.DB, reg)
		stats, err := pipeline.Run(context.Background())

		s.jobMu.Lock()
		defer s.jobMu.Unlock()
		now := time.Now().UTC()
		job.EndedAt = &now
		job.Stats = stats
		if err != nil {
			job.Status = "failed"
			job.Error = err.Error()
		} else {
			job.Status = "completed"
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]any{"job": job})
}

func (s *Server) handleImportStatus(c echo.Context) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if s.runningJob == nil {
		return c.JSON(http.StatusOK, map[string]any{"job": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"job": s.runningJob})
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
