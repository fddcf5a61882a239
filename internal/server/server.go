// Package server exposes the catalog, local state, and forwarding proxy
// over HTTP for the browser UI.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP engine with all routes configured
func NewServer(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(requestLogger(h))

	// CORS middleware; the UI is served from a different origin in dev
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, h)

	return r
}

func requestLogger(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func setupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.GetHealth)

	r.GET("/api/proxy", h.Proxy)

	catalog := r.Group("/api/catalog")
	{
		catalog.GET("/search", h.SearchCatalog)
		catalog.GET("/featured", h.GetFeatured)
		catalog.GET("/trending", h.GetTrending)
		catalog.GET("/popular", h.GetPopular)
		catalog.GET("/latest", h.GetLatestUpdates)
		catalog.GET("/new", h.GetNewReleases)
		catalog.GET("/top-rated", h.GetTopRated)
		catalog.GET("/most-followed", h.GetMostFollowed)
		catalog.GET("/completed", h.GetCompleted)
		catalog.GET("/ongoing", h.GetOngoing)
		catalog.GET("/adult", h.GetAdult)
		catalog.GET("/types/:type", h.GetByType)
		catalog.GET("/genres", h.ListGenres)
		catalog.GET("/genres/:id", h.GetByGenre)
		catalog.GET("/demographics/:id", h.GetByDemographic)
		catalog.GET("/manga/:id", h.GetMangaDetails)
		catalog.GET("/manga/:id/related", h.GetRelated)
		catalog.GET("/manga/:id/chapters", h.GetChapters)
		catalog.GET("/manga/:id/chapters/all", h.GetAllChapters)
		catalog.GET("/chapters/:id/pages", h.GetPages)
	}

	r.GET("/api/library", h.GetLibrary)
	r.GET("/api/library/search", h.SearchLibrary)
	r.POST("/api/library", h.AddToLibrary)
	r.DELETE("/api/library/:id", h.RemoveFromLibrary)
	r.PATCH("/api/library/:id", h.UpdateLibraryStatus)

	r.GET("/api/history", h.GetHistory)
	r.POST("/api/history", h.AddToHistory)
	r.DELETE("/api/history", h.ClearHistory)
	r.DELETE("/api/history/:id", h.RemoveFromHistory)

	r.GET("/api/settings", h.GetSettings)
	r.PATCH("/api/settings", h.UpdateSettings)

	r.GET("/api/export", h.Export)
	r.POST("/api/import", h.Import)

	r.DELETE("/api/cache", h.ClearCache)
}
