package server

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkbound/inkbound/internal/cache"
	"github.com/inkbound/inkbound/internal/catalog/comix"
	"github.com/inkbound/inkbound/internal/domain"
	"github.com/inkbound/inkbound/internal/search"
	"github.com/inkbound/inkbound/internal/store"
)

const defaultListLimit = 28

// Handler carries the dependencies behind the HTTP surface
type Handler struct {
	catalog       domain.Catalog
	store         *store.Store
	search        *search.Service
	responseCache *cache.Cache
	logger        *slog.Logger
	defaultLang   string
}

func NewHandler(catalog domain.Catalog, st *store.Store, searchSvc *search.Service,
	responseCache *cache.Cache, logger *slog.Logger, defaultLang string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &Handler{
		catalog:       catalog,
		store:         st,
		search:        searchSvc,
		responseCache: responseCache,
		logger:        logger,
		defaultLang:   defaultLang,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"library":   len(h.store.Library()),
		"history":   len(h.store.History()),
	}
	if h.responseCache != nil {
		size, _ := h.responseCache.Stats()
		health["cached_responses"] = size
	}
	c.JSON(http.StatusOK, health)
}

// === Catalog ===

func (h *Handler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	filters := h.parseFilters(c)

	// Without keyword text there is no relevance signal to order by;
	// fall back to monthly views
	if query == "" && filters.OrderBy == comix.OrderRelevance {
		filters.OrderBy = comix.OrderMonthlyViews
	}

	resp := h.catalog.Search(c.Request.Context(), query, filters)
	if query != "" {
		resp.Results = search.RankResults(resp.Results, query)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetFeatured(c.Request.Context()))
}

func (h *Handler) GetTrending(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetTrending(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetPopular(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetPopular(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetLatestUpdates(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetLatestUpdates(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetNewReleases(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetNewReleases(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetTopRated(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetTopRated(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetMostFollowed(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetMostFollowed(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetCompleted(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetCompleted(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetOngoing(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetOngoing(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

// GetAdult serves the explicit listing only when the stored preference
// allows it
func (h *Handler) GetAdult(c *gin.Context) {
	if !h.store.Settings().IncludeNSFW {
		c.JSON(http.StatusForbidden, gin.H{"error": "adult content is disabled in settings"})
		return
	}
	c.JSON(http.StatusOK, h.catalog.GetAdult(c.Request.Context(), intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetByType(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetByType(c.Request.Context(), c.Param("type"), intQuery(c, "limit", defaultListLimit)))
}

// ListGenres returns the browsable genre filters for the UI
func (h *Handler) ListGenres(c *gin.Context) {
	c.JSON(http.StatusOK, comix.Genres)
}

func (h *Handler) GetByGenre(c *gin.Context) {
	genreID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "genre id must be numeric"})
		return
	}
	c.JSON(http.StatusOK, h.catalog.GetByGenre(c.Request.Context(), genreID, intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetByDemographic(c *gin.Context) {
	demographicID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "demographic id must be numeric"})
		return
	}
	c.JSON(http.StatusOK, h.catalog.GetByDemographic(c.Request.Context(), demographicID, intQuery(c, "limit", defaultListLimit)))
}

func (h *Handler) GetMangaDetails(c *gin.Context) {
	m := h.catalog.GetMangaDetails(c.Request.Context(), c.Param("id"))
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) GetRelated(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetRelated(c.Request.Context(), c.Param("id")))
}

func (h *Handler) GetChapters(c *gin.Context) {
	chapters := h.catalog.GetChapters(
		c.Request.Context(),
		c.Param("id"),
		intQuery(c, "page", 1),
		intQuery(c, "limit", 100),
		h.language(c),
	)
	c.JSON(http.StatusOK, chapters)
}

func (h *Handler) GetAllChapters(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetAllChapters(c.Request.Context(), c.Param("id"), h.language(c)))
}

func (h *Handler) GetPages(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.GetPages(c.Request.Context(), c.Param("id")))
}

// language resolves the chapter language: explicit query param, then the
// stored reader preference, then the configured default
func (h *Handler) language(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	if lang := h.store.Settings().DefaultLanguage; lang != "" {
		return lang
	}
	return h.defaultLang
}

// parseFilters builds catalog filters from query parameters. The NSFW
// switch follows the stored preference unless the request overrides it.
func (h *Handler) parseFilters(c *gin.Context) domain.SearchFilters {
	f := domain.SearchFilters{
		Limit:         intQuery(c, "limit", 0),
		Offset:        intQuery(c, "offset", 0),
		Page:          intQuery(c, "page", 0),
		Types:         splitQuery(c, "types"),
		Type:          c.Query("type"),
		OrderBy:       c.Query("order"),
		OrderDir:      c.Query("dir"),
		Genres:        intListQuery(c, "genres"),
		ExcludeGenres: intListQuery(c, "exclude_genres"),
		Statuses:      splitQuery(c, "statuses"),
		Status:        c.Query("status"),
		Demographics:  intListQuery(c, "demographics"),
		YearFrom:      intQuery(c, "year_from", 0),
		YearTo:        intQuery(c, "year_to", 0),
		Language:      c.Query("lang"),
	}

	f.IncludeNSFW = h.store.Settings().IncludeNSFW
	if v := c.Query("nsfw"); v != "" {
		f.IncludeNSFW = v == "true" || v == "1"
	}
	return f
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitQuery(c *gin.Context, key string) []string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intListQuery(c *gin.Context, key string) []int {
	var out []int
	for _, p := range splitQuery(c, key) {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// === Library ===

func (h *Handler) GetLibrary(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Library())
}

func (h *Handler) SearchLibrary(c *gin.Context) {
	results := h.search.Filter(c.Query("q"))
	if results == nil {
		results = []search.Result{}
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) AddToLibrary(c *gin.Context) {
	var entry domain.LibraryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid library entry"})
		return
	}
	if entry.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	if err := h.store.AddToLibrary(entry); err != nil {
		h.logger.Error("library add failed", "id", entry.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save entry"})
		return
	}
	c.JSON(http.StatusOK, h.store.Library())
}

func (h *Handler) RemoveFromLibrary(c *gin.Context) {
	if err := h.store.RemoveFromLibrary(c.Param("id")); err != nil {
		h.logger.Error("library remove failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove entry"})
		return
	}
	c.JSON(http.StatusOK, h.store.Library())
}

func (h *Handler) UpdateLibraryStatus(c *gin.Context) {
	var body struct {
		Status domain.ReadStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := h.store.UpdateStatus(c.Param("id"), body.Status); err != nil {
		h.logger.Error("status update failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	c.JSON(http.StatusOK, h.store.Library())
}

// === History ===

func (h *Handler) GetHistory(c *gin.Context) {
	if mangaID := c.Query("manga"); mangaID != "" {
		entry, ok := h.store.GetHistory(mangaID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no history for manga"})
			return
		}
		c.JSON(http.StatusOK, entry)
		return
	}
	c.JSON(http.StatusOK, h.store.History())
}

func (h *Handler) AddToHistory(c *gin.Context) {
	var entry domain.HistoryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history entry"})
		return
	}
	if entry.MangaID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mangaId is required"})
		return
	}
	if err := h.store.AddToHistory(entry); err != nil {
		h.logger.Error("history add failed", "manga", entry.MangaID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save history"})
		return
	}
	c.JSON(http.StatusOK, h.store.History())
}

func (h *Handler) RemoveFromHistory(c *gin.Context) {
	if err := h.store.RemoveFromHistory(c.Param("id")); err != nil {
		h.logger.Error("history remove failed", "manga", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove history"})
		return
	}
	c.JSON(http.StatusOK, h.store.History())
}

func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.store.ClearHistory(); err != nil {
		h.logger.Error("history clear failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// === Settings ===

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Settings())
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch domain.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings patch"})
		return
	}
	merged, err := h.store.UpdateSettings(patch)
	if err != nil {
		h.logger.Error("settings update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, merged)
}

// === Snapshot ===

func (h *Handler) Export(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="inkbound-backup.json"`)
	c.JSON(http.StatusOK, h.store.Export())
}

func (h *Handler) Import(c *gin.Context) {
	doc, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if err := h.store.Import(doc); err != nil {
		h.logger.Warn("import rejected", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid backup document", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": true,
		"library":  len(h.store.Library()),
		"history":  len(h.store.History()),
	})
}

// === Cache ===

func (h *Handler) ClearCache(c *gin.Context) {
	if h.responseCache != nil {
		h.responseCache.Clear()
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
