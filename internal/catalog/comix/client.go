// Package comix is the catalog client for the Comix content API. It builds
// upstream queries, normalizes the API's inconsistently shaped records into
// the domain entities, caches responses by request path, and applies the
// default NSFW filtering.
package comix

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/inkbound/inkbound/internal/cache"
	"github.com/inkbound/inkbound/internal/domain"
)

const (
	// DefaultBaseURL is the production upstream endpoint
	DefaultBaseURL = "https://comix.to"

	defaultTimeout = 30 * time.Second

	// Browser-like identification keeps the upstream from rejecting
	// non-interactive clients
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	refererURL = "https://comick.io/"

	chapterPageSize = 100
	maxChapterPages = 50 // Safety cap for the full-chapter-list walk
)

// Client implements domain.Catalog against the Comix API.
//
// The response cache is injected; a nil cache makes every call a guaranteed
// pass-through to the transport, which is how non-interactive executions
// run. Two concurrent misses for the same key may both hit the transport;
// the cache is for latency, not correctness.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *slog.Logger
}

var _ domain.Catalog = (*Client)(nil)

// NewClient creates a catalog client. baseURL defaults to the production
// upstream when empty.
func NewClient(baseURL string, responseCache *cache.Cache, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cache:  responseCache,
		logger: logger,
	}
}

// ExtractHashID strips the "cx:" prefix and any trailing slug from a
// canonical manga id, leaving the upstream hash id.
func ExtractHashID(id string) string {
	id = strings.TrimPrefix(id, "cx:")
	if i := strings.IndexByte(id, '-'); i >= 0 {
		return id[:i]
	}
	return id
}

// fetchJSON performs a GET against the upstream, decoding the body as
// generic JSON. Responses are cached under the request path for ttl; a nil
// cache or zero ttl bypasses caching entirely.
func (c *Client) fetchJSON(ctx context.Context, path string, ttl time.Duration) (any, error) {
	key := "api:" + path

	if c.cache != nil && ttl > 0 {
		if data, ok := c.cache.Get(key); ok {
			c.logger.Debug("cache hit", "path", path)
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", refererURL)

	c.logger.Debug("comix request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrUpstream, err)
	}

	if c.cache != nil && ttl > 0 {
		c.cache.Set(key, data, ttl)
	}
	return data, nil
}

// listing runs one normalized listing query, degrading to an empty slice
func (c *Client) listing(ctx context.Context, label string, f domain.SearchFilters) []domain.Manga {
	data, err := c.fetchJSON(ctx, "/api/v2/manga?"+BuildQuery(f), cache.TierBrowse)
	if err != nil {
		c.logger.Error("listing fetch failed", "list", label, "error", err)
		return []domain.Manga{}
	}
	return MapMangaList(data)
}

// Search fetches one page of listings for a keyword plus filters. When the
// caller did not opt into NSFW content a second, independent safeguard runs
// over the mapped results: the query already excluded the NSFW genre ids,
// but mis-tagged records slip through, so tags and titles are also checked
// against a fixed keyword list.
func (c *Client) Search(ctx context.Context, query string, f domain.SearchFilters) domain.SearchResponse {
	path := "/api/v2/manga?" + BuildQuery(f)
	if query != "" {
		path += "&keyword=" + url.QueryEscape(query)
	}

	data, err := c.fetchJSON(ctx, path, cache.TierBrowse)
	if err != nil {
		c.logger.Error("search failed", "query", query, "error", err)
		return domain.SearchResponse{Results: []domain.Manga{}}
	}

	results := MapMangaList(data)
	if !f.IncludeNSFW {
		results = filterNSFW(results)
	}
	return domain.SearchResponse{Results: results, Total: len(results)}
}

// filterNSFW drops results whose tags or title match the explicit-content
// keyword list, case-insensitively. "Secret Class" is blocked by title
// outright: it is a known false negative of the tag check.
func filterNSFW(results []domain.Manga) []domain.Manga {
	out := make([]domain.Manga, 0, len(results))
	for _, m := range results {
		if nsfwMatch(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func nsfwMatch(m domain.Manga) bool {
	title := strings.ToLower(m.Title)
	if strings.Contains(title, "secret class") {
		return true
	}
	for _, kw := range nsfwKeywords {
		if strings.Contains(title, kw) {
			return true
		}
		for _, tag := range m.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				return true
			}
		}
	}
	return false
}

// GetTrending returns titles ordered by weekly views
func (c *Client) GetTrending(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "trending", domain.SearchFilters{
		Limit: limit, OrderBy: OrderWeeklyViews, OrderDir: "desc",
	})
}

// GetPopular returns titles ordered by monthly views
func (c *Client) GetPopular(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "popular", domain.SearchFilters{
		Limit: limit, OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetLatestUpdates returns titles ordered by last chapter update
func (c *Client) GetLatestUpdates(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "latest", domain.SearchFilters{
		Limit: limit, OrderBy: OrderLatestUpdated, OrderDir: "desc",
	})
}

// GetNewReleases returns the newest catalog additions
func (c *Client) GetNewReleases(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "new", domain.SearchFilters{
		Limit: limit, OrderBy: OrderNewest, OrderDir: "desc",
	})
}

// GetTopRated returns titles ordered by average rating
func (c *Client) GetTopRated(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "top-rated", domain.SearchFilters{
		Limit: limit, OrderBy: OrderRating, OrderDir: "desc",
	})
}

// GetMostFollowed returns titles ordered by follow count
func (c *Client) GetMostFollowed(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "most-followed", domain.SearchFilters{
		Limit: limit, OrderBy: OrderFollows, OrderDir: "desc",
	})
}

// GetByType filters by format (manga, manhwa, manhua, other)
func (c *Client) GetByType(ctx context.Context, comicType string, limit int) []domain.Manga {
	return c.listing(ctx, "type:"+comicType, domain.SearchFilters{
		Limit: limit, Types: []string{comicType},
		OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetByGenre filters by one upstream genre id
func (c *Client) GetByGenre(ctx context.Context, genreID, limit int) []domain.Manga {
	return c.listing(ctx, "genre:"+strconv.Itoa(genreID), domain.SearchFilters{
		Limit: limit, Genres: []int{genreID},
		OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetByDemographic filters by demographic id (1 shoujo, 2 shounen,
// 3 josei, 4 seinen)
func (c *Client) GetByDemographic(ctx context.Context, demographicID, limit int) []domain.Manga {
	return c.listing(ctx, "demographic:"+strconv.Itoa(demographicID), domain.SearchFilters{
		Limit: limit, Demographics: []int{demographicID},
		OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetCompleted returns finished titles by monthly views
func (c *Client) GetCompleted(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "completed", domain.SearchFilters{
		Limit: limit, Statuses: []string{"finished"},
		OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetOngoing returns currently releasing titles by monthly views
func (c *Client) GetOngoing(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "ongoing", domain.SearchFilters{
		Limit: limit, Statuses: []string{"releasing"},
		OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetAdult returns explicit titles; the NSFW exclusion is switched off for
// this listing only
func (c *Client) GetAdult(ctx context.Context, limit int) []domain.Manga {
	return c.listing(ctx, "adult", domain.SearchFilters{
		Limit: limit, Genres: []int{NSFWGenreIDs[0]}, IncludeNSFW: true,
		OrderBy: OrderMonthlyViews, OrderDir: "desc",
	})
}

// GetFeatured returns the spotlight list, falling back to a ten-item
// trending list when the endpoint fails
func (c *Client) GetFeatured(ctx context.Context) []domain.Manga {
	data, err := c.fetchJSON(ctx, "/api/v2/featured", cache.TierBrowse)
	if err != nil {
		c.logger.Error("featured fetch failed", "error", err)
		return c.GetTrending(ctx, 10)
	}
	return MapMangaList(data)
}

// GetMangaDetails fetches one title by canonical id. Returns nil when the
// record is missing or the upstream fails.
func (c *Client) GetMangaDetails(ctx context.Context, id string) *domain.Manga {
	hashID := ExtractHashID(id)

	data, err := c.fetchJSON(ctx, "/api/v2/manga/"+hashID, cache.TierDetails)
	if err != nil {
		c.logger.Error("details fetch failed", "id", hashID, "error", err)
		return nil
	}

	root, ok := AsRecord(data)
	if !ok {
		return nil
	}
	res, ok := root.Obj("result")
	if !ok {
		return nil
	}
	m := MapManga(res)
	return &m
}

// GetRelated returns titles related to the given one, falling back to a
// ten-item popular list on failure
func (c *Client) GetRelated(ctx context.Context, id string) []domain.Manga {
	hashID := ExtractHashID(id)

	data, err := c.fetchJSON(ctx, "/api/v2/manga/"+hashID+"/related", cache.TierDetails)
	if err != nil {
		c.logger.Error("related fetch failed", "id", hashID, "error", err)
		return c.GetPopular(ctx, 10)
	}
	return MapMangaList(data)
}

// GetChapters fetches a single page of a title's chapter list. limit is
// clamped to 100, the upstream maximum. A language filter is appended
// unless language is empty or the "all" sentinel.
func (c *Client) GetChapters(ctx context.Context, id string, page, limit int, language string) []domain.Chapter {
	hashID := ExtractHashID(id)
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > chapterPageSize {
		limit = chapterPageSize
	}

	path := fmt.Sprintf("/api/v2/manga/%s/chapters?limit=%d&page=%d", hashID, limit, page)
	if language != "" && language != "all" {
		path += "&lang=" + language
	}

	data, err := c.fetchJSON(ctx, path, cache.TierChapters)
	if err != nil {
		c.logger.Error("chapters fetch failed", "id", hashID, "page", page, "error", err)
		return []domain.Chapter{}
	}

	root, ok := AsRecord(data)
	if !ok {
		return []domain.Chapter{}
	}
	items, ok := root.Arr("chapters")
	if !ok {
		if res, found := root.Obj("result"); found {
			items, _ = res.Arr("items")
		}
	}

	chapters := make([]domain.Chapter, 0, len(items))
	for _, it := range items {
		if rec, ok := AsRecord(it); ok {
			chapters = append(chapters, MapChapter(rec))
		}
	}
	return chapters
}

// GetAllChapters walks every chapter page sequentially, deduplicating by
// chapter number rather than id: distinct scan groups publish the same
// chapter number under different ids, and the first one seen wins. The walk
// stops when a page yields nothing new, comes back short, or the safety cap
// is hit. The result is sorted by the numeric value of the chapter number,
// descending; numbers with no leading float keep their encounter order.
func (c *Client) GetAllChapters(ctx context.Context, id, language string) []domain.Chapter {
	all := []domain.Chapter{}
	seen := make(map[string]bool)

	for page := 1; page <= maxChapterPages; page++ {
		batch := c.GetChapters(ctx, id, page, chapterPageSize, language)

		newCount := 0
		for _, ch := range batch {
			if seen[ch.Number] {
				continue
			}
			seen[ch.Number] = true
			all = append(all, ch)
			newCount++
		}

		if newCount == 0 || len(batch) < chapterPageSize {
			break
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, aok := leadingFloat(all[i].Number)
		b, bok := leadingFloat(all[j].Number)
		if !aok || !bok {
			return false
		}
		return a > b
	})
	return all
}

// leadingFloat parses the numeric prefix of a chapter number ("10.5-alt"
// parses as 10.5, "Extra" does not parse)
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GetPages fetches a chapter's page images and reader metadata. Zero
// resolved pages is a reported outcome, not an error, so the UI can tell
// "chapter exists, no pages" apart from a failed fetch (which also comes
// back empty but is logged).
func (c *Client) GetPages(ctx context.Context, chapterID string) domain.PageResult {
	cleanID := chapterID
	if unescaped, err := url.QueryUnescape(chapterID); err == nil {
		cleanID = unescaped
	}
	cleanID = strings.TrimPrefix(cleanID, "cx:")

	empty := domain.PageResult{Pages: []domain.ReaderPage{}}

	data, err := c.fetchJSON(ctx, "/api/v2/chapters/"+cleanID, cache.TierPages)
	if err != nil {
		c.logger.Error("pages fetch failed", "chapter", cleanID, "error", err)
		return empty
	}

	root, ok := AsRecord(data)
	if !ok {
		return empty
	}

	chapter := root
	if ch, found := root.Obj("chapter", "result"); found {
		chapter = ch
	}

	// Image probing order: keyed image objects needing URL reconstruction,
	// then the chapter's generic image array, then a top-level fallback.
	var pages []domain.ReaderPage
	if imgs, found := chapter.Arr("md_images"); found && len(imgs) > 0 {
		pages = mapKeyedImages(imgs)
	} else if imgs, found := chapter.Arr("images"); found && len(imgs) > 0 {
		pages = mapPlainImages(imgs)
	} else if imgs, found := root.Arr("images"); found {
		pages = mapPlainImages(imgs)
	}

	if len(pages) == 0 {
		c.logger.Warn("no images resolved for chapter", "chapter", cleanID)
		return empty
	}

	return domain.PageResult{
		Pages: pages,
		Meta:  c.chapterMeta(ctx, chapter, cleanID),
	}
}

// mapKeyedImages resolves image objects whose URL is reconstructed from a
// storage key. Unresolvable entries are dropped but keep their source-array
// position in the surviving indexes, so a malformed mid-list entry leaves
// a gap rather than shifting later pages.
func mapKeyedImages(imgs []any) []domain.ReaderPage {
	pages := make([]domain.ReaderPage, 0, len(imgs))
	for i, v := range imgs {
		rec, ok := AsRecord(v)
		if !ok {
			continue
		}
		u := ""
		if key := rec.Str("b2key"); key != "" {
			u = picsBase + key
		} else {
			u = rec.Str("url")
		}
		if u == "" {
			continue
		}
		pages = append(pages, domain.ReaderPage{URL: u, Index: i})
	}
	return pages
}

// mapPlainImages resolves a generic image array of strings or objects,
// keeping source-array indexes like mapKeyedImages
func mapPlainImages(imgs []any) []domain.ReaderPage {
	pages := make([]domain.ReaderPage, 0, len(imgs))
	for i, v := range imgs {
		u := ""
		switch t := v.(type) {
		case string:
			u = t
		case map[string]any:
			u = Record(t).Str("url", "src")
		}
		if u == "" {
			continue
		}
		pages = append(pages, domain.ReaderPage{URL: u, Index: i})
	}
	return pages
}

// chapterMeta extracts manga linkage from the chapter payload. When the
// manga title or cover is still missing afterwards, exactly one
// supplementary details lookup back-fills them.
func (c *Client) chapterMeta(ctx context.Context, ch Record, cleanID string) *domain.ChapterMeta {
	manga, _ := ch.Obj("manga", "md_comics", "comic")

	var hid, slug string
	if manga != nil {
		hid = manga.ID("hid")
		slug = manga.Str("slug")
	}
	if hid == "" {
		hid = ch.ID("comic_hid")
	}
	if hid == "" && manga != nil {
		hid = manga.ID("id")
	}

	mangaID := ""
	switch {
	case hid != "":
		mangaID = "cx:" + hid
		if slug != "" {
			mangaID += "-" + slug
		}
	case slug != "":
		mangaID = "cx:" + slug
	}

	var mangaTitle, mangaCover string
	if manga != nil {
		mangaTitle = manga.Str("title", "name")
		mangaCover = manga.Str("cover_url", "cover")
		if mangaCover == "" {
			if covers, ok := manga.Arr("md_covers"); ok && len(covers) > 0 {
				if cover, ok := AsRecord(covers[0]); ok {
					if key := cover.Str("b2key"); key != "" {
						mangaCover = picsBase + key
					}
				}
			}
		}
	}

	if mangaID != "" && (mangaTitle == "" || mangaCover == "") {
		lookup := hid
		if lookup == "" {
			lookup = slug
		}
		if details := c.GetMangaDetails(ctx, lookup); details != nil {
			if mangaTitle == "" {
				mangaTitle = details.Title
			}
			if mangaCover == "" {
				mangaCover = details.Cover
			}
		}
	}

	if mangaID == "" {
		mangaID = "cx:unknown-" + cleanID
	}

	meta := &domain.ChapterMeta{
		MangaID:    mangaID,
		ChapterID:  cleanID,
		Title:      ch.Str("title"),
		Number:     scalarID(ch["number"]),
		MangaTitle: mangaTitle,
		MangaCover: mangaCover,
	}

	// Prev/next arrive as bare identifiers or nested objects
	if id := refID(ch["prev"]); id != "" {
		meta.PrevChapterID = "cx:" + id
	}
	if id := refID(ch["next"]); id != "" {
		meta.NextChapterID = "cx:" + id
	}
	return meta
}

// refID normalizes a chapter reference that may be a bare id or an object
func refID(v any) string {
	if rec, ok := AsRecord(v); ok {
		return rec.ID("id", "hid", "chapter_id")
	}
	return scalarID(v)
}
