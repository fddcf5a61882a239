package domain

import "context"

// SearchFilters is the structured input to catalog queries. Single-value
// variants (Type, Status, Sort) exist for caller convenience and are only
// consulted when their array counterpart is empty.
type SearchFilters struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
	Page   int `json:"page,omitempty"`

	Types []string `json:"types,omitempty"`
	Type  string   `json:"type,omitempty"`

	OrderBy  string `json:"orderBy,omitempty"`
	Sort     string `json:"sort,omitempty"` // Alias for OrderBy
	OrderDir string `json:"orderDir,omitempty"`

	Genres        []int `json:"genres,omitempty"`
	ExcludeGenres []int `json:"excludeGenres,omitempty"`

	IncludeNSFW bool `json:"includeNSFW,omitempty"`

	Statuses []string `json:"statuses,omitempty"`
	Status   string   `json:"status,omitempty"`

	Demographics []int `json:"demographics,omitempty"`

	YearFrom int `json:"yearFrom,omitempty"`
	YearTo   int `json:"yearTo,omitempty"`

	Language string `json:"language,omitempty"`
}

// Catalog is the normalized read surface of the upstream content API.
//
// Every operation is total from the caller's perspective: transport and
// parse failures degrade to empty or nil results and are only logged, so
// the UI layer never sees a raw upstream error. Retry is user-initiated.
type Catalog interface {
	Search(ctx context.Context, query string, filters SearchFilters) SearchResponse

	GetTrending(ctx context.Context, limit int) []Manga
	GetPopular(ctx context.Context, limit int) []Manga
	GetLatestUpdates(ctx context.Context, limit int) []Manga
	GetNewReleases(ctx context.Context, limit int) []Manga
	GetTopRated(ctx context.Context, limit int) []Manga
	GetMostFollowed(ctx context.Context, limit int) []Manga
	GetFeatured(ctx context.Context) []Manga

	GetByType(ctx context.Context, comicType string, limit int) []Manga
	GetByGenre(ctx context.Context, genreID, limit int) []Manga
	GetByDemographic(ctx context.Context, demographicID, limit int) []Manga
	GetCompleted(ctx context.Context, limit int) []Manga
	GetOngoing(ctx context.Context, limit int) []Manga
	GetAdult(ctx context.Context, limit int) []Manga

	GetMangaDetails(ctx context.Context, id string) *Manga
	GetRelated(ctx context.Context, id string) []Manga

	GetChapters(ctx context.Context, id string, page, limit int, language string) []Chapter
	GetAllChapters(ctx context.Context, id, language string) []Chapter
	GetPages(ctx context.Context, chapterID string) PageResult
}
