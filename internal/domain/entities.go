package domain

// PublicationStatus is the normalized upstream publication state
type PublicationStatus string

const (
	StatusOngoing   PublicationStatus = "ongoing"
	StatusCompleted PublicationStatus = "completed"
	StatusHiatus    PublicationStatus = "hiatus"
)

// ComicType distinguishes origin formats
type ComicType string

const (
	TypeManga  ComicType = "manga"
	TypeManhwa ComicType = "manhwa"
	TypeManhua ComicType = "manhua"
	TypeOther  ComicType = "other"
)

// Manga is the canonical form of an upstream listing or detail record.
// The ID is stable across endpoints: "cx:" + hash id, plus "-" + slug when
// the upstream exposed one. The same title always yields the same ID no
// matter which endpoint supplied the raw record.
type Manga struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Cover       string            `json:"cover"` // Absolute URL, empty when unresolvable
	Slug        string            `json:"slug"`
	Description string            `json:"description,omitempty"`
	Author      string            `json:"author,omitempty"` // Comma-joined names, "Unknown" fallback
	Status      PublicationStatus `json:"status,omitempty"`
	Type        ComicType         `json:"type,omitempty"`
	Year        int               `json:"year,omitempty"`
	Rating      float64           `json:"rating,omitempty"`
	Follows     int               `json:"follows,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

// SearchResponse is a page of normalized search results
type SearchResponse struct {
	Results []Manga `json:"results"`
	Total   int     `json:"total"`
}

// Chapter is the canonical form of an upstream chapter record.
// Number stays a string: upstream numbering includes values like
// "10.5" and "Extra" that are not strictly numeric.
type Chapter struct {
	ID        string `json:"id"` // "cx:" + chapter id
	Title     string `json:"title"`
	Number    string `json:"number"`
	ScanGroup string `json:"scanGroup,omitempty"`
	Date      string `json:"date"`
	Pages     int    `json:"pages,omitempty"`
}

// ReaderPage is a single resolvable page image. Entries whose URL cannot
// be resolved are dropped during mapping, never represented as empty;
// Index keeps the upstream array position, so dropped entries leave gaps.
type ReaderPage struct {
	URL   string `json:"url"`
	Index int    `json:"index"`
}

// ChapterMeta links a page-list fetch back to its manga for reader chrome
// and prev/next navigation.
type ChapterMeta struct {
	MangaID       string `json:"mangaId"`
	ChapterID     string `json:"chapterId"`
	Title         string `json:"title"`
	Number        string `json:"number"`
	MangaTitle    string `json:"mangaTitle"`
	MangaCover    string `json:"mangaCover"`
	PrevChapterID string `json:"prevChapterId,omitempty"`
	NextChapterID string `json:"nextChapterId,omitempty"`
}

// PageResult is the outcome of a page-list fetch. An empty Pages slice is a
// valid "chapter exists, zero pages" outcome, distinct from a fetch failure.
type PageResult struct {
	Pages []ReaderPage `json:"pages"`
	Meta  *ChapterMeta `json:"meta,omitempty"`
}
