package comix

// Order keys accepted by the upstream listing endpoint
const (
	OrderRelevance      = "relevance"
	OrderDailyViews     = "views_1d"
	OrderWeeklyViews    = "views_7d"   // Trending
	OrderMonthlyViews   = "views_30d"  // Popular, the default order
	OrderQuarterlyViews = "views_90d"
	OrderAllTimeViews   = "views_total"
	OrderFollows        = "follows_total"
	OrderRating         = "rated_avg"
	OrderLatestUpdated  = "chapter_updated_at"
	OrderNewest         = "created_at"
	OrderTitle          = "title"
	OrderYear           = "year"
)

// NSFWGenreIDs is the fixed block-list of upstream genre ids representing
// explicit classifications. BuildQuery negates every entry unless the
// caller opted into NSFW content.
var NSFWGenreIDs = []int{87264, 87266, 87265, 87268, 87267}

// nsfwKeywords backs the post-query content filter in Search. This is a
// known-weak heuristic kept for compatibility with mis-tagged upstream
// records, not a sound content-safety guarantee.
var nsfwKeywords = []string{
	"adult", "hentai", "mature", "erotica", "smut",
	"ecchi", "18+", "gore", "pornographic",
}

// Genre is an upstream genre id with its display name
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genres lists the browsable genre filters
var Genres = []Genre{
	{6, "Action"}, {7, "Adventure"}, {9, "Comedy"}, {11, "Drama"},
	{12, "Fantasy"}, {15, "Horror"}, {16, "Isekai"}, {54, "Romance"},
	{57, "School Life"}, {59, "Supernatural"}, {45, "Martial Arts"},
	{44, "Magic"}, {56, "Sci-Fi"}, {58, "Slice of Life"}, {60, "Sports"},
	{48, "Mystery"}, {51, "Psychological"}, {63, "Tragedy"},
	{14, "Historical"}, {46, "Mecha"},
}

// Demographic ids used by the upstream demographics filter
const (
	DemographicShoujo  = 1
	DemographicShounen = 2
	DemographicJosei   = 3
	DemographicSeinen  = 4
)

// statusSynonyms maps the app's publication-status vocabulary onto the
// upstream's when a single status filter is given
var statusSynonyms = map[string]string{
	"completed": "finished",
	"ongoing":   "releasing",
	"hiatus":    "on_hiatus",
}
