// Package search filters the user's local collections and ranks catalog
// results against a query.
package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/inkbound/inkbound/internal/domain"
	rank "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"
)

// StateSource supplies the local collections to index
type StateSource interface {
	Library() []domain.LibraryEntry
	History() []domain.HistoryEntry
}

// Item is one searchable local title
type Item struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Cover  string `json:"cover"`
	Source string `json:"source"` // "library" or "history"
}

// Result is a filter hit with match metadata for highlighting
type Result struct {
	Item
	MatchedIndexes []int `json:"matchedIndexes"`
	Score          int   `json:"score"`
}

// Service answers filter queries over the library and history
type Service struct {
	state  StateSource
	logger *slog.Logger
}

func NewService(state StateSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{state: state, logger: logger}
}

// Filter fuzzy-matches the query against library and history titles. A
// manga in both collections appears once, with the library row winning.
// Results come back best match first.
func (s *Service) Filter(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	items := s.gather()
	if len(items) == 0 {
		return nil
	}

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = strings.ToLower(it.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), titles)
	s.logger.Debug("local filter", "query", query, "indexed", len(items), "matches", len(matches))

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Item:           items[match.Index],
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		}
	}
	return results
}

func (s *Service) gather() []Item {
	var items []Item
	seen := make(map[string]bool)

	for _, e := range s.state.Library() {
		if e.Title == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		items = append(items, Item{ID: e.ID, Title: e.Title, Cover: e.Cover, Source: "library"})
	}
	for _, e := range s.state.History() {
		if e.MangaTitle == "" || seen[e.MangaID] {
			continue
		}
		seen[e.MangaID] = true
		items = append(items, Item{ID: e.MangaID, Title: e.MangaTitle, Cover: e.MangaCover, Source: "history"})
	}
	return items
}

// RankResults orders catalog results by relevance to the query: exact
// title, then prefix, then substring, then edit distance. The upstream's
// own order breaks ties.
func RankResults(results []domain.Manga, query string) []domain.Manga {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(results) == 0 {
		return results
	}

	scored := make([]int, len(results))
	for i, m := range results {
		scored[i] = matchScore(strings.ToLower(m.Title), query)
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scored[order[i]] < scored[order[j]]
	})

	out := make([]domain.Manga, len(results))
	for i, idx := range order {
		out[i] = results[idx]
	}
	return out
}

// matchScore is lower for better matches
func matchScore(title, query string) int {
	if title == query {
		return 0
	}
	if strings.HasPrefix(title, query) {
		return 10
	}
	if strings.Contains(title, query) {
		return 50
	}
	return 100 + rank.LevenshteinDistance(query, title)
}
