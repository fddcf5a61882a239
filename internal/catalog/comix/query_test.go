package comix

import (
	"fmt"
	"strings"
	"testing"

	"github.com/inkbound/inkbound/internal/domain"
)

func TestBuildQuery_Defaults(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{})

	if !strings.Contains(q, "limit=28") {
		t.Errorf("expected default limit 28, got %q", q)
	}
	if !strings.Contains(q, "order[views_30d]=desc") {
		t.Errorf("expected default monthly-views order, got %q", q)
	}
	if strings.Contains(q, "offset=") || strings.Contains(q, "page=") {
		t.Errorf("unexpected pagination params in %q", q)
	}
	if strings.Contains(q, "demographics") || strings.Contains(q, "year_") {
		t.Errorf("unexpected optional params in %q", q)
	}
}

func TestBuildQuery_NSFWBlockList(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{IncludeNSFW: false})

	for _, id := range NSFWGenreIDs {
		want := fmt.Sprintf("genres[]=-%d", id)
		if !strings.Contains(q, want) {
			t.Errorf("expected %s in query, got %q", want, q)
		}
	}
	if got := strings.Count(q, "genres[]=-"); got != len(NSFWGenreIDs) {
		t.Errorf("expected %d negated genres, got %d", len(NSFWGenreIDs), got)
	}
}

func TestBuildQuery_IncludeNSFWSkipsBlockList(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{IncludeNSFW: true})

	if strings.Contains(q, "genres[]=-") {
		t.Errorf("NSFW opt-in must not emit the block-list, got %q", q)
	}
}

func TestBuildQuery_NSFWComposesWithGenres(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{Genres: []int{6, 7}, ExcludeGenres: []int{15}})

	if !strings.Contains(q, "genres[]=6") || !strings.Contains(q, "genres[]=7") {
		t.Errorf("requested genres missing from %q", q)
	}
	if !strings.Contains(q, "genres[]=-15") {
		t.Errorf("explicit exclusion missing from %q", q)
	}
	// The block-list is appended, not substituted
	if !strings.Contains(q, fmt.Sprintf("genres[]=-%d", NSFWGenreIDs[0])) {
		t.Errorf("block-list missing when genres requested: %q", q)
	}
}

func TestBuildQuery_StatusSynonyms(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"completed", "statuses[]=finished"},
		{"ongoing", "statuses[]=releasing"},
		{"hiatus", "statuses[]=on_hiatus"},
		{"discontinued", "statuses[]=discontinued"}, // Unknown values pass through
	}
	for _, tc := range cases {
		q := BuildQuery(domain.SearchFilters{Status: tc.in})
		if !strings.Contains(q, tc.want) {
			t.Errorf("status %q: expected %s in %q", tc.in, tc.want, q)
		}
	}
}

func TestBuildQuery_StatusArrayWinsOverSingle(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{Statuses: []string{"finished"}, Status: "ongoing"})

	if !strings.Contains(q, "statuses[]=finished") {
		t.Errorf("array status missing from %q", q)
	}
	if strings.Contains(q, "releasing") {
		t.Errorf("single status should be ignored when array given: %q", q)
	}
}

func TestBuildQuery_SortAlias(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{Sort: OrderRating})

	if !strings.Contains(q, "order[rated_avg]=desc") {
		t.Errorf("sort alias not honored: %q", q)
	}
}

func TestBuildQuery_OrderByWinsOverSort(t *testing.T) {
	q := BuildQuery(domain.SearchFilters{OrderBy: OrderTitle, Sort: OrderRating, OrderDir: "asc"})

	if !strings.Contains(q, "order[title]=asc") {
		t.Errorf("expected orderBy with asc direction, got %q", q)
	}
}

func TestBuildQuery_Deterministic(t *testing.T) {
	f := domain.SearchFilters{
		Limit:        50,
		Page:         3,
		Types:        []string{"manhwa", "manga"},
		Genres:       []int{6, 54},
		Demographics: []int{2},
		YearFrom:     2010,
		YearTo:       2024,
	}
	if a, b := BuildQuery(f), BuildQuery(f); a != b {
		t.Errorf("identical filters produced different strings:\n%q\n%q", a, b)
	}
}

func TestExtractHashID(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"cx:abc123-solo-leveling", "abc123"},
		{"cx:abc123", "abc123"},
		{"abc123-slug", "abc123"},
		{"abc123", "abc123"},
	}
	for _, tc := range cases {
		if got := ExtractHashID(tc.in); got != tc.want {
			t.Errorf("ExtractHashID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
