package comix

import (
	"encoding/json"
	"testing"

	"github.com/inkbound/inkbound/internal/domain"
)

func record(t *testing.T, raw string) Record {
	t.Helper()
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return r
}

func TestMapManga_IDStableAcrossEndpoints(t *testing.T) {
	// Listing exposes hid, detail exposes hash_id; both must yield the
	// same canonical id for the same title.
	listing := record(t, `{"hid": "abc123", "slug": "solo-leveling", "title": "Solo Leveling"}`)
	detail := record(t, `{"hash_id": "abc123", "slug": "solo-leveling", "title": "Solo Leveling"}`)

	a, b := MapManga(listing), MapManga(detail)
	if a.ID != "cx:abc123-solo-leveling" {
		t.Errorf("unexpected id %q", a.ID)
	}
	if a.ID != b.ID {
		t.Errorf("ids differ across endpoints: %q vs %q", a.ID, b.ID)
	}
}

func TestMapManga_NumericID(t *testing.T) {
	m := MapManga(record(t, `{"id": 4521, "title": "X"}`))
	if m.ID != "cx:4521" {
		t.Errorf("numeric id mishandled: %q", m.ID)
	}
}

func TestMapManga_CoverPriority(t *testing.T) {
	t.Run("poster wins", func(t *testing.T) {
		m := MapManga(record(t, `{
			"poster": {"large": "https://img/large.jpg", "small": "https://img/small.jpg"},
			"md_covers": [{"b2key": "legacy.jpg"}],
			"thumb_url": "https://img/thumb.jpg"
		}`))
		if m.Cover != "https://img/large.jpg" {
			t.Errorf("expected poster.large, got %q", m.Cover)
		}
	})

	t.Run("legacy cover key reconstructs URL", func(t *testing.T) {
		m := MapManga(record(t, `{"md_covers": [{"b2key": "abc.jpg"}]}`))
		if m.Cover != "https://meo.comick.pictures/abc.jpg" {
			t.Errorf("expected reconstructed cover URL, got %q", m.Cover)
		}
	})

	t.Run("flat thumbnail last", func(t *testing.T) {
		m := MapManga(record(t, `{"thumb_url": "https://img/t.jpg"}`))
		if m.Cover != "https://img/t.jpg" {
			t.Errorf("expected thumb_url, got %q", m.Cover)
		}
	})

	t.Run("empty sentinel", func(t *testing.T) {
		if m := MapManga(record(t, `{"title": "X"}`)); m.Cover != "" {
			t.Errorf("expected empty cover, got %q", m.Cover)
		}
	})
}

func TestMapManga_CountryOverridesType(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.ComicType
	}{
		{`{"country": "kr"}`, domain.TypeManhwa},
		{`{"country": "KR"}`, domain.TypeManhwa},
		{`{"country": "cn"}`, domain.TypeManhua},
		{`{"country": "jp"}`, domain.TypeManga},
		{`{"type": "manhua", "country": "kr"}`, domain.TypeManhwa},
		{`{}`, domain.TypeManga},
	}
	for _, tc := range cases {
		if got := MapManga(record(t, tc.raw)).Type; got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestMapManga_AuthorChain(t *testing.T) {
	cases := []struct {
		name, raw, want string
	}{
		{"nested md_authors", `{"md_authors": [{"md_author": {"name": "Chugong"}}]}`, "Chugong"},
		{"plain authors", `{"authors": [{"name": "A"}, "B"]}`, "A, B"},
		{"author string", `{"author": "Solo"}`, "Solo"},
		{"artists fallback", `{"md_artists": [{"md_artist": {"name": "Dubu"}}]}`, "Dubu"},
		{"unknown", `{}`, "Unknown"},
		{"authors before artists", `{"authors": ["A"], "artists": ["Z"]}`, "A"},
	}
	for _, tc := range cases {
		if got := MapManga(record(t, tc.raw)).Author; got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMapManga_Status(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.PublicationStatus
	}{
		{`{"status": "finished"}`, domain.StatusCompleted},
		{`{"status": "Completed"}`, domain.StatusCompleted},
		{`{"status": 2}`, domain.StatusCompleted},
		{`{"status": "on_hiatus"}`, domain.StatusHiatus},
		{`{"status": "releasing"}`, domain.StatusOngoing},
		{`{}`, domain.StatusOngoing},
	}
	for _, tc := range cases {
		if got := MapManga(record(t, tc.raw)).Status; got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestMapManga_Tags(t *testing.T) {
	m := MapManga(record(t, `{"md_genres": [
		{"md_genres": {"name": "Action"}},
		{"name": "Drama"}
	]}`))
	if len(m.Tags) != 2 || m.Tags[0] != "Action" || m.Tags[1] != "Drama" {
		t.Errorf("unexpected tags %v", m.Tags)
	}

	m = MapManga(record(t, `{"genres": ["Comedy", "Romance"]}`))
	if len(m.Tags) != 2 || m.Tags[0] != "Comedy" {
		t.Errorf("string genres mishandled: %v", m.Tags)
	}
}

func TestMapManga_RatingAndFollows(t *testing.T) {
	m := MapManga(record(t, `{"rating": "8.75", "user_follow_count": 42000}`))
	if m.Rating != 8.75 {
		t.Errorf("string rating mishandled: %v", m.Rating)
	}
	if m.Follows != 42000 {
		t.Errorf("follows mishandled: %v", m.Follows)
	}

	m = MapManga(record(t, `{"bayesian_rating": 9.1, "follows_total": 7}`))
	if m.Rating != 9.1 || m.Follows != 7 {
		t.Errorf("fallback fields mishandled: %v / %v", m.Rating, m.Follows)
	}

	// A present-but-zero count falls through to the legacy field
	m = MapManga(record(t, `{"user_follow_count": 0, "follows_total": 7}`))
	if m.Follows != 7 {
		t.Errorf("zero count must not mask follows_total: %v", m.Follows)
	}

	if m := MapManga(record(t, `{}`)); m.Rating != 0 || m.Follows != 0 {
		t.Errorf("expected zero defaults, got %v / %v", m.Rating, m.Follows)
	}
}

func TestMapManga_YearFromCreatedAt(t *testing.T) {
	m := MapManga(record(t, `{"created_at": "2019-03-04T00:00:00Z"}`))
	if m.Year != 2019 {
		t.Errorf("expected 2019, got %d", m.Year)
	}

	m = MapManga(record(t, `{"year": 2016, "created_at": "2019-03-04T00:00:00Z"}`))
	if m.Year != 2016 {
		t.Errorf("explicit year must win, got %d", m.Year)
	}
}

func TestMapChapter_TimestampUnits(t *testing.T) {
	// 1700000000 seconds and 1700000000000 millis are the same instant
	secs := MapChapter(record(t, `{"id": "c1", "chap": "1", "updated_at": 1700000000}`))
	millis := MapChapter(record(t, `{"id": "c1", "chap": "1", "updated_at": 1700000000000}`))

	if secs.Date != millis.Date {
		t.Errorf("seconds and millis disagree: %q vs %q", secs.Date, millis.Date)
	}
	if secs.Date == "Unknown" {
		t.Error("timestamp should have resolved")
	}
}

func TestMapChapter_Defaults(t *testing.T) {
	ch := MapChapter(record(t, `{"hid": "h1", "chap": 10.5}`))

	if ch.ID != "cx:h1" {
		t.Errorf("unexpected id %q", ch.ID)
	}
	if ch.Number != "10.5" {
		t.Errorf("unexpected number %q", ch.Number)
	}
	if ch.Title != "Chapter 10.5" {
		t.Errorf("expected synthesized title, got %q", ch.Title)
	}
	if ch.Date != "Unknown" {
		t.Errorf("expected Unknown date, got %q", ch.Date)
	}
}

func TestMapChapter_ScanGroup(t *testing.T) {
	ch := MapChapter(record(t, `{"id": "c", "md_scanlation_groups": [{"name": "Asura"}]}`))
	if ch.ScanGroup != "Asura" {
		t.Errorf("expected Asura, got %q", ch.ScanGroup)
	}

	ch = MapChapter(record(t, `{"id": "c", "group_name": ["Reaper"]}`))
	if ch.ScanGroup != "Reaper" {
		t.Errorf("expected Reaper, got %q", ch.ScanGroup)
	}
}

func TestMapMangaList_ShapeTolerance(t *testing.T) {
	decode := func(raw string) any {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("bad fixture: %v", err)
		}
		return v
	}

	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"result.items", `{"result": {"items": [{"title": "A"}, {"title": "B"}]}}`, 2},
		{"result array", `{"result": [{"title": "A"}]}`, 1},
		{"data array", `{"data": [{"title": "A"}]}`, 1},
		{"no list", `{"message": "ok"}`, 0},
		{"not an object", `[1, 2]`, 0},
		{"result not array", `{"result": "oops"}`, 0},
	}
	for _, tc := range cases {
		got := MapMangaList(decode(tc.raw))
		if got == nil {
			t.Errorf("%s: result must be non-nil", tc.name)
		}
		if len(got) != tc.want {
			t.Errorf("%s: got %d items, want %d", tc.name, len(got), tc.want)
		}
	}
}
