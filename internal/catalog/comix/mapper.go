package comix

import (
	"strconv"
	"strings"
	"time"

	"github.com/inkbound/inkbound/internal/domain"
)

// picsBase prefixes legacy cover/page keys that arrive without a full URL
const picsBase = "https://meo.comick.pictures/"

// MapMangaList normalizes a whole listing response. The item array can sit
// under result.items, result, or data depending on the endpoint; if none of
// those is array-shaped the result is empty, never an error.
func MapMangaList(v any) []domain.Manga {
	root, ok := AsRecord(v)
	if !ok {
		return []domain.Manga{}
	}

	var items []any
	if res, ok := root.Obj("result"); ok {
		items, _ = res.Arr("items")
	}
	if items == nil {
		items, _ = root.Arr("result")
	}
	if items == nil {
		items, _ = root.Arr("data")
	}

	out := make([]domain.Manga, 0, len(items))
	for _, it := range items {
		if rec, ok := AsRecord(it); ok {
			out = append(out, MapManga(rec))
		}
	}
	return out
}

// MapManga normalizes one upstream manga record. Field resolution order is
// significant and fixed; unresolvable fields get documented defaults.
func MapManga(r Record) domain.Manga {
	hashID := r.ID("hash_id", "hid", "id", "manga_id")
	slug := r.Str("slug")

	id := "cx:" + hashID
	if slug != "" {
		id += "-" + slug
	}

	m := domain.Manga{
		ID:          id,
		Title:       r.Str("title", "name"),
		Cover:       coverURL(r),
		Slug:        slug,
		Description: r.Str("desc", "description", "synopsis"),
		Author:      authorLine(r),
		Status:      publicationStatus(r),
		Type:        comicType(r),
		Rating:      ratingOf(r),
		Tags:        tagList(r),
	}
	if m.Title == "" {
		m.Title = "Unknown"
	}

	if y, ok := r.Int("year"); ok && y > 0 {
		m.Year = y
	} else if ms, ok := timestampMillis(r["created_at"]); ok {
		m.Year = time.UnixMilli(ms).UTC().Year()
	}

	m.Follows = followsOf(r)

	return m
}

// followsOf falls through zero counts, like ratingOf: a present-but-zero
// user_follow_count must not mask a populated follows_total
func followsOf(r Record) int {
	for _, k := range []string{"user_follow_count", "follows_total"} {
		if f, ok := r.Num(k); ok && f != 0 {
			return int(f)
		}
	}
	return 0
}

// coverURL resolves the cover image, in priority order: structured poster
// object, legacy md_covers key needing URL reconstruction, flat thumbnail
// fields.
func coverURL(r Record) string {
	if poster, ok := r.Obj("poster"); ok {
		if u := poster.Str("large", "medium", "small"); u != "" {
			return u
		}
	}
	if covers, ok := r.Arr("md_covers"); ok && len(covers) > 0 {
		if c, ok := AsRecord(covers[0]); ok {
			if key := c.Str("b2key"); key != "" {
				return picsBase + key
			}
		}
	}
	return r.Str("thumb_url", "cover_url")
}

// authorLine joins resolvable author names, falling back to artists, then
// "Unknown"
func authorLine(r Record) string {
	authors := personNames(r, "md_author", "md_authors", "authors", "author")
	if len(authors) > 0 {
		return strings.Join(authors, ", ")
	}
	artists := personNames(r, "md_artist", "md_artists", "artists", "artist")
	if len(artists) > 0 {
		return strings.Join(artists, ", ")
	}
	return "Unknown"
}

// personNames extracts creator names from the first of keys that is
// present. Entries may be bare strings, objects with a name, or objects
// nesting the name under nestedKey.
func personNames(r Record, nestedKey string, keys ...string) []string {
	var src []any
	for _, k := range keys {
		switch v := r[k].(type) {
		case []any:
			src = v
		case string:
			if v != "" {
				return []string{v}
			}
		default:
			continue
		}
		break
	}

	var names []string
	for _, v := range src {
		switch t := v.(type) {
		case string:
			if t != "" {
				names = append(names, t)
			}
		case map[string]any:
			rec := Record(t)
			if nested, ok := rec.Obj(nestedKey); ok {
				if n := nested.Str("name"); n != "" {
					names = append(names, n)
				}
				continue
			}
			if n := rec.Str("name"); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

// tagList extracts genre/term names from whichever shape the endpoint used
func tagList(r Record) []string {
	src, _ := r.Arr("md_genres", "genres", "terms", "tags")

	var tags []string
	for _, v := range src {
		switch t := v.(type) {
		case string:
			tags = append(tags, t)
		case map[string]any:
			rec := Record(t)
			if nested, ok := rec.Obj("md_genres"); ok {
				tags = append(tags, nested.Str("name"))
				continue
			}
			if n := rec.Str("name"); n != "" {
				tags = append(tags, n)
			}
		}
	}
	return tags
}

// publicationStatus normalizes the upstream status vocabulary, including
// the numeric code 2 for finished titles
func publicationStatus(r Record) domain.PublicationStatus {
	v, ok := r["status"]
	if !ok || v == nil {
		return domain.StatusOngoing
	}
	s := strings.ToLower(scalarID(v))
	switch {
	case s == "finished", strings.Contains(s, "complete"), s == "2":
		return domain.StatusCompleted
	case s == "on_hiatus", strings.Contains(s, "hiatus"):
		return domain.StatusHiatus
	default:
		return domain.StatusOngoing
	}
}

// comicType prefers the explicit type field but lets the country code
// override it: kr is manhwa, cn manhua, jp manga
func comicType(r Record) domain.ComicType {
	t := r.Str("type")
	if t == "" {
		t = string(domain.TypeManga)
	}
	switch strings.ToLower(r.Str("country")) {
	case "kr":
		t = string(domain.TypeManhwa)
	case "cn":
		t = string(domain.TypeManhua)
	case "jp":
		t = string(domain.TypeManga)
	}
	return domain.ComicType(t)
}

// ratingOf accepts both numeric and string ratings, then legacy fallbacks
func ratingOf(r Record) float64 {
	switch v := r["rating"].(type) {
	case float64:
		if v != 0 {
			return v
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && f != 0 {
			return f
		}
	}
	if f, ok := r.Num("bayesian_rating", "rated_avg"); ok {
		return f
	}
	return 0
}

// MapChapter normalizes one upstream chapter record
func MapChapter(r Record) domain.Chapter {
	number := chapterNumber(r)

	title := r.Str("title", "name")
	if title == "" {
		title = "Chapter " + number
	}

	ch := domain.Chapter{
		ID:        "cx:" + r.ID("id", "chapter_id", "hid"),
		Title:     title,
		Number:    number,
		ScanGroup: scanGroup(r),
		Date:      chapterDate(r),
	}
	if p, ok := r.Int("count", "pages"); ok {
		ch.Pages = p
	}
	return ch
}

// chapterNumber keeps the upstream numbering verbatim: "10.5" and "Extra"
// are both valid values
func chapterNumber(r Record) string {
	for _, k := range []string{"chap", "number"} {
		if v, ok := r[k]; ok && v != nil {
			return scalarID(v)
		}
	}
	return "0"
}

func scanGroup(r Record) string {
	if groups, ok := r.Arr("md_scanlation_groups"); ok && len(groups) > 0 {
		if g, ok := AsRecord(groups[0]); ok {
			if n := g.Str("name"); n != "" {
				return n
			}
		}
	}
	if names, ok := r.Arr("group_name"); ok && len(names) > 0 {
		if n, ok := names[0].(string); ok {
			return n
		}
	}
	return ""
}

// chapterDate formats updated_at, else created_at. Either may be an ISO
// string or a bare Unix timestamp in seconds or millis.
func chapterDate(r Record) string {
	for _, k := range []string{"updated_at", "created_at"} {
		if ms, ok := timestampMillis(r[k]); ok {
			return formatDate(ms)
		}
	}
	return "Unknown"
}

// timestampMillis converts an upstream timestamp value to Unix millis.
// Numbers above 9,999,999,999 are already millis; smaller values are
// seconds.
func timestampMillis(v any) (int64, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UnixMilli(), true
			}
		}
		return 0, false
	case float64:
		if t > 9_999_999_999 {
			return int64(t), true
		}
		return int64(t) * 1000, true
	}
	return 0, false
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("1/2/2006")
}
