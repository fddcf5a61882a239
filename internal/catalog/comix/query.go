package comix

import (
	"fmt"
	"strings"

	"github.com/inkbound/inkbound/internal/domain"
)

const defaultLimit = 28

// BuildQuery turns structured filters into the upstream listing query
// string. Pure and deterministic: identical filters always produce the same
// string, because parameter emission order is fixed.
//
// Multi-valued filters use the upstream's repeated-key array syntax
// (genres[]=6&genres[]=7); a leading "-" on a genre id means exclusion.
// Parameters are assembled by hand rather than through url.Values, which
// would sort keys and break the documented emission order.
func BuildQuery(f domain.SearchFilters) string {
	var params []string

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	params = append(params, fmt.Sprintf("limit=%d", limit))
	if f.Offset > 0 {
		params = append(params, fmt.Sprintf("offset=%d", f.Offset))
	}
	if f.Page > 0 {
		params = append(params, fmt.Sprintf("page=%d", f.Page))
	}

	// Types: array form wins over the single-value convenience field
	if len(f.Types) > 0 {
		for _, t := range f.Types {
			params = append(params, "types[]="+t)
		}
	} else if f.Type != "" {
		params = append(params, "types[]="+f.Type)
	}

	// Order: unresolvable/absent sort keys fall back to monthly views
	sortKey := f.OrderBy
	if sortKey == "" {
		sortKey = f.Sort
	}
	dir := f.OrderDir
	if dir == "" {
		dir = "desc"
	}
	if sortKey != "" {
		params = append(params, fmt.Sprintf("order[%s]=%s", sortKey, dir))
	} else {
		params = append(params, fmt.Sprintf("order[%s]=desc", OrderMonthlyViews))
	}

	for _, g := range f.Genres {
		params = append(params, fmt.Sprintf("genres[]=%d", g))
	}
	for _, g := range f.ExcludeGenres {
		params = append(params, fmt.Sprintf("genres[]=-%d", g))
	}

	// NSFW exclusion composes with explicit genre filters above
	if !f.IncludeNSFW {
		for _, id := range NSFWGenreIDs {
			params = append(params, fmt.Sprintf("genres[]=-%d", id))
		}
	}

	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			params = append(params, "statuses[]="+s)
		}
	} else if f.Status != "" {
		s := f.Status
		if mapped, ok := statusSynonyms[s]; ok {
			s = mapped
		}
		params = append(params, "statuses[]="+s)
	}

	for _, d := range f.Demographics {
		params = append(params, fmt.Sprintf("demographics[]=%d", d))
	}

	if f.YearFrom > 0 {
		params = append(params, fmt.Sprintf("year_from=%d", f.YearFrom))
	}
	if f.YearTo > 0 {
		params = append(params, fmt.Sprintf("year_to=%d", f.YearTo))
	}

	return strings.Join(params, "&")
}
