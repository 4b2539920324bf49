package query

import (
	"slices"
	"sort"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10

	SortByRate  = "rate"
	SortByYear  = "year"
	SortByTitle = "title"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Params are the optional filters plus the sort and pagination settings of a
// listing request. Pointer fields distinguish "absent" from zero values.
type Params struct {
	Keyword  string
	Category string
	Area     string
	Year     *int
	MinRate  *float64
	MaxRate  *float64

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Result is one page of the filtered, sorted projection. Total always counts
// the full filtered set, independent of the requested page.
type Result struct {
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Items    []TVItem `json:"items"`
}

// Apply runs the full pipeline over the projected items: conjunctive filters,
// a stable sort of the whole filtered set, then a 1-indexed page slice.
func (p Params) Apply(items []TVItem) Result {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.SortBy == "" {
		p.SortBy = SortByRate
	}
	if p.SortOrder == "" {
		p.SortOrder = OrderDesc
	}

	filtered := make([]TVItem, 0, len(items))
	for _, it := range items {
		if p.matches(it) {
			filtered = append(filtered, it)
		}
	}

	sortItems(filtered, p.SortBy, p.SortOrder)

	total := len(filtered)
	start := (p.Page - 1) * p.PageSize
	page := []TVItem{}
	if start < total {
		end := start + p.PageSize
		if end > total {
			end = total
		}
		page = filtered[start:end]
	}

	return Result{
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Items:    page,
	}
}

// matches applies every supplied predicate; absent predicates pass.
func (p Params) matches(it TVItem) bool {
	if p.Keyword != "" && !strings.Contains(strings.ToLower(it.Title), strings.ToLower(p.Keyword)) {
		return false
	}
	if p.Category != "" && !slices.Contains(it.Category, p.Category) {
		return false
	}
	if p.Area != "" && it.Area != p.Area {
		return false
	}
	if p.Year != nil && it.Year != *p.Year {
		return false
	}
	if p.MinRate != nil && it.Rate < *p.MinRate {
		return false
	}
	if p.MaxRate != nil && it.Rate > *p.MaxRate {
		return false
	}
	return true
}

// sortItems sorts in place, stably, so ties keep their snapshot order in both
// directions. Unknown sort keys fall back to rate.
func sortItems(items []TVItem, sortBy, sortOrder string) {
	var less func(a, b TVItem) bool
	switch sortBy {
	case SortByYear:
		less = func(a, b TVItem) bool { return a.Year < b.Year }
	case SortByTitle:
		less = func(a, b TVItem) bool { return a.Title < b.Title }
	default:
		less = func(a, b TVItem) bool { return a.Rate < b.Rate }
	}

	desc := strings.EqualFold(sortOrder, OrderDesc)
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// FindByURL scans the projection for an exact detail-URL match; first match
// wins. The miss is a normal outcome, not an error.
func FindByURL(items []TVItem, url string) (TVItem, bool) {
	for _, it := range items {
		if it.URL == url {
			return it, true
		}
	}
	return TVItem{}, false
}
