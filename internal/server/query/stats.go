package query

import (
	"sort"
	"strconv"
)

// Stat is one histogram entry in the shape the dashboard charts consume.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// rateBuckets are the fixed rating intervals, in output order. Every bucket is
// always present, even at zero.
var rateBuckets = []string{"0-5", "5-6", "6-7", "7-8", "8-9", "9-10"}

// RateStats counts every item into exactly one rating bucket. Non-numeric
// ratings were already coerced to 0 by the projection and land in "0-5".
func RateStats(items []TVItem) []Stat {
	counts := make(map[string]int, len(rateBuckets))
	for _, it := range items {
		counts[rateBucket(it.Rate)]++
	}

	stats := make([]Stat, 0, len(rateBuckets))
	for _, name := range rateBuckets {
		stats = append(stats, Stat{Name: name, Value: counts[name]})
	}
	return stats
}

func rateBucket(rate float64) string {
	switch {
	case rate < 5:
		return "0-5"
	case rate < 6:
		return "5-6"
	case rate < 7:
		return "6-7"
	case rate < 8:
		return "7-8"
	case rate < 9:
		return "8-9"
	default:
		return "9-10"
	}
}

// CategoryStats counts one increment per genre per item, so a show contributes
// to every category it belongs to. Entries appear in first-seen order.
func CategoryStats(items []TVItem) []Stat {
	return countKeys(items, func(it TVItem) []string { return it.Category })
}

// AreaStats counts one increment per item keyed by its area. The empty string
// is a valid key (the source never populates area in practice).
func AreaStats(items []TVItem) []Stat {
	return countKeys(items, func(it TVItem) []string { return []string{it.Area} })
}

// YearStats counts one increment per item keyed by its year, skipping items
// whose year could not be parsed. Output is ordered by ascending year.
func YearStats(items []TVItem) []Stat {
	counts := make(map[int]int)
	for _, it := range items {
		if it.Year > 0 {
			counts[it.Year]++
		}
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	stats := make([]Stat, 0, len(years))
	for _, y := range years {
		stats = append(stats, Stat{Name: strconv.Itoa(y), Value: counts[y]})
	}
	return stats
}

func countKeys(items []TVItem, keysOf func(TVItem) []string) []Stat {
	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		for _, key := range keysOf(it) {
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	stats := make([]Stat, 0, len(order))
	for _, key := range order {
		stats = append(stats, Stat{Name: key, Value: counts[key]})
	}
	return stats
}
