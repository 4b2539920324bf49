// Package query turns the latest stored snapshot into the read-shaped views
// served by the API: a projected item list, filtered/sorted/paginated slices
// of it, and aggregate histograms over it.
package query

import (
	"strconv"
	"strings"

	"github.com/DavidHLP/DoubanTV-Insight/internal/models"
)

// TVItem is the query-friendly projection of one stored show. It is built
// fresh on every read of the latest snapshot and has no persistent identity;
// the detail URL doubles as its lookup key.
type TVItem struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Cover       string   `json:"cover"`
	Rate        float64  `json:"rate"`
	Description string   `json:"description"`
	Category    []string `json:"category"`
	Area        string   `json:"area"`
	Directors   []string `json:"directors"`
	Actors      []string `json:"actors"`
	Year        int      `json:"year"`
	UpdateTime  string   `json:"update_time"`
}

// Project maps every show in the snapshot to its projection. A nil or empty
// snapshot yields an empty slice; no data is a valid state.
func Project(snap *models.Snapshot) []TVItem {
	if snap == nil || len(snap.Items) == 0 {
		return []TVItem{}
	}

	updated := snap.CreatedAt.Format("2006-01-02")
	items := make([]TVItem, 0, len(snap.Items))
	for _, show := range snap.Items {
		items = append(items, projectShow(show, updated))
	}
	return items
}

func projectShow(show models.TVShow, updated string) TVItem {
	return TVItem{
		Title:       show.Title,
		URL:         show.DetailURL,
		Cover:       show.Image,
		Rate:        show.Rating.Value(),
		Description: show.Intro,
		Category:    orEmpty(show.Genres),
		Area:        show.Country,
		Directors:   orEmpty(show.Directors),
		Actors:      orEmpty(show.Actors),
		Year:        yearOf(show.Year),
		UpdateTime:  updated,
	}
}

// yearOf coerces the stored year text to an integer, 0 when unparseable.
func yearOf(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 0 {
		return 0
	}
	return y
}

// orEmpty keeps list fields as [] rather than null in JSON output.
func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
