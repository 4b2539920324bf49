package crawler

import (
	"fmt"
	"strings"

	"github.com/DavidHLP/DoubanTV-Insight/internal/models"
)

const unknownYear = "unknown"

// recommendPayload mirrors the slice of the recommend API response we consume.
type recommendPayload struct {
	Items []recommendItem `json:"items"`
}

type recommendItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CardSubtitle string `json:"card_subtitle"`
	Pic          *struct {
		Large  string `json:"large"`
		Normal string `json:"normal"`
	} `json:"pic"`
	Rating *struct {
		Value float64 `json:"value"`
	} `json:"rating"`
}

// toShow normalizes one raw listing entry. Everything beyond title/rating/image
// comes from the card subtitle, a " / "-separated line of year, genres,
// directors and actors.
func (it recommendItem) toShow() models.TVShow {
	year, genres, directors, actors := parseCardSubtitle(it.CardSubtitle)

	show := models.TVShow{
		Title:     it.Title,
		Rating:    models.NoRating,
		Year:      year,
		Genres:    genres,
		Directors: directors,
		Actors:    actors,
		Intro:     it.CardSubtitle,
		DetailURL: subjectURL(it.ID),
		ID:        it.ID,
	}
	if it.Rating != nil {
		show.Rating = models.FromScore(it.Rating.Value, true)
	}
	if it.Pic != nil {
		show.Image = it.Pic.Large
	}
	return show
}

// parseCardSubtitle splits a subtitle like
// "2023 美国 / 喜剧 剧情 / 导演 比尔·劳伦斯 / 杰森·席格尔 哈里森·福特"
// into its parts. The year is the first token of the first part; the director
// part starts with a label token that is dropped; the actor part is taken
// whole. Names are space-separated tokens, so multi-word Latin names split.
func parseCardSubtitle(subtitle string) (year string, genres, directors, actors []string) {
	year = unknownYear

	if strings.TrimSpace(subtitle) == "" {
		return year, nil, nil, nil
	}

	parts := strings.Split(subtitle, " / ")

	if fields := strings.Fields(parts[0]); len(fields) > 0 {
		year = fields[0]
	}
	if len(parts) > 1 {
		genres = strings.Fields(parts[1])
	}
	if len(parts) > 2 {
		if fields := strings.Fields(parts[2]); len(fields) > 1 {
			directors = fields[1:]
		}
	}
	if len(parts) > 3 {
		actors = strings.Fields(parts[3])
	}
	return year, genres, directors, actors
}

// subjectURL builds the canonical detail page URL for a subject id.
func subjectURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf("https://movie.douban.com/subject/%s/", id)
}
