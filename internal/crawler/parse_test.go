package crawler

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/DavidHLP/DoubanTV-Insight/internal/models"
)

func TestParseCardSubtitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		in        string
		year      string
		genres    []string
		directors []string
		actors    []string
	}{
		{
			name:      "full subtitle",
			in:        "2023 美国 / 喜剧 剧情 / 导演 比尔·劳伦斯 / 杰森·席格尔 哈里森·福特",
			year:      "2023",
			genres:    []string{"喜剧", "剧情"},
			directors: []string{"比尔·劳伦斯"},
			actors:    []string{"杰森·席格尔", "哈里森·福特"},
		},
		{
			name:      "multiple directors after the label token",
			in:        "2019 英国 / 剧情 / 导演 甲 乙 / 丙 丁",
			year:      "2019",
			genres:    []string{"剧情"},
			directors: []string{"甲", "乙"},
			actors:    []string{"丙", "丁"},
		},
		{
			name:   "year and genres only",
			in:     "2020 / 剧情",
			year:   "2020",
			genres: []string{"剧情"},
		},
		{
			name: "empty subtitle falls back to unknown year",
			in:   "",
			year: "unknown",
		},
		{
			name: "whitespace only",
			in:   "   ",
			year: "unknown",
		},
		{
			name:   "director part with a single token yields no directors",
			in:     "2021 / 犯罪 / 导演",
			year:   "2021",
			genres: []string{"犯罪"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, genres, directors, actors := parseCardSubtitle(tt.in)
			if year != tt.year {
				t.Fatalf("year = %q, want %q", year, tt.year)
			}
			if !reflect.DeepEqual(genres, tt.genres) {
				t.Fatalf("genres = %v, want %v", genres, tt.genres)
			}
			if !reflect.DeepEqual(directors, tt.directors) {
				t.Fatalf("directors = %v, want %v", directors, tt.directors)
			}
			if !reflect.DeepEqual(actors, tt.actors) {
				t.Fatalf("actors = %v, want %v", actors, tt.actors)
			}
		})
	}
}

func TestToShow(t *testing.T) {
	t.Parallel()
	payload := `{
		"items": [
			{
				"id": "35651341",
				"title": "Shrinking",
				"card_subtitle": "2023 美国 / 喜剧 / 导演 比尔·劳伦斯 / 杰森·席格尔 哈里森·福特",
				"pic": {"large": "https://img.example.com/l.jpg", "normal": "https://img.example.com/n.jpg"},
				"rating": {"value": 8.6}
			},
			{
				"id": "",
				"title": "Unrated Pilot",
				"card_subtitle": ""
			}
		]
	}`

	var page recommendPayload
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}

	got := page.Items[0].toShow()
	want := models.TVShow{
		Title:     "Shrinking",
		Rating:    "8.6",
		Year:      "2023",
		Genres:    []string{"喜剧"},
		Directors: []string{"比尔·劳伦斯"},
		Actors:    []string{"杰森·席格尔", "哈里森·福特"},
		Intro:     "2023 美国 / 喜剧 / 导演 比尔·劳伦斯 / 杰森·席格尔 哈里森·福特",
		Image:     "https://img.example.com/l.jpg",
		DetailURL: "https://movie.douban.com/subject/35651341/",
		ID:        "35651341",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("toShow = %+v, want %+v", got, want)
	}

	bare := page.Items[1].toShow()
	if bare.Rating != models.NoRating {
		t.Fatalf("Rating = %q, want sentinel for missing rating", bare.Rating)
	}
	if bare.DetailURL != "" {
		t.Fatalf("DetailURL = %q, want empty for missing id", bare.DetailURL)
	}
	if bare.Image != "" {
		t.Fatalf("Image = %q, want empty for missing pic", bare.Image)
	}
	if bare.Year != "unknown" {
		t.Fatalf("Year = %q, want unknown", bare.Year)
	}
}

func TestSubjectURL(t *testing.T) {
	t.Parallel()
	if got := subjectURL("123"); got != "https://movie.douban.com/subject/123/" {
		t.Fatalf("subjectURL = %q", got)
	}
	if got := subjectURL(""); got != "" {
		t.Fatalf("subjectURL(\"\") = %q, want empty", got)
	}
}
