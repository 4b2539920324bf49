package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestRatingValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   Rating
		want float64
	}{
		{"8.5", 8.5},
		{"9", 9},
		{" 7.2 ", 7.2},
		{"0", 0},
		{NoRating, 0},
		{"", 0},
		{"N/A", 0},
	}
	for _, tt := range tests {
		if got := tt.in.Value(); got != tt.want {
			t.Fatalf("Rating(%q).Value() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromScore(t *testing.T) {
	t.Parallel()
	if got := FromScore(8.5, true); got != "8.5" {
		t.Fatalf("FromScore(8.5) = %q, want 8.5", got)
	}
	if got := FromScore(0, false); got != NoRating {
		t.Fatalf("FromScore(missing) = %q, want sentinel", got)
	}
	if FromScore(0, false).Value() != 0 {
		t.Fatalf("sentinel should coerce to 0")
	}
}

func TestRatingUnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want Rating
	}{
		{"number", `{"rating": 8.5}`, "8.5"},
		{"integer", `{"rating": 9}`, "9"},
		{"string", `{"rating": "no rating"}`, NoRating},
		{"null", `{"rating": null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Rating Rating `json:"rating"`
			}
			if err := json.Unmarshal([]byte(tt.in), &doc); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if doc.Rating != tt.want {
				t.Fatalf("Rating = %q, want %q", doc.Rating, tt.want)
			}
		})
	}

	var doc struct {
		Rating Rating `json:"rating"`
	}
	if err := json.Unmarshal([]byte(`{"rating": true}`), &doc); err == nil {
		t.Fatalf("expected error for non-numeric, non-string literal")
	}
}

func TestRatingBSONRoundTrip(t *testing.T) {
	t.Parallel()
	// Documents written with a loosely typed rating field (double, int or
	// string) must all load back into the string-backed Rating.
	tests := []struct {
		name string
		doc  bson.M
		want Rating
	}{
		{"double", bson.M{"rating": 8.5}, "8.5"},
		{"int32", bson.M{"rating": int32(7)}, "7"},
		{"int64", bson.M{"rating": int64(9)}, "9"},
		{"string", bson.M{"rating": "no rating"}, NoRating},
		{"null", bson.M{"rating": nil}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("marshal fixture: %v", err)
			}
			var show TVShow
			if err := bson.Unmarshal(raw, &show); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if show.Rating != tt.want {
				t.Fatalf("Rating = %q, want %q", show.Rating, tt.want)
			}
		})
	}
}

func TestRatingBSONMarshalsAsString(t *testing.T) {
	t.Parallel()
	raw, err := bson.Marshal(TVShow{Title: "x", Rating: "8.5"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, ok := doc["rating"].(string); !ok || got != "8.5" {
		t.Fatalf("stored rating = %#v, want string \"8.5\"", doc["rating"])
	}
}
