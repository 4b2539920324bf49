package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// NoRating is the sentinel stored when the source item carries no score.
const NoRating Rating = "no rating"

// Rating holds a Douban score as it arrived from the source: usually a decimal,
// sometimes a sentinel string. The raw text is preserved verbatim; Value is the
// single coercion point to a number.
type Rating string

// Value coerces the rating to a float64. Any non-numeric text (including the
// NoRating sentinel and the empty string) coerces to 0.
func (r Rating) Value() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(r)), 64)
	if err != nil {
		return 0
	}
	return v
}

// FromScore builds a Rating from a numeric score, mapping a missing score
// (zero with no vote data upstream) to the NoRating sentinel.
func FromScore(score float64, hasScore bool) Rating {
	if !hasScore {
		return NoRating
	}
	return Rating(strconv.FormatFloat(score, 'f', -1, 64))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (r *Rating) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*r = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("rating: %w", err)
		}
		*r = Rating(s)
		return nil
	}
	// Bare number: keep its textual form.
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return fmt.Errorf("rating: invalid literal %q", text)
	}
	*r = Rating(text)
	return nil
}

// MarshalJSON emits the raw text so sentinels survive a round trip.
func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// MarshalBSONValue stores the rating as a BSON string.
func (r Rating) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(r))
}

// UnmarshalBSONValue accepts string or numeric BSON values, so documents
// written with a loosely typed rating field still load.
func (r *Rating) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*r = Rating(raw.StringValue())
	case bsontype.Double:
		*r = Rating(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Int32:
		*r = Rating(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*r = Rating(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Null:
		*r = ""
	default:
		return fmt.Errorf("rating: unsupported BSON type %s", t)
	}
	return nil
}
