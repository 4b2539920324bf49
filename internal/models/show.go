package models

// TVShow represents one normalized entry of the Douban hot-TV listing as it is
// persisted inside a snapshot document. Fields mirror what the crawler extracts
// from the recommend API payload.
type TVShow struct {
	Title     string   `bson:"title" json:"title"`
	Rating    Rating   `bson:"rating" json:"rating"`
	Year      string   `bson:"year" json:"year"`
	Genres    []string `bson:"genres" json:"genres"`
	Directors []string `bson:"directors" json:"directors"`
	Actors    []string `bson:"actors" json:"actors"`
	Intro     string   `bson:"intro" json:"intro"`
	Image     string   `bson:"image" json:"image"`
	DetailURL string   `bson:"detail_url" json:"detail_url"`
	ID        string   `bson:"id" json:"id"`

	// Country is read by the query projection as the "area" field but is never
	// written by the crawler (the recommend payload carries no country field),
	// so it stays empty in practice.
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}
