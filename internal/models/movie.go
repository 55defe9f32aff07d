package models

// Movie represents a cached movie record. The ID is the TMDB id and acts
// as the primary key: inserting an existing id overwrites the prior row.
type Movie struct {
	ID           int     `boltholdKey:"ID" json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"posterPath"`
	BackdropPath *string `json:"backdropPath"`
	ReleaseDate  string  `json:"releaseDate"` // YYYY-MM-DD
	VoteAverage  float64 `json:"voteAverage"`
	VoteCount    int     `json:"voteCount"`

	IsFavorite bool  `boltholdIndex:"IsFavorite" json:"isFavorite"`
	AddedAt    int64 `json:"addedAt"` // epoch milliseconds, set at insert time
}
