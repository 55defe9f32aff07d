package models

import "fmt"

// Category represents one of the fixed TMDB listing buckets
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryNowPlaying Category = "now_playing"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
)

// Categories lists every supported listing bucket
var Categories = []Category{
	CategoryPopular,
	CategoryNowPlaying,
	CategoryTopRated,
	CategoryUpcoming,
}

// ParseCategory validates a raw category string
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}
