package tmdb

const (
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"
	placeholderURL = "https://via.placeholder.com/500x750?text=Sem+Imagem"
)

// PosterURL builds the full poster image URL for a poster path. An absent
// path falls back to the placeholder.
func PosterURL(path *string) string {
	if path == nil || *path == "" {
		return placeholderURL
	}
	return imageBaseURL + *path
}

// BackdropURL builds the full backdrop image URL for a backdrop path
func BackdropURL(path *string) string {
	if path == nil || *path == "" {
		return placeholderURL
	}
	return imageBaseURL + *path
}
