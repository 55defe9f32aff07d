package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/outracoisa/filmoteca/internal/controllers"
	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/outracoisa/filmoteca/internal/services/tmdb"
	"github.com/outracoisa/filmoteca/internal/state"
	"github.com/sirupsen/logrus"
)

// MoviesHandler exposes the movie list state and mutations over HTTP
type MoviesHandler struct {
	movieState *state.MovieState
	movieCtrl  *controllers.MovieController
	logger     *logrus.Logger
}

// NewMoviesHandler creates a new movies handler
func NewMoviesHandler(movieState *state.MovieState, movieCtrl *controllers.MovieController, logger *logrus.Logger) *MoviesHandler {
	return &MoviesHandler{
		movieState: movieState,
		movieCtrl:  movieCtrl,
		logger:     logger,
	}
}

// movieItem decorates a cached movie with its full image URLs
type movieItem struct {
	*models.Movie
	PosterURL   string `json:"posterUrl"`
	BackdropURL string `json:"backdropUrl"`
}

type movieListResponse struct {
	Loading           bool        `json:"loading"`
	Movies            []movieItem `json:"movies"`
	Err               string      `json:"error,omitempty"`
	Refreshing        bool        `json:"isRefreshing"`
	ShowFavoritesOnly bool        `json:"showFavoritesOnly"`
}

func toListResponse(snap state.MovieSnapshot) movieListResponse {
	items := make([]movieItem, 0, len(snap.Movies))
	for _, movie := range snap.Movies {
		items = append(items, movieItem{
			Movie:       movie,
			PosterURL:   tmdb.PosterURL(movie.PosterPath),
			BackdropURL: tmdb.BackdropURL(movie.BackdropPath),
		})
	}

	return movieListResponse{
		Loading:           snap.Loading,
		Movies:            items,
		Err:               snap.Err,
		Refreshing:        snap.Refreshing,
		ShowFavoritesOnly: snap.ShowFavoritesOnly,
	}
}

// List handles GET /api/movies
func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toListResponse(h.movieState.Snapshot()))
}

// Refresh handles POST /api/movies/refresh
func (h *MoviesHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		raw = string(models.CategoryPopular)
	}

	category, err := models.ParseCategory(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.movieState.Refresh(r.Context(), category)
	writeJSON(w, http.StatusOK, toListResponse(h.movieState.Snapshot()))
}

// ToggleFilter handles POST /api/movies/filter
func (h *MoviesHandler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	h.movieState.ToggleShowFavorites()
	writeJSON(w, http.StatusOK, toListResponse(h.movieState.Snapshot()))
}

// ToggleFavorite handles POST /api/movies/{id}/favorite
func (h *MoviesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	movie, err := h.movieCtrl.ToggleFavorite(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Movie not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to toggle favorite")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, movieItem{
		Movie:       movie,
		PosterURL:   tmdb.PosterURL(movie.PosterPath),
		BackdropURL: tmdb.BackdropURL(movie.BackdropPath),
	})
}

// Delete handles DELETE /api/movies/{id}
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	if err := h.movieCtrl.DeleteMovie(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Movie not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to delete movie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
