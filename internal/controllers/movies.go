package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/outracoisa/filmoteca/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// CatalogClient is the slice of the TMDB client the controller needs
type CatalogClient interface {
	FetchCategory(ctx context.Context, category models.Category, page int) ([]tmdb.Entry, error)
}

// MovieController orchestrates the local movie cache: it refreshes it from
// the remote catalog and applies user mutations against the store.
type MovieController struct {
	db      *models.Database
	catalog CatalogClient
	logger  *logrus.Logger
}

// NewMovieController creates a new movie controller
func NewMovieController(db *models.Database, catalog CatalogClient, logger *logrus.Logger) *MovieController {
	return &MovieController{
		db:      db,
		catalog: catalog,
		logger:  logger,
	}
}

// RefreshCategory fetches one listing bucket and replaces the non-favorite
// cache with it. On fetch failure the cache is left untouched. The purge is
// not scoped to the fetched category, and a fetched id colliding with a
// favorite row overwrites it and clears the flag; both behaviors are
// carried over from the source product unchanged.
func (c *MovieController) RefreshCategory(ctx context.Context, category models.Category) ([]*models.Movie, error) {
	entries, err := c.catalog.FetchCategory(ctx, category, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s movies: %w", category, err)
	}

	now := time.Now().UnixMilli()
	movies := make([]*models.Movie, 0, len(entries))
	for _, entry := range entries {
		movies = append(movies, &models.Movie{
			ID:           entry.ID,
			Title:        entry.Title,
			Overview:     entry.Overview,
			PosterPath:   entry.PosterPath,
			BackdropPath: entry.BackdropPath,
			ReleaseDate:  entry.ReleaseDate,
			VoteAverage:  entry.VoteAverage,
			VoteCount:    entry.VoteCount,
			IsFavorite:   false,
			AddedAt:      now,
		})
	}

	if err := c.db.ReplaceNonFavorites(movies); err != nil {
		return nil, fmt.Errorf("failed to replace cached movies: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"category": category,
		"count":    len(movies),
	}).Info("Movie cache refreshed")

	return movies, nil
}

// ToggleFavorite flips the favorite flag on the stored row for the id
func (c *MovieController) ToggleFavorite(id int) (*models.Movie, error) {
	movie, err := c.db.ToggleFavorite(id)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"favorite": movie.IsFavorite,
	}).Debug("Favorite toggled")

	return movie, nil
}

// DeleteMovie removes the cached row for the id
func (c *MovieController) DeleteMovie(id int) error {
	return c.db.DeleteMovie(id)
}

// GetMovieByID retrieves a cached movie by id
func (c *MovieController) GetMovieByID(id int) (*models.Movie, error) {
	return c.db.GetMovieByID(id)
}

// AllMovies returns the live all-movies subscription (rating descending)
func (c *MovieController) AllMovies(ctx context.Context) <-chan []*models.Movie {
	return c.db.WatchAllMovies(ctx)
}

// FavoriteMovies returns the live favorites subscription (newest first)
func (c *MovieController) FavoriteMovies(ctx context.Context) <-chan []*models.Movie {
	return c.db.WatchFavoriteMovies(ctx)
}
