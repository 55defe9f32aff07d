package state

import (
	"context"
	"sync"

	"github.com/outracoisa/filmoteca/internal/controllers"
	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/sirupsen/logrus"
)

// MovieSnapshot is the observable movie list UI state
type MovieSnapshot struct {
	Loading           bool            `json:"loading"`
	Movies            []*models.Movie `json:"movies"`
	Err               string          `json:"error,omitempty"`
	Refreshing        bool            `json:"isRefreshing"`
	ShowFavoritesOnly bool            `json:"showFavoritesOnly"`
}

// MovieState holds the movie list state. It keeps exactly one live read
// subscription open against the store: all movies by default, favorites
// when ShowFavoritesOnly is set. The list updates arrive through that
// subscription, not through refresh return values.
type MovieState struct {
	mu       sync.Mutex
	snapshot MovieSnapshot

	movies *controllers.MovieController
	logger *logrus.Logger

	root      context.Context
	stop      context.CancelFunc
	cancelSub context.CancelFunc
	subGen    int

	subMu   sync.Mutex
	subs    map[int]chan MovieSnapshot
	nextSub int
}

// NewMovieState creates the movie state holder, opens the all-movies
// subscription and kicks off an initial popular refresh.
func NewMovieState(ctx context.Context, movies *controllers.MovieController, logger *logrus.Logger) *MovieState {
	root, stop := context.WithCancel(ctx)
	s := &MovieState{
		movies: movies,
		logger: logger,
		root:   root,
		stop:   stop,
		subs:   make(map[int]chan MovieSnapshot),
	}

	s.resubscribe()

	go s.Refresh(root, models.CategoryPopular)

	return s
}

// Close tears down the live subscription and all state subscribers
func (s *MovieState) Close() {
	s.stop()
}

// Snapshot returns the current state
func (s *MovieState) Snapshot() MovieSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe returns a channel that receives every state change until ctx is
// cancelled. A slow consumer only sees the latest state.
func (s *MovieState) Subscribe(ctx context.Context) <-chan MovieSnapshot {
	ch := make(chan MovieSnapshot, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.root.Done():
		}
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}()

	return ch
}

func (s *MovieState) publish(snap MovieSnapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *MovieState) update(mutate func(*MovieSnapshot)) {
	s.mu.Lock()
	mutate(&s.snapshot)
	snap := s.snapshot
	s.mu.Unlock()
	s.publish(snap)
}

// resubscribe replaces the current live read subscription with the one
// matching ShowFavoritesOnly.
func (s *MovieState) resubscribe() {
	s.mu.Lock()
	if s.cancelSub != nil {
		s.cancelSub()
	}
	subCtx, cancel := context.WithCancel(s.root)
	s.cancelSub = cancel
	s.subGen++
	gen := s.subGen
	favoritesOnly := s.snapshot.ShowFavoritesOnly
	s.snapshot.Loading = true
	snap := s.snapshot
	s.mu.Unlock()
	s.publish(snap)

	var stream <-chan []*models.Movie
	if favoritesOnly {
		stream = s.movies.FavoriteMovies(subCtx)
	} else {
		stream = s.movies.AllMovies(subCtx)
	}

	go func() {
		for list := range stream {
			s.applyList(gen, list)
		}
	}()
}

// applyList installs a list emitted by a live subscription, dropping
// emissions that were already in flight when the subscription was replaced.
func (s *MovieState) applyList(gen int, list []*models.Movie) {
	s.mu.Lock()
	if gen != s.subGen {
		s.mu.Unlock()
		return
	}
	s.snapshot.Loading = false
	s.snapshot.Movies = list
	snap := s.snapshot
	s.mu.Unlock()
	s.publish(snap)
}

// ToggleShowFavorites flips the favorites filter and swaps the live
// subscription accordingly.
func (s *MovieState) ToggleShowFavorites() {
	s.mu.Lock()
	s.snapshot.ShowFavoritesOnly = !s.snapshot.ShowFavoritesOnly
	s.mu.Unlock()
	s.resubscribe()
}

// Refresh refreshes one listing bucket. The visible list updates
// asynchronously through the live subscription; only Refreshing and Err
// are driven from here.
func (s *MovieState) Refresh(ctx context.Context, category models.Category) {
	s.update(func(snap *MovieSnapshot) {
		snap.Refreshing = true
		snap.Err = ""
	})

	_, err := s.movies.RefreshCategory(ctx, category)
	if err != nil {
		s.logger.WithError(err).WithField("category", category).Error("Refresh failed")
		s.update(func(snap *MovieSnapshot) {
			snap.Refreshing = false
			snap.Err = err.Error()
		})
		return
	}

	s.update(func(snap *MovieSnapshot) {
		snap.Refreshing = false
		snap.Err = ""
	})
}

// ToggleFavorite flips the favorite flag on a cached movie
func (s *MovieState) ToggleFavorite(id int) {
	if _, err := s.movies.ToggleFavorite(id); err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Warn("Failed to toggle favorite")
		s.update(func(snap *MovieSnapshot) {
			snap.Err = err.Error()
		})
	}
}

// DeleteMovie removes a cached movie
func (s *MovieState) DeleteMovie(id int) {
	if err := s.movies.DeleteMovie(id); err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Warn("Failed to delete movie")
		s.update(func(snap *MovieSnapshot) {
			snap.Err = err.Error()
		})
	}
}

// ClearError dismisses the current error indicator
func (s *MovieState) ClearError() {
	s.update(func(snap *MovieSnapshot) {
		snap.Err = ""
	})
}
