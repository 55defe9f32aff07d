package models

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store. All writes are serialized through a
// single mutex so a favorite toggle can never interleave with a category
// refresh, and every movie-table write signals the live read subscriptions.
type Database struct {
	store *bolthold.Store

	mu sync.Mutex // serializes writes

	watchMu   sync.Mutex
	watchers  map[int]chan struct{}
	nextWatch int
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{
		store:    store,
		watchers: make(map[int]chan struct{}),
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Movie operations

// UpsertMovie inserts a movie, overwriting any existing row with the same
// id. AddedAt is reset on every insert, replacement included.
func (db *Database) UpsertMovie(movie *Movie) error {
	db.mu.Lock()
	movie.AddedAt = time.Now().UnixMilli()
	err := db.store.Upsert(movie.ID, movie)
	db.mu.Unlock()
	if err != nil {
		return err
	}

	db.notifyMovieWatchers()
	return nil
}

// ReplaceNonFavorites deletes every non-favorite row and inserts the given
// movies with replace-on-conflict semantics, all in one transaction. A
// favorite row colliding with an incoming id is overwritten wholesale.
func (db *Database) ReplaceNonFavorites(movies []*Movie) error {
	db.mu.Lock()
	err := db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		if err := db.store.TxDeleteMatching(tx, &Movie{}, bolthold.Where("IsFavorite").Eq(false)); err != nil {
			return fmt.Errorf("failed to purge non-favorites: %w", err)
		}
		for _, movie := range movies {
			if err := db.store.TxUpsert(tx, movie.ID, movie); err != nil {
				return fmt.Errorf("failed to insert movie %d: %w", movie.ID, err)
			}
		}
		return nil
	})
	db.mu.Unlock()
	if err != nil {
		return err
	}

	db.notifyMovieWatchers()
	return nil
}

// ToggleFavorite flips the favorite flag on the stored row matching the id.
// The flip is applied against the persisted record, not a caller's copy, so
// concurrent toggles cannot lose updates.
func (db *Database) ToggleFavorite(id int) (*Movie, error) {
	db.mu.Lock()
	movie, err := db.toggleFavoriteLocked(id)
	db.mu.Unlock()
	if err != nil {
		return nil, err
	}

	db.notifyMovieWatchers()
	return movie, nil
}

func (db *Database) toggleFavoriteLocked(id int) (*Movie, error) {
	var movie Movie
	if err := db.store.Get(id, &movie); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	movie.IsFavorite = !movie.IsFavorite
	if err := db.store.Update(id, &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

// GetMovieByID retrieves a movie by its TMDB id
func (db *Database) GetMovieByID(id int) (*Movie, error) {
	var movie Movie
	if err := db.store.Get(id, &movie); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

// GetAllMovies retrieves all cached movies ordered by rating descending
func (db *Database) GetAllMovies() ([]*Movie, error) {
	var movies []*Movie
	if err := db.store.Find(&movies, nil); err != nil {
		return nil, err
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].VoteAverage > movies[j].VoteAverage
	})
	return movies, nil
}

// GetFavoriteMovies retrieves favorited movies ordered by most recently added
func (db *Database) GetFavoriteMovies() ([]*Movie, error) {
	var movies []*Movie
	if err := db.store.Find(&movies, bolthold.Where("IsFavorite").Eq(true)); err != nil {
		return nil, err
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].AddedAt > movies[j].AddedAt
	})
	return movies, nil
}

// DeleteMovie deletes a movie by id
func (db *Database) DeleteMovie(id int) error {
	db.mu.Lock()
	err := db.store.Delete(id, &Movie{})
	db.mu.Unlock()
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	db.notifyMovieWatchers()
	return nil
}

// Live read subscriptions

// WatchAllMovies returns a channel that emits the current movie list
// (rating descending) immediately and again after every movie-table write.
// The subscription ends when ctx is cancelled.
func (db *Database) WatchAllMovies(ctx context.Context) <-chan []*Movie {
	return db.watchMovies(ctx, db.GetAllMovies)
}

// WatchFavoriteMovies is WatchAllMovies restricted to favorited rows,
// ordered by most recently added.
func (db *Database) WatchFavoriteMovies(ctx context.Context) <-chan []*Movie {
	return db.watchMovies(ctx, db.GetFavoriteMovies)
}

func (db *Database) watchMovies(ctx context.Context, query func() ([]*Movie, error)) <-chan []*Movie {
	out := make(chan []*Movie)

	// Capacity 1 so change signals coalesce: a slow consumer re-runs the
	// query once and sees the latest state, not every intermediate write.
	signal := make(chan struct{}, 1)
	id := db.addWatcher(signal)

	go func() {
		defer close(out)
		defer db.removeWatcher(id)

		for {
			movies, err := query()
			if err == nil {
				select {
				case out <- movies:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (db *Database) addWatcher(signal chan struct{}) int {
	db.watchMu.Lock()
	defer db.watchMu.Unlock()

	id := db.nextWatch
	db.nextWatch++
	db.watchers[id] = signal
	return id
}

func (db *Database) removeWatcher(id int) {
	db.watchMu.Lock()
	defer db.watchMu.Unlock()
	delete(db.watchers, id)
}

func (db *Database) notifyMovieWatchers() {
	db.watchMu.Lock()
	defer db.watchMu.Unlock()

	for _, signal := range db.watchers {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

// Account operations

// CreateAccount creates a new account with an auto-assigned id
func (db *Database) CreateAccount(account *Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.store.Insert(bolthold.NextSequence(), account)
}

// GetAccountByID retrieves an account by id
func (db *Database) GetAccountByID(id uint64) (*Account, error) {
	var account Account
	if err := db.store.Get(id, &account); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByUsername retrieves an account by its unique username
func (db *Database) GetAccountByUsername(username string) (*Account, error) {
	var account Account
	err := db.store.FindOne(&account, bolthold.Where("Username").Eq(username))
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByCredentials retrieves the account matching username AND
// password exactly. Comparison is plaintext on purpose, see Account.
func (db *Database) GetAccountByCredentials(username, password string) (*Account, error) {
	var account Account
	err := db.store.FindOne(&account, bolthold.Where("Username").Eq(username).And("Password").Eq(password))
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetAllAccounts retrieves all registered accounts
func (db *Database) GetAllAccounts() ([]*Account, error) {
	var accounts []*Account
	err := db.store.Find(&accounts, nil)
	return accounts, err
}
