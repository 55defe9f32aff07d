package state

import (
	"context"
	"sync"

	"github.com/outracoisa/filmoteca/internal/controllers"
	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/sirupsen/logrus"
)

// AuthSnapshot is the observable authentication UI state
type AuthSnapshot struct {
	Loading     bool            `json:"loading"`
	CurrentUser *models.Account `json:"currentUser"`
	Err         string          `json:"error,omitempty"`
	LoggedIn    bool            `json:"isLoggedIn"`
}

// AuthState holds the authentication state and translates user intents
// into account controller calls. Transitions: idle -> loading ->
// (authenticated | errored).
type AuthState struct {
	mu       sync.Mutex
	snapshot AuthSnapshot

	accounts *controllers.AccountController
	logger   *logrus.Logger

	subMu   sync.Mutex
	subs    map[int]chan AuthSnapshot
	nextSub int
}

// NewAuthState creates a new authentication state holder
func NewAuthState(accounts *controllers.AccountController, logger *logrus.Logger) *AuthState {
	return &AuthState{
		accounts: accounts,
		logger:   logger,
		subs:     make(map[int]chan AuthSnapshot),
	}
}

// Snapshot returns the current state
func (s *AuthState) Snapshot() AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe returns a channel that receives every state change until ctx is
// cancelled. A slow consumer only sees the latest state.
func (s *AuthState) Subscribe(ctx context.Context) <-chan AuthSnapshot {
	ch := make(chan AuthSnapshot, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}()

	return ch
}

func (s *AuthState) publish(snap AuthSnapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale pending snapshot with the latest one
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

func (s *AuthState) update(mutate func(*AuthSnapshot)) {
	s.mu.Lock()
	mutate(&s.snapshot)
	snap := s.snapshot
	s.mu.Unlock()
	s.publish(snap)
}

// Login authenticates against the local store
func (s *AuthState) Login(username, password string) {
	s.update(func(snap *AuthSnapshot) {
		snap.Loading = true
		snap.Err = ""
	})

	account, err := s.accounts.Login(username, password)
	if err != nil {
		s.logger.WithError(err).Warn("Login failed")
		s.update(func(snap *AuthSnapshot) {
			snap.Loading = false
			snap.Err = err.Error()
		})
		return
	}

	s.update(func(snap *AuthSnapshot) {
		snap.Loading = false
		snap.CurrentUser = account
		snap.LoggedIn = true
		snap.Err = ""
	})
}

// Register creates a new account and logs it in
func (s *AuthState) Register(username, password, name string) {
	s.update(func(snap *AuthSnapshot) {
		snap.Loading = true
		snap.Err = ""
	})

	account, err := s.accounts.Register(username, password, name)
	if err != nil {
		s.logger.WithError(err).Warn("Registration failed")
		s.update(func(snap *AuthSnapshot) {
			snap.Loading = false
			snap.Err = err.Error()
		})
		return
	}

	s.update(func(snap *AuthSnapshot) {
		snap.Loading = false
		snap.CurrentUser = account
		snap.LoggedIn = true
		snap.Err = ""
	})
}

// Logout resets to the initial state unconditionally
func (s *AuthState) Logout() {
	s.update(func(snap *AuthSnapshot) {
		*snap = AuthSnapshot{}
	})
}

// ClearError dismisses the current error indicator
func (s *AuthState) ClearError() {
	s.update(func(snap *AuthSnapshot) {
		snap.Err = ""
	})
}
