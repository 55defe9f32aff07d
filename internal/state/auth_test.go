package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/outracoisa/filmoteca/internal/controllers"
	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newAuthTestState(t *testing.T) *AuthState {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewAuthState(controllers.NewAccountController(db, logger), logger)
}

func TestAuthInitialState(t *testing.T) {
	auth := newAuthTestState(t)

	snap := auth.Snapshot()
	require.False(t, snap.Loading)
	require.False(t, snap.LoggedIn)
	require.Nil(t, snap.CurrentUser)
	require.Empty(t, snap.Err)
}

func TestRegisterLogsIn(t *testing.T) {
	auth := newAuthTestState(t)

	auth.Register("ana", "1234", "Ana")

	snap := auth.Snapshot()
	require.False(t, snap.Loading)
	require.True(t, snap.LoggedIn)
	require.Empty(t, snap.Err)
	require.NotNil(t, snap.CurrentUser)
	require.Equal(t, "ana", snap.CurrentUser.Username)
}

func TestLoginFailureSetsError(t *testing.T) {
	auth := newAuthTestState(t)

	auth.Register("ana", "1234", "Ana")
	auth.Logout()

	auth.Login("ana", "wrong")

	snap := auth.Snapshot()
	require.False(t, snap.Loading)
	require.False(t, snap.LoggedIn)
	require.Nil(t, snap.CurrentUser)
	require.NotEmpty(t, snap.Err)
}

func TestLogoutResetsUnconditionally(t *testing.T) {
	auth := newAuthTestState(t)

	auth.Register("ana", "1234", "Ana")
	auth.Logout()

	snap := auth.Snapshot()
	require.Equal(t, AuthSnapshot{}, snap)
}

func TestClearErrorKeepsRestOfState(t *testing.T) {
	auth := newAuthTestState(t)

	auth.Login("nobody", "nope")
	require.NotEmpty(t, auth.Snapshot().Err)

	auth.ClearError()

	snap := auth.Snapshot()
	require.Empty(t, snap.Err)
	require.False(t, snap.LoggedIn)
}

func TestAuthSubscribeSeesLatestState(t *testing.T) {
	auth := newAuthTestState(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := auth.Subscribe(ctx)
	auth.Register("ana", "1234", "Ana")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.LoggedIn {
				require.Equal(t, "ana", snap.CurrentUser.Username)
				return
			}
		case <-deadline:
			t.Fatal("never observed the logged-in state")
		}
	}
}
