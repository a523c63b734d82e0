package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/cache"
	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

// setupTest points the services at a fresh database, cache and fake clock.
func setupTest(t *testing.T) clockwork.FakeClock {
	t.Helper()

	database.NewTestDatabase(t)
	require.NoError(t, cache.NewStore())
	viper.Set("security.jwt_secret", "test-secret")
	viper.Set("uploads.path", t.TempDir())

	clock := clockwork.NewFakeClockAt(time.Now().UTC().Truncate(time.Second))
	previous := Clock
	Clock = clock
	t.Cleanup(func() {
		Clock = previous
	})

	return clock
}

func newTestUser(t *testing.T, name string) models.User {
	t.Helper()

	user, err := RegisterUser(UserRegistration{
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  "correct-horse",
		FirstName: name,
		LastName:  "Tester",
		City:      "Lyon",
	})
	require.NoError(t, err)
	return user
}

func newTestAdmin(t *testing.T, name string) models.User {
	t.Helper()

	user, err := SetUserAdmin(newTestUser(t, name), true)
	require.NoError(t, err)
	return user
}

func newTestEvent(t *testing.T, organizer models.User, capacity int) models.Event {
	t.Helper()

	startsAt := Clock.Now().Add(24 * time.Hour)
	event, err := NewEvent(organizer, models.Event{
		Title:       "Repair café",
		Description: "Bring your broken toasters",
		Location:    "Maison de quartier",
		StartsAt:    startsAt,
		EndsAt:      startsAt.Add(3 * time.Hour),
		Capacity:    capacity,
	})
	require.NoError(t, err)
	return event
}
