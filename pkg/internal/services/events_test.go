package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

func TestNewEventSchedule(t *testing.T) {
	setupTest(t)
	organizer := newTestUser(t, "alice")
	now := Clock.Now()

	_, err := NewEvent(organizer, models.Event{
		Title:    "Yesterday",
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		Capacity: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = NewEvent(organizer, models.Event{
		Title:    "Backwards",
		StartsAt: now.Add(2 * time.Hour),
		EndsAt:   now.Add(time.Hour),
		Capacity: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	event := newTestEvent(t, organizer, 5)
	assert.Equal(t, organizer.ID, event.OrganizerID)
	assert.EqualValues(t, 5, event.Metric.RemainingSeats)
}

func TestRegisterToEvent(t *testing.T) {
	setupTest(t)
	organizer := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")
	event := newTestEvent(t, organizer, 1)

	_, err := RegisterToEvent(organizer, event)
	assert.ErrorIs(t, err, ErrEventOrganizer)

	event, err = RegisterToEvent(bob, event)
	require.NoError(t, err)
	assert.EqualValues(t, 1, event.Metric.AttendeeCount)
	assert.EqualValues(t, 0, event.Metric.RemainingSeats)

	_, err = RegisterToEvent(bob, event)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = RegisterToEvent(carol, event)
	assert.ErrorIs(t, err, ErrEventFull)

	attendees, err := ListEventAttendee(event)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, bob.ID, attendees[0].ID)
}

func TestRegisterToEventRefusesStartedAndCancelled(t *testing.T) {
	clock := setupTest(t)
	organizer := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	cancelled := newTestEvent(t, organizer, 10)
	cancelled, err := CancelEvent(cancelled)
	require.NoError(t, err)
	_, err = RegisterToEvent(bob, cancelled)
	assert.ErrorIs(t, err, ErrEventCancelled)

	_, err = CancelEvent(cancelled)
	assert.ErrorIs(t, err, ErrEventCancelled)

	started := newTestEvent(t, organizer, 10)
	clock.Advance(25 * time.Hour)
	_, err = RegisterToEvent(bob, started)
	assert.ErrorIs(t, err, ErrEventStarted)
}

func TestUnregisterFromEvent(t *testing.T) {
	clock := setupTest(t)
	organizer := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	event := newTestEvent(t, organizer, 3)

	_, err := UnregisterFromEvent(bob, event)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = RegisterToEvent(bob, event)
	require.NoError(t, err)

	event, err = UnregisterFromEvent(bob, event)
	require.NoError(t, err)
	assert.EqualValues(t, 0, event.Metric.AttendeeCount)

	_, err = RegisterToEvent(bob, event)
	require.NoError(t, err)
	clock.Advance(25 * time.Hour)
	_, err = UnregisterFromEvent(bob, event)
	assert.ErrorIs(t, err, ErrEventStarted)
}

func TestEditEventCapacity(t *testing.T) {
	setupTest(t)
	organizer := newTestUser(t, "alice")
	event := newTestEvent(t, organizer, 3)

	for _, name := range []string{"bob", "carol"} {
		_, err := RegisterToEvent(newTestUser(t, name), event)
		require.NoError(t, err)
	}

	event.Capacity = 1
	_, err := EditEvent(event)
	assert.ErrorIs(t, err, ErrCapacityBelowCount)

	event.Capacity = 2
	event.Title = "  Repair café #2 "
	edited, err := EditEvent(event)
	require.NoError(t, err)
	assert.Equal(t, "Repair café #2", edited.Title)
	assert.EqualValues(t, 0, edited.Metric.RemainingSeats)
}

func TestListEventFilters(t *testing.T) {
	clock := setupTest(t)
	organizer := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	first := newTestEvent(t, organizer, 5)
	second := newTestEvent(t, organizer, 5)
	_, err := RegisterToEvent(bob, second)
	require.NoError(t, err)
	_, err = CancelEvent(first)
	require.NoError(t, err)

	count, err := CountEvent(FilterEvent(database.C, EventFilter{}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = CountEvent(FilterEvent(database.C, EventFilter{IncludeCancelled: true}))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	items, err := ListEvent(FilterEvent(database.C, EventFilter{AttendeeID: bob.ID}), 10, 0, "starts_at ASC")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)
	assert.EqualValues(t, 1, items[0].Metric.AttendeeCount)

	clock.Advance(48 * time.Hour)
	count, err = CountEvent(FilterEvent(database.C, EventFilter{}))
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = CountEvent(FilterEvent(database.C, EventFilter{Past: true}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDeleteEvent(t *testing.T) {
	setupTest(t)
	organizer := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	event := newTestEvent(t, organizer, 5)

	_, err := RegisterToEvent(bob, event)
	require.NoError(t, err)

	require.NoError(t, DeleteEvent(event))

	_, err = GetEvent(event.ID)
	assert.Error(t, err)

	registered, err := IsEventAttendee(database.C, event, bob)
	require.NoError(t, err)
	assert.False(t, registered)
}
