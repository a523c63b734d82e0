package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileEncoding(t *testing.T) {
	user := User{
		Email:     "alice@example.com",
		Password:  "hashed",
		FirstName: "alice",
		Skills:    []Skill{{Name: "Plumbing", Users: []User{{FirstName: "bob"}}}},
	}

	var out map[string]any
	assert.NotPanics(t, func() {
		raw, err := json.Marshal(user.Profile())
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
	})

	assert.Equal(t, "alice@example.com", out["email"])
	assert.Equal(t, "alice", out["first_name"])
	assert.NotContains(t, out, "password")
	require.Len(t, out["skills"], 1)
	assert.NotContains(t, out["skills"].([]any)[0], "users")
}

func TestEventEncoding(t *testing.T) {
	event := Event{
		Title:     "Repair café",
		Organizer: User{FirstName: "alice", Skills: []Skill{{Name: "Sewing"}}},
		Attendees: []User{{FirstName: "bob"}},
	}

	assert.NotPanics(t, func() {
		_, err := json.Marshal(event)
		require.NoError(t, err)
	})
}
