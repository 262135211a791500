package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusPending))
	assert.True(t, StatusDraft.CanTransitionTo(StatusArchived))
	assert.False(t, StatusDraft.CanTransitionTo(StatusPublished))

	assert.True(t, StatusPending.CanTransitionTo(StatusPublished))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.False(t, StatusPending.CanTransitionTo(StatusArchived))

	assert.True(t, StatusPublished.CanTransitionTo(StatusArchived))
	assert.False(t, StatusPublished.CanTransitionTo(StatusPending))

	assert.True(t, StatusRejected.CanTransitionTo(StatusPending))
	assert.True(t, StatusRejected.CanTransitionTo(StatusArchived))

	assert.False(t, StatusArchived.CanTransitionTo(StatusDraft))
	assert.False(t, StatusArchived.CanTransitionTo(StatusPending))
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusArchived.IsTerminal())
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusRejected.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("published")
	assert.NoError(t, err)
	assert.Equal(t, StatusPublished, s)

	_, err = ParseStatus("deleted")
	assert.Error(t, err)
}
