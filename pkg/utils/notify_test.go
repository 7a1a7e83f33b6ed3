package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNotifier_ActiveUserIDs(t *testing.T) {
	n := NewNotifier()
	assert.Empty(t, n.ActiveUserIDs())

	userID := uuid.New()
	n.Register(userID, nil)

	assert.Equal(t, []uuid.UUID{userID}, n.ActiveUserIDs())
}

func TestNotifier_SendWithoutConnection(t *testing.T) {
	n := NewNotifier()

	err := n.Send(uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrNoConnection)
}
