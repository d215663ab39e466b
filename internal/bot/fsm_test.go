package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore(t *testing.T) {
	store := newSessionStore()

	assert.Equal(t, stepNone, store.get(1).Step)

	store.put(1, session{Step: stepDeposit, ToolName: "drill", RentPrice: 500})
	sess := store.get(1)
	assert.Equal(t, stepDeposit, sess.Step)
	assert.Equal(t, "drill", sess.ToolName)
	assert.Equal(t, int64(500), sess.RentPrice)

	// Sessions are isolated per chat
	assert.Equal(t, stepNone, store.get(2).Step)

	store.clear(1)
	assert.Equal(t, stepNone, store.get(1).Step)
}
