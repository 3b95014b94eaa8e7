package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsFinished(t *testing.T) {
	assert.False(t, StatusOngoing.IsFinished())
	assert.True(t, StatusPlayerWon.IsFinished())
	assert.True(t, StatusOpponentWon.IsFinished())
}

func TestState_JSON(t *testing.T) {
	// Given: the state of a fresh default game
	state := State{
		Pile:             13,
		Status:           StatusOngoing,
		MaxMoveSize:      3,
		LastOpponentMove: 0,
	}

	// When: it is encoded for the client
	body, err := json.Marshal(state)
	require.NoError(t, err)

	// Then: the field names match the public API
	assert.JSONEq(t, `{"pile":13,"status":"ONGOING","maxMoveSize":3,"lastOpponentMove":0}`, string(body))
}
