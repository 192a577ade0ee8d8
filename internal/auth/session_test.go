// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	Init("72h")

	gameID := uuid.New()
	seatID := uuid.New()

	tok, err := CreateSeatToken(gameID, seatID)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	gotGame, gotSeat, err := AuthenticateSeatToken(tok)
	require.NoError(t, err)
	assert.Equal(t, gameID, gotGame)
	assert.Equal(t, seatID, gotSeat)
}

func TestSeatTokenRejectsGarbage(t *testing.T) {
	Init("never")

	_, _, err := AuthenticateSeatToken("not-a-token")
	assert.Error(t, err)
}

func TestSeatTokenKeyMismatch(t *testing.T) {
	Init("0")
	tok, err := CreateSeatToken(uuid.New(), uuid.New())
	require.NoError(t, err)

	// Regenerating the key pair invalidates previously issued tokens.
	Init("0")
	_, _, err = AuthenticateSeatToken(tok)
	assert.Error(t, err)
}
