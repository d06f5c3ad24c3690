package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("rahasia", time.Hour)
	id := Identity{UserID: uuid.New(), SessionID: uuid.New(), Email: "kasir@sekolah.sch.id", Name: "Kasir"}

	raw, exp, err := tokens.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := tokens.Parse(BearerToken("Bearer " + raw))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	tokens := NewTokenIssuer("rahasia", time.Hour)
	raw, _, err := tokens.Issue(Identity{UserID: uuid.New(), SessionID: uuid.New()})
	require.NoError(t, err)

	_, err = NewTokenIssuer("lain", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("rahasia", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(Identity{UserID: uuid.New(), SessionID: uuid.New()})
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, BearerToken("Basic abc"))
}
