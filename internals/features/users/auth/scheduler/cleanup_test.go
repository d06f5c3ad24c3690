package scheduler

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeCutoff(t *testing.T) {
	now := time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.May, 13, 10, 0, 0, 0, time.UTC), purgeCutoff(now, DefaultSessionRetention))
	assert.Equal(t, now, purgeCutoff(now, -time.Hour))
}

func TestRegisterSessionCleanup(t *testing.T) {
	c := cron.New()
	_, err := RegisterSessionCleanup(c, "", nil, DefaultSessionRetention)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	_, err = RegisterSessionCleanup(c, "* * *", nil, DefaultSessionRetention)
	assert.Error(t, err)
}
