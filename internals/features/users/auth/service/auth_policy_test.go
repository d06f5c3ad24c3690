package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/configs"
)

func newTestPolicy(max int, window, idle time.Duration) (*AuthPolicy, *time.Time) {
	p := NewAuthPolicy(configs.AuthPolicyConfig{
		MaxLoginAttempts: max,
		RateLimitWindow:  window,
		SessionTimeout:   idle,
	})
	clock := time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	return p, &clock
}

func TestAuthPolicy_LockoutAndWindowReset(t *testing.T) {
	p, clock := newTestPolicy(3, 15*time.Minute, time.Hour)
	defer p.Close()
	key := LoginKey(" Kasir@Sekolah.sch.id ", "10.0.0.1")
	assert.Equal(t, "kasir@sekolah.sch.id|10.0.0.1", key)

	assert.Equal(t, 2, p.RegisterFailure(key))
	assert.Equal(t, 1, p.RegisterFailure(key))
	ok, _ := p.AllowLogin(key)
	assert.True(t, ok)

	assert.Equal(t, 0, p.RegisterFailure(key))
	ok, wait := p.AllowLogin(key)
	assert.False(t, ok)
	assert.Equal(t, 15*time.Minute, wait)

	// IP lain tidak ikut terkunci
	ok, _ = p.AllowLogin(LoginKey("kasir@sekolah.sch.id", "10.0.0.2"))
	assert.True(t, ok)

	*clock = clock.Add(15 * time.Minute)
	ok, _ = p.AllowLogin(key)
	assert.True(t, ok, "window elapsed")
	assert.Equal(t, 2, p.RegisterFailure(key), "fresh window")
}

func TestAuthPolicy_ResetOnSuccess(t *testing.T) {
	p, _ := newTestPolicy(2, time.Minute, time.Hour)
	defer p.Close()
	key := LoginKey("guru@sekolah.sch.id", "::1")

	p.RegisterFailure(key)
	p.ResetLogin(key)
	assert.Equal(t, 1, p.RegisterFailure(key))
}

func TestAuthPolicy_InactivityTimerFires(t *testing.T) {
	p, _ := newTestPolicy(5, time.Minute, 30*time.Millisecond)
	defer p.Close()

	type expired struct{ sid, uid uuid.UUID }
	got := make(chan expired, 1)
	p.OnSessionExpired(func(sid, uid uuid.UUID) { got <- expired{sid, uid} })

	sid, uid := uuid.New(), uuid.New()
	p.Touch(sid, uid)
	assert.Equal(t, 1, p.ActiveTimers())

	select {
	case e := <-got:
		assert.Equal(t, sid, e.sid)
		assert.Equal(t, uid, e.uid)
	case <-time.After(2 * time.Second):
		t.Fatal("inactivity timer did not fire")
	}
	assert.Zero(t, p.ActiveTimers())
}

func TestAuthPolicy_ReleaseAndClose(t *testing.T) {
	p, _ := newTestPolicy(5, time.Minute, 20*time.Millisecond)
	fired := make(chan struct{}, 4)
	p.OnSessionExpired(func(uuid.UUID, uuid.UUID) { fired <- struct{}{} })

	released := uuid.New()
	p.Touch(released, uuid.New())
	p.Release(released)

	p.Touch(uuid.New(), uuid.New())
	require.Equal(t, 1, p.ActiveTimers())
	p.Close()
	assert.Zero(t, p.ActiveTimers())

	p.Touch(uuid.New(), uuid.New())
	assert.Zero(t, p.ActiveTimers(), "closed policy ignores Touch")

	select {
	case <-fired:
		t.Fatal("stopped timers must not fire")
	case <-time.After(100 * time.Millisecond):
	}
}
