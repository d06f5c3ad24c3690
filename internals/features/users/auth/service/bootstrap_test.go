package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/constants"
)

type sessionFunc func(ctx context.Context, token string) (*Identity, error)

func (f sessionFunc) CurrentSession(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

type fakeProfiles struct {
	calls    atomic.Int32
	delay    time.Duration
	block    bool
	err      error
	profiles map[uuid.UUID]Profile
	canceled chan error
}

func (f *fakeProfiles) ProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		if f.canceled != nil {
			f.canceled <- ctx.Err()
		}
		return nil, ctx.Err()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func staticSession(id *Identity) sessionFunc {
	return func(context.Context, string) (*Identity, error) { return id, nil }
}

func newIdentity(email string) Identity {
	return Identity{UserID: uuid.New(), SessionID: uuid.New(), Email: email}
}

func TestFallbackUser(t *testing.T) {
	tests := []struct {
		email string
		role  string
	}{
		{email: "admin@sekolah.sch.id", role: constants.RoleSuperAdmin},
		{email: "kasir@sekolah.sch.id", role: constants.RoleCashier},
		{email: "guru.budi@sekolah.sch.id", role: constants.RoleCashier},
		{email: "admin@sekolah.sch", role: constants.RoleCashier},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			u := FallbackUser(newIdentity(tt.email))
			assert.Equal(t, tt.role, u.Role)
			assert.True(t, u.Fallback)
		})
	}

	u := FallbackUser(Identity{Email: "siti.aminah@sekolah.sch.id"})
	assert.Equal(t, "siti.aminah", u.Name)
	u = FallbackUser(Identity{Email: "siti@sekolah.sch.id", Name: "Siti Aminah"})
	assert.Equal(t, "Siti Aminah", u.Name)
}

func TestBootstrap_SessionCheckTimeout(t *testing.T) {
	canceled := make(chan error, 1)
	sessions := sessionFunc(func(ctx context.Context, _ string) (*Identity, error) {
		<-ctx.Done()
		canceled <- ctx.Err()
		return nil, ctx.Err()
	})
	b := NewBootstrap(sessions, &fakeProfiles{}, nil)
	b.SessionCheckTimeout = 50 * time.Millisecond

	start := time.Now()
	state := b.Check(context.Background(), "token")
	assert.Less(t, time.Since(start), time.Second)

	assert.False(t, state.IsLoading)
	assert.Nil(t, state.User)
	assert.True(t, state.BackendUnreachable)
	select {
	case err := <-canceled:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("session query was not cancelled")
	}
}

func TestBootstrap_SessionErrors(t *testing.T) {
	t.Run("query error is anonymous without flag", func(t *testing.T) {
		b := NewBootstrap(sessionFunc(func(context.Context, string) (*Identity, error) {
			return nil, errors.New("relation user_sessions does not exist")
		}), &fakeProfiles{}, nil)
		state := b.Check(context.Background(), "token")
		assert.Nil(t, state.User)
		assert.False(t, state.BackendUnreachable)
	})

	t.Run("no session", func(t *testing.T) {
		b := NewBootstrap(staticSession(nil), &fakeProfiles{}, nil)
		state := b.Check(context.Background(), "")
		assert.Nil(t, state.User)
		assert.False(t, state.BackendUnreachable)
		assert.False(t, state.IsLoading)
	})
}

func TestBootstrap_FallbackWhenProfileMissing(t *testing.T) {
	id := newIdentity("admin@sekolah.sch.id")
	b := NewBootstrap(staticSession(&id), &fakeProfiles{}, nil)

	state := b.Check(context.Background(), "token")
	require.NotNil(t, state.User)
	assert.Equal(t, constants.RoleSuperAdmin, state.User.Role)
	assert.True(t, state.User.Fallback)
	assert.Equal(t, id.SessionID, state.User.SessionID)

	other := newIdentity("tu@sekolah.sch.id")
	u := b.Resolve(context.Background(), other)
	assert.Equal(t, constants.RoleCashier, u.Role)
}

func TestBootstrap_ProfileTimeoutCancelsLookup(t *testing.T) {
	profiles := &fakeProfiles{block: true, canceled: make(chan error, 1)}
	b := NewBootstrap(staticSession(nil), profiles, nil)
	b.ProfileTimeout = 30 * time.Millisecond

	u := b.Resolve(context.Background(), newIdentity("bendahara@sekolah.sch.id"))
	assert.True(t, u.Fallback)
	assert.Equal(t, constants.RoleCashier, u.Role)
	select {
	case err := <-profiles.canceled:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("profile lookup was not cancelled")
	}
}

func TestBootstrap_ActiveAndInactiveProfiles(t *testing.T) {
	policy, _ := newTestPolicy(5, time.Minute, time.Hour)
	defer policy.Close()

	active := newIdentity("bu.rina@sekolah.sch.id")
	inactive := newIdentity("admin@sekolah.sch.id")
	profiles := &fakeProfiles{profiles: map[uuid.UUID]Profile{
		active.UserID:   {ID: uuid.New(), UserID: active.UserID, Email: active.Email, Name: "Bu Rina", Role: constants.RoleAdmin, IsActive: true},
		inactive.UserID: {ID: uuid.New(), UserID: inactive.UserID, Email: inactive.Email, Name: "Lama", Role: constants.RoleAdmin, IsActive: false},
	}}
	b := NewBootstrap(staticSession(nil), profiles, policy)

	u := b.Resolve(context.Background(), active)
	assert.Equal(t, constants.RoleAdmin, u.Role)
	assert.Equal(t, "Bu Rina", u.Name)
	assert.False(t, u.Fallback)
	assert.Equal(t, 1, policy.ActiveTimers(), "inactivity timer armed")

	u = b.Resolve(context.Background(), inactive)
	assert.True(t, u.Fallback)
	assert.Equal(t, constants.RoleSuperAdmin, u.Role)
	assert.Equal(t, 1, policy.ActiveTimers(), "fallback identities are not timed")
}

func TestBootstrap_LookupDeduplicated(t *testing.T) {
	id := newIdentity("kasir2@sekolah.sch.id")
	profiles := &fakeProfiles{
		delay:    30 * time.Millisecond,
		profiles: map[uuid.UUID]Profile{id.UserID: {ID: uuid.New(), UserID: id.UserID, Role: constants.RoleCashier, IsActive: true}},
	}
	b := NewBootstrap(staticSession(&id), profiles, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := b.Check(context.Background(), "token")
			assert.NotNil(t, state.User)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, profiles.calls.Load())

	b.Resolve(context.Background(), id)
	assert.EqualValues(t, 1, profiles.calls.Load(), "cached per identity")

	assert.Nil(t, b.HandleEvent(context.Background(), AuthEvent{Kind: EventSignedOut, Identity: id}))
	u := b.HandleEvent(context.Background(), AuthEvent{Kind: EventSignedIn, Identity: id})
	require.NotNil(t, u)
	assert.EqualValues(t, 2, profiles.calls.Load(), "sign-out forgets the identity")
}
