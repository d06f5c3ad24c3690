package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSessionCheckTimeout = 3 * time.Second
	DefaultProfileTimeout      = 2 * time.Second
)

// SessionSource: "ambil sesi saat ini". (nil, nil) = tidak ada sesi.
type SessionSource interface {
	CurrentSession(ctx context.Context, token string) (*Identity, error)
}

// ProfileSource: (nil, nil) = profil tidak ada.
type ProfileSource interface {
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

// SessionState: hasil bootstrap untuk dashboard.
type SessionState struct {
	IsLoading          bool         `json:"is_loading"`
	User               *CurrentUser `json:"user"`
	BackendUnreachable bool         `json:"backend_unreachable"`
}

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

type AuthEvent struct {
	Kind     EventKind
	Identity Identity
}

type Bootstrap struct {
	sessions SessionSource
	profiles ProfileSource
	policy   *AuthPolicy

	SessionCheckTimeout time.Duration
	ProfileTimeout      time.Duration

	group    singleflight.Group
	mu       sync.RWMutex
	resolved map[uuid.UUID]CurrentUser
}

func NewBootstrap(sessions SessionSource, profiles ProfileSource, policy *AuthPolicy) *Bootstrap {
	return &Bootstrap{
		sessions:            sessions,
		profiles:            profiles,
		policy:              policy,
		SessionCheckTimeout: DefaultSessionCheckTimeout,
		ProfileTimeout:      DefaultProfileTimeout,
		resolved:            map[uuid.UUID]CurrentUser{},
	}
}

// IsUnreachable: error koneksi/timeout (bukan error query biasa).
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

/*
Check: sesi dari token → SessionState. Seluruh proses dibatasi SessionCheckTimeout;
query yang kalah balapan ikut dibatalkan lewat context.

  - error query sesi → anonim (tanpa flag)
  - koneksi putus / timeout → anonim + BackendUnreachable
  - ada sesi → Resolve (profil atau fallback)
*/
func (b *Bootstrap) Check(ctx context.Context, token string) SessionState {
	ctx, cancel := context.WithTimeout(ctx, b.SessionCheckTimeout)
	defer cancel()

	id, err := b.sessions.CurrentSession(ctx, token)
	if err != nil {
		unreachable := IsUnreachable(err) || ctx.Err() != nil
		if unreachable {
			log.Printf("[AUTH] ⚠️ backend tidak terjangkau saat cek sesi: %v", err)
		} else {
			log.Printf("[AUTH] cek sesi gagal: %v", err)
		}
		return SessionState{BackendUnreachable: unreachable}
	}
	if id == nil {
		return SessionState{}
	}

	u := b.Resolve(ctx, *id)
	return SessionState{User: &u}
}

// Resolve: profil aktif → adopsi + arm timer inaktivitas; selain itu fallback.
// Lookup per user dilakukan sekali (singleflight + cache) sampai Forget.
func (b *Bootstrap) Resolve(ctx context.Context, id Identity) CurrentUser {
	b.mu.RLock()
	cached, ok := b.resolved[id.UserID]
	b.mu.RUnlock()
	if ok {
		return b.bind(cached, id)
	}

	v, _, _ := b.group.Do(id.UserID.String(), func() (any, error) {
		b.mu.RLock()
		if u, ok := b.resolved[id.UserID]; ok {
			b.mu.RUnlock()
			return u, nil
		}
		b.mu.RUnlock()

		u := b.lookup(ctx, id)
		b.mu.Lock()
		b.resolved[id.UserID] = u
		b.mu.Unlock()
		return u, nil
	})
	return b.bind(v.(CurrentUser), id)
}

func (b *Bootstrap) lookup(ctx context.Context, id Identity) CurrentUser {
	ctx, cancel := context.WithTimeout(ctx, b.ProfileTimeout)
	defer cancel()

	p, err := b.profiles.ProfileByUserID(ctx, id.UserID)
	switch {
	case err != nil:
		log.Printf("[AUTH] ⚠️ profil %s gagal dibaca (%v), pakai identitas fallback", id.UserID, err)
	case p == nil:
		log.Printf("[AUTH] profil %s tidak ada, pakai identitas fallback", id.UserID)
	case !p.IsActive:
		log.Printf("[AUTH] profil %s tidak aktif, pakai identitas fallback", id.UserID)
	default:
		return userFromProfile(*p, id)
	}
	return FallbackUser(id)
}

// bind: pasang session id milik request ini + arm timer untuk profil asli.
func (b *Bootstrap) bind(u CurrentUser, id Identity) CurrentUser {
	u.SessionID = id.SessionID
	if !u.Fallback && b.policy != nil {
		b.policy.Touch(id.SessionID, id.UserID)
	}
	return u
}

// Forget: buang cache identitas (sign-out / profil berubah).
func (b *Bootstrap) Forget(userID uuid.UUID) {
	b.mu.Lock()
	delete(b.resolved, userID)
	b.mu.Unlock()
	b.group.Forget(userID.String())
}

// HandleEvent: sign-in → resolve ulang; sign-out → hapus cache & timer.
func (b *Bootstrap) HandleEvent(ctx context.Context, ev AuthEvent) *CurrentUser {
	switch ev.Kind {
	case EventSignedIn:
		b.Forget(ev.Identity.UserID)
		u := b.Resolve(ctx, ev.Identity)
		return &u
	case EventSignedOut:
		b.Forget(ev.Identity.UserID)
		if b.policy != nil {
			b.policy.Release(ev.Identity.SessionID)
		}
	}
	return nil
}
