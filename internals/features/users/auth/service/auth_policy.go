package service

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/configs"
)

type attemptWindow struct {
	start    time.Time
	failures int
}

type sessionTimer struct {
	userID uuid.UUID
	timer  *time.Timer
}

/*
AuthPolicy memegang:
  - penghitung gagal login per kunci (email|ip) dalam satu jendela waktu
  - timer inaktivitas per sesi; kalau habis → callback OnSessionExpired

Dibuat sekali di main dan ditutup dengan Close() saat shutdown.
*/
type AuthPolicy struct {
	cfg configs.AuthPolicyConfig
	now func() time.Time

	mu       sync.Mutex
	attempts map[string]*attemptWindow
	timers   map[uuid.UUID]*sessionTimer
	onExpire func(sessionID, userID uuid.UUID)
	closed   bool
}

func NewAuthPolicy(cfg configs.AuthPolicyConfig) *AuthPolicy {
	return &AuthPolicy{
		cfg:      cfg,
		now:      time.Now,
		attempts: map[string]*attemptWindow{},
		timers:   map[uuid.UUID]*sessionTimer{},
	}
}

func (p *AuthPolicy) Config() configs.AuthPolicyConfig { return p.cfg }

// OnSessionExpired: dipanggil (di goroutine timer) saat sesi idle melewati SessionTimeout.
func (p *AuthPolicy) OnSessionExpired(fn func(sessionID, userID uuid.UUID)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onExpire = fn
}

func LoginKey(email, ip string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(ip)
}

// window aktif untuk key; yang sudah lewat dibuang. Caller pegang p.mu.
func (p *AuthPolicy) windowLocked(key string, now time.Time) *attemptWindow {
	w, ok := p.attempts[key]
	if !ok {
		return nil
	}
	if now.Sub(w.start) >= p.cfg.RateLimitWindow {
		delete(p.attempts, key)
		return nil
	}
	return w
}

// AllowLogin: false + sisa waktu tunggu kalau sudah MaxLoginAttempts kali gagal dalam jendela.
func (p *AuthPolicy) AllowLogin(key string) (bool, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	w := p.windowLocked(key, now)
	if w == nil || w.failures < p.cfg.MaxLoginAttempts {
		return true, 0
	}
	return false, w.start.Add(p.cfg.RateLimitWindow).Sub(now)
}

// RegisterFailure → sisa percobaan.
func (p *AuthPolicy) RegisterFailure(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	w := p.windowLocked(key, now)
	if w == nil {
		w = &attemptWindow{start: now}
		p.attempts[key] = w
		p.pruneLocked(now)
	}
	w.failures++
	left := p.cfg.MaxLoginAttempts - w.failures
	if left <= 0 {
		log.Printf("[AUTH] 🔒 login dikunci sementara untuk %s", key)
		return 0
	}
	return left
}

func (p *AuthPolicy) ResetLogin(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.attempts, key)
}

// pruneLocked: buang jendela kedaluwarsa kalau map mulai besar.
func (p *AuthPolicy) pruneLocked(now time.Time) {
	if len(p.attempts) < 1024 {
		return
	}
	for k, w := range p.attempts {
		if now.Sub(w.start) >= p.cfg.RateLimitWindow {
			delete(p.attempts, k)
		}
	}
}

// Touch: (re)arm timer inaktivitas untuk sesi.
func (p *AuthPolicy) Touch(sessionID, userID uuid.UUID) {
	if sessionID == uuid.Nil || p.cfg.SessionTimeout <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if st, ok := p.timers[sessionID]; ok {
		st.timer.Reset(p.cfg.SessionTimeout)
		return
	}
	st := &sessionTimer{userID: userID}
	st.timer = time.AfterFunc(p.cfg.SessionTimeout, func() { p.expire(sessionID, st) })
	p.timers[sessionID] = st
}

func (p *AuthPolicy) expire(sessionID uuid.UUID, st *sessionTimer) {
	p.mu.Lock()
	cur, ok := p.timers[sessionID]
	if !ok || cur != st || p.closed {
		p.mu.Unlock()
		return
	}
	delete(p.timers, sessionID)
	fn := p.onExpire
	p.mu.Unlock()

	log.Printf("[AUTH] ⏱️ sesi %s idle melewati %s, logout paksa", sessionID, p.cfg.SessionTimeout)
	if fn != nil {
		fn(sessionID, st.userID)
	}
}

// Release: hentikan timer sesi (logout).
func (p *AuthPolicy) Release(sessionID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.timers[sessionID]; ok {
		st.timer.Stop()
		delete(p.timers, sessionID)
	}
}

// ActiveTimers: jumlah sesi yang sedang dipantau.
func (p *AuthPolicy) ActiveTimers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Close: stop semua timer; Touch setelahnya diabaikan.
func (p *AuthPolicy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, st := range p.timers {
		st.timer.Stop()
		delete(p.timers, id)
	}
	p.attempts = map[string]*attemptWindow{}
	log.Println("[AUTH] policy ditutup")
}
