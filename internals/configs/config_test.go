package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAuthPolicyConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		attempts int
		window   time.Duration
		session  time.Duration
	}{
		{
			name:     "defaults when unset",
			env:      map[string]string{},
			attempts: 5,
			window:   15 * time.Minute,
			session:  30 * time.Minute,
		},
		{
			name: "values from env",
			env: map[string]string{
				"MAX_LOGIN_ATTEMPTS":        "3",
				"RATE_LIMIT_WINDOW_MINUTES": "10",
				"SESSION_TIMEOUT_MINUTES":   "60",
			},
			attempts: 3,
			window:   10 * time.Minute,
			session:  60 * time.Minute,
		},
		{
			name: "garbage and non-positive fall back",
			env: map[string]string{
				"MAX_LOGIN_ATTEMPTS":        "abc",
				"RATE_LIMIT_WINDOW_MINUTES": "0",
				"SESSION_TIMEOUT_MINUTES":   "-5",
			},
			attempts: 5,
			window:   15 * time.Minute,
			session:  30 * time.Minute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_LOGIN_ATTEMPTS", "")
			t.Setenv("RATE_LIMIT_WINDOW_MINUTES", "")
			t.Setenv("SESSION_TIMEOUT_MINUTES", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := LoadAuthPolicyConfig()
			assert.Equal(t, tt.attempts, cfg.MaxLoginAttempts)
			assert.Equal(t, tt.window, cfg.RateLimitWindow)
			assert.Equal(t, tt.session, cfg.SessionTimeout)
		})
	}
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("SEKOLAHKU_SET", "x")
	assert.Equal(t, "x", GetEnv("SEKOLAHKU_SET", "y"))
	assert.Equal(t, "y", GetEnv("SEKOLAHKU_DEFINITELY_UNSET_KEY", "y"))
	assert.True(t, GetEnvBool("SEKOLAHKU_DEFINITELY_UNSET_KEY", true))
}
