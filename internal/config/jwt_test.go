package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	tests := []struct {
		name          string
		secret        string
		hours         int
		expectedHours int
		wantErr       string
	}{
		{name: "default expiration", secret: "test-secret-key", hours: 0, expectedHours: 24},
		{name: "custom expiration", secret: "test-secret-key", hours: 12, expectedHours: 12},
		{name: "minimum expiration", secret: "test-secret-key", hours: 1, expectedHours: 1},
		{name: "missing secret", secret: "", hours: 24, wantErr: "JWT_SECRET cannot be empty"},
		{name: "negative expiration", secret: "test-secret-key", hours: -1, wantErr: "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWTSecret: tt.secret, JWTExpirationHours: tt.hours}
			jwtCfg, err := cfg.JWT()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, jwtCfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, jwtCfg.Secret)
			assert.Equal(t, tt.expectedHours, jwtCfg.ExpirationHours)
		})
	}
}
