package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		check    func(t *testing.T, cfg *StructuredConfig)
		wantRest []string
	}{
		{
			name: "no flags",
			args: nil,
			check: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, &StructuredConfig{}, cfg)
			},
		},
		{
			name: "short config and dsn",
			args: []string{"-c", "/etc/vault.json", "-d", "/tmp/vault.db"},
			check: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/etc/vault.json", cfg.JSONFilePath)
				assert.Equal(t, "/tmp/vault.db", cfg.Storage.DB.DSN)
			},
		},
		{
			name: "config alias",
			args: []string{"-config=/etc/vault.json"},
			check: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/etc/vault.json", cfg.JSONFilePath)
			},
		},
		{
			name: "kdf flags",
			args: []string{"-kdf-type", "pbkdf2-sha256", "-kdf-iterations", "250000"},
			check: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, KDF{Type: "pbkdf2-sha256", Iterations: 250000}, cfg.KDF)
			},
		},
		{
			name: "crypto, export, session and logging",
			args: []string{
				"-cipher", "CHACHA20-POLY1305",
				"-export-encoding", "cbor",
				"-auto-lock", "90s",
				"-log-level", "warn",
				"-log-file", "/tmp/v.log",
			},
			check: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "CHACHA20-POLY1305", cfg.Crypto.Cipher)
				assert.Equal(t, "cbor", cfg.Export.Encoding)
				assert.Equal(t, 90*time.Second, cfg.Session.AutoLock)
				assert.Equal(t, "warn", cfg.App.LogLevel)
				assert.Equal(t, "/tmp/v.log", cfg.App.LogFile)
			},
		},
		{
			name: "positional args are returned",
			args: []string{"-d", "/tmp/vault.db", "export", "out.json"},
			check: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/tmp/vault.db", cfg.Storage.DB.DSN)
			},
			wantRest: []string{"export", "out.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, rest, err := parseFlags(tt.args)
			require.NoError(t, err)
			tt.check(t, cfg)
			if tt.wantRest == nil {
				assert.Empty(t, rest)
			} else {
				assert.Equal(t, tt.wantRest, rest)
			}
		})
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	cfg, rest, err := parseFlags([]string{"-no-such-flag"})
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Nil(t, rest)
	assert.Contains(t, err.Error(), "error parsing flags")
}

func TestParseFlags_InvalidDuration(t *testing.T) {
	_, _, err := parseFlags([]string{"-auto-lock", "soon"})
	require.Error(t, err)
}

// Each call uses its own FlagSet, so repeated parsing does not panic on
// redefinition and does not leak values between calls.
func TestParseFlags_Repeatable(t *testing.T) {
	first, _, err := parseFlags([]string{"-d", "a.db"})
	require.NoError(t, err)
	second, _, err := parseFlags(nil)
	require.NoError(t, err)

	assert.Equal(t, "a.db", first.Storage.DB.DSN)
	assert.Empty(t, second.Storage.DB.DSN)
}
