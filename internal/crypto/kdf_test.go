package crypto

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Cheapest parameters the validators accept; keeps the suite fast.
var (
	testPBKDF2Params = KDFParams{Type: KDFTypePBKDF2, Iterations: MinPBKDF2Iterations}
	testArgonParams  = KDFParams{Type: KDFTypeArgon2id, Iterations: 1, Memory: MinArgon2Memory, Parallelism: 1}
)

// ── NewSalt ──────────────────────────────────────────────────────────────────

func TestNewSalt_LengthAndRandomness(t *testing.T) {
	s1, err := NewSalt()
	require.NoError(t, err)
	s2, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, s1, SaltSize)
	assert.Len(t, s2, SaltSize)
	assert.False(t, bytes.Equal(s1, s2), "expected salts to differ")
}

// ── KDFParams.WithSalt / Validate ────────────────────────────────────────────

func TestKDFParams_WithSalt(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)

	tests := []struct {
		name    string
		params  KDFParams
		salt    []byte
		wantErr error
	}{
		{name: "pbkdf2 ok", params: testPBKDF2Params, salt: salt},
		{name: "argon2id ok", params: testArgonParams, salt: salt},
		{name: "short salt", params: testPBKDF2Params, salt: salt[:8], wantErr: ErrInvalidSalt},
		{name: "long salt", params: testArgonParams, salt: append(salt, 1), wantErr: ErrInvalidSalt},
		{name: "pbkdf2 too few iterations", params: KDFParams{Type: KDFTypePBKDF2, Iterations: 1000}, salt: salt, wantErr: ErrInvalidIterations},
		{name: "pbkdf2 with memory", params: KDFParams{Type: KDFTypePBKDF2, Iterations: MinPBKDF2Iterations, Memory: 1024}, salt: salt, wantErr: ErrIncompleteKDFConfig},
		{name: "argon2id without memory", params: KDFParams{Type: KDFTypeArgon2id, Iterations: 1, Parallelism: 1}, salt: salt, wantErr: ErrIncompleteKDFConfig},
		{name: "argon2id low memory", params: KDFParams{Type: KDFTypeArgon2id, Iterations: 1, Memory: 1024, Parallelism: 1}, salt: salt, wantErr: ErrInvalidMemory},
		{name: "argon2id huge parallelism", params: KDFParams{Type: KDFTypeArgon2id, Iterations: 1, Memory: MinArgon2Memory, Parallelism: 300}, salt: salt, wantErr: ErrConfig},
		{name: "unknown type", params: KDFParams{Type: "scrypt", Iterations: 1}, salt: salt, wantErr: ErrUnsupportedKDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.params.WithSalt(tt.salt)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrConfig, "every kdf error is a config error")
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.params.Type, cfg.Type())
			assert.Equal(t, tt.params, cfg.Params())
			assert.Equal(t, tt.salt, cfg.SaltBytes())
		})
	}
}

// ── KeyDeriver ───────────────────────────────────────────────────────────────

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	d := NewKeyDeriver()
	salt := bytes.Repeat([]byte{0x01}, SaltSize)

	for _, params := range []KDFParams{testPBKDF2Params, testArgonParams} {
		t.Run(string(params.Type), func(t *testing.T) {
			cfg, err := params.WithSalt(salt)
			require.NoError(t, err)

			k1, err := d.DeriveKey("correct horse battery staple", cfg)
			require.NoError(t, err)
			k2, err := d.DeriveKey("correct horse battery staple", cfg)
			require.NoError(t, err)

			assert.Len(t, k1, KeySize)
			assert.Equal(t, k1, k2)
		})
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	d := NewKeyDeriver()

	cfg1, err := testPBKDF2Params.WithSalt(bytes.Repeat([]byte{0x01}, SaltSize))
	require.NoError(t, err)
	cfg2, err := testPBKDF2Params.WithSalt(bytes.Repeat([]byte{0x02}, SaltSize))
	require.NoError(t, err)

	k1, err := d.DeriveKey("same password", cfg1)
	require.NoError(t, err)
	k2, err := d.DeriveKey("same password", cfg2)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestDeriveKey_AlgorithmsDiffer(t *testing.T) {
	d := NewKeyDeriver()
	salt := bytes.Repeat([]byte{0x07}, SaltSize)

	pb, err := testPBKDF2Params.WithSalt(salt)
	require.NoError(t, err)
	ar, err := testArgonParams.WithSalt(salt)
	require.NoError(t, err)

	k1, err := d.DeriveKey("pw", pb)
	require.NoError(t, err)
	k2, err := d.DeriveKey("pw", ar)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestDeriveKey_InvalidConfig(t *testing.T) {
	d := NewKeyDeriver()

	_, err := d.DeriveKey("pw", PBKDF2{Iterations: MinPBKDF2Iterations, Salt: []byte("short")})
	assert.ErrorIs(t, err, ErrInvalidSalt)

	_, err = d.DeriveKey("pw", nil)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestDeriveKeyContext_MatchesDeriveKey(t *testing.T) {
	d := NewKeyDeriver()
	cfg, err := testPBKDF2Params.NewConfig()
	require.NoError(t, err)

	k1, err := d.DeriveKey("pw", cfg)
	require.NoError(t, err)
	k2, err := d.DeriveKeyContext(context.Background(), "pw", cfg)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestDeriveKeyContext_Cancelled(t *testing.T) {
	d := NewKeyDeriver()
	cfg, err := testPBKDF2Params.NewConfig()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key, err := d.DeriveKeyContext(ctx, "pw", cfg)
	assert.Nil(t, key)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDeriveKeyContext_DeadlineDuringDerivation(t *testing.T) {
	d := NewKeyDeriver()
	// Slow enough to outlive a 1ms deadline.
	cfg, err := KDFParams{Type: KDFTypePBKDF2, Iterations: 2_000_000}.NewConfig()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	key, err := d.DeriveKeyContext(ctx, "pw", cfg)
	assert.Nil(t, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ── record conversion ────────────────────────────────────────────────────────

func TestKDFConfigFromRecord_RoundTrip(t *testing.T) {
	for _, params := range []KDFParams{testPBKDF2Params, testArgonParams} {
		t.Run(string(params.Type), func(t *testing.T) {
			cfg, err := params.NewConfig()
			require.NoError(t, err)

			var rec models.SecurityRecord
			ApplyKDFConfig(&rec, cfg)

			assert.Equal(t, string(params.Type), rec.KDFType)
			if params.Type == KDFTypePBKDF2 {
				assert.Nil(t, rec.KDFMemory)
				assert.Nil(t, rec.KDFParallelism)
			} else {
				require.NotNil(t, rec.KDFMemory)
				assert.Equal(t, params.Memory, *rec.KDFMemory)
			}

			parsed, err := KDFConfigFromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, cfg, parsed)
		})
	}
}

func TestKDFConfigFromRecord_Corrupted(t *testing.T) {
	salt := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, SaltSize))
	memory, parallelism := MinArgon2Memory, 1

	tests := []struct {
		name string
		rec  models.SecurityRecord
	}{
		{name: "bad base64 salt", rec: models.SecurityRecord{KDFType: "pbkdf2-sha256", KDFIterations: MinPBKDF2Iterations, KDFSalt: "%%%"}},
		{name: "pbkdf2 with memory", rec: models.SecurityRecord{KDFType: "pbkdf2-sha256", KDFIterations: MinPBKDF2Iterations, KDFMemory: &memory, KDFSalt: salt}},
		{name: "argon2id without parallelism", rec: models.SecurityRecord{KDFType: "argon2id", KDFIterations: 1, KDFMemory: &memory, KDFSalt: salt}},
		{name: "argon2id without memory", rec: models.SecurityRecord{KDFType: "argon2id", KDFIterations: 1, KDFParallelism: &parallelism, KDFSalt: salt}},
		{name: "unknown type", rec: models.SecurityRecord{KDFType: "md5", KDFIterations: 1, KDFSalt: salt}},
		{name: "iterations below minimum", rec: models.SecurityRecord{KDFType: "pbkdf2-sha256", KDFIterations: 10, KDFSalt: salt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KDFConfigFromRecord(tt.rec)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}
