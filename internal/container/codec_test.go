package container

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

var testExportParams = crypto.KDFParams{Type: crypto.KDFTypePBKDF2, Iterations: crypto.MinPBKDF2Iterations}

func newTestCodec(t *testing.T, alg crypto.Algorithm) *Codec {
	t.Helper()
	c, err := NewCodec(alg, crypto.NewKeyDeriver(), testExportParams, "go-pass-vault-test")
	require.NoError(t, err)
	return c
}

func vaultKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, crypto.KeySize)
}

// ── NewCodec ─────────────────────────────────────────────────────────────────

func TestNewCodec_Errors(t *testing.T) {
	_, err := NewCodec("XOR", crypto.NewKeyDeriver(), testExportParams, "app")
	assert.ErrorIs(t, err, crypto.ErrUnsupportedAlgorithm)

	_, err = NewCodec(crypto.AlgorithmAES256GCM, crypto.NewKeyDeriver(), crypto.KDFParams{Type: crypto.KDFTypePBKDF2, Iterations: 1}, "app")
	assert.ErrorIs(t, err, crypto.ErrConfig)
}

// ── vault-key mode ───────────────────────────────────────────────────────────

func TestSealOpenWithKey_RoundTrip(t *testing.T) {
	for _, alg := range []crypto.Algorithm{crypto.AlgorithmAES256GCM, crypto.AlgorithmChaCha20Poly1305} {
		t.Run(string(alg), func(t *testing.T) {
			c := newTestCodec(t, alg)
			key := vaultKey(7)

			blob, err := c.SealWithKey(key, []byte("my-secret"))
			require.NoError(t, err)

			wantID, err := alg.ID()
			require.NoError(t, err)
			assert.Equal(t, Version1, blob[0])
			assert.Equal(t, wantID, blob[1])
			assert.Len(t, blob, headerSize+crypto.NonceSize+len("my-secret")+tagSize)

			got, err := c.OpenWithKey(key, blob)
			require.NoError(t, err)
			assert.Equal(t, []byte("my-secret"), got)
		})
	}
}

func TestOpenWithKey_ReadsAnySupportedAlgorithm(t *testing.T) {
	aes := newTestCodec(t, crypto.AlgorithmAES256GCM)
	chacha := newTestCodec(t, crypto.AlgorithmChaCha20Poly1305)
	key := vaultKey(9)

	blob, err := aes.SealWithKey(key, []byte("written by aes"))
	require.NoError(t, err)

	got, err := chacha.OpenWithKey(key, blob)
	require.NoError(t, err)
	assert.Equal(t, "written by aes", string(got))
}

func TestOpenWithKey_EveryBitFlipFails(t *testing.T) {
	c := newTestCodec(t, crypto.AlgorithmAES256GCM)
	key := vaultKey(3)

	blob, err := c.SealWithKey(key, []byte("tamper me"))
	require.NoError(t, err)

	for i := range blob {
		for bit := 0; bit < 8; bit++ {
			damaged := bytes.Clone(blob)
			damaged[i] ^= 1 << bit

			got, err := c.OpenWithKey(key, damaged)
			require.Errorf(t, err, "byte %d bit %d", i, bit)
			assert.Nil(t, got)

			// Header damage is a format problem, body damage an auth problem.
			if i < headerSize {
				assert.Truef(t, isFormatOrAuth(err), "byte %d bit %d: %v", i, bit, err)
			} else {
				assert.ErrorIs(t, err, crypto.ErrAuthentication)
			}
		}
	}
}

func isFormatOrAuth(err error) bool {
	return errors.Is(err, crypto.ErrFormat) || errors.Is(err, crypto.ErrAuthentication)
}

func TestOpenWithKey_Errors(t *testing.T) {
	c := newTestCodec(t, crypto.AlgorithmAES256GCM)
	key := vaultKey(1)

	blob, err := c.SealWithKey(key, []byte("x"))
	require.NoError(t, err)

	futureVersion := bytes.Clone(blob)
	futureVersion[0] = 0x02

	unknownAlg := bytes.Clone(blob)
	unknownAlg[1] = 0x7F

	tests := []struct {
		name    string
		key     []byte
		blob    []byte
		wantErr error
	}{
		{name: "wrong key", key: vaultKey(2), blob: blob, wantErr: ErrDecryptionFailed},
		{name: "future version", key: key, blob: futureVersion, wantErr: ErrUnsupportedVersion},
		{name: "unknown algorithm", key: key, blob: unknownAlg, wantErr: crypto.ErrUnsupportedAlgorithm},
		{name: "truncated", key: key, blob: blob[:headerSize+crypto.NonceSize], wantErr: ErrMalformedContainer},
		{name: "empty", key: key, blob: nil, wantErr: ErrMalformedContainer},
		{name: "short key", key: key[:16], blob: blob, wantErr: crypto.ErrInvalidKeyLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.OpenWithKey(tt.key, tt.blob)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSealWithKey_FreshNonce(t *testing.T) {
	c := newTestCodec(t, crypto.AlgorithmAES256GCM)

	b1, err := c.SealWithKey(vaultKey(1), []byte("same"))
	require.NoError(t, err)
	b2, err := c.SealWithKey(vaultKey(1), []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, b1[headerSize:headerSize+crypto.NonceSize], b2[headerSize:headerSize+crypto.NonceSize])
}

func TestSealOpenString(t *testing.T) {
	c := newTestCodec(t, crypto.AlgorithmChaCha20Poly1305)
	key := vaultKey(5)

	s, err := c.SealString(key, []byte("hello"))
	require.NoError(t, err)
	_, err = base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)

	got, err := c.OpenString(key, s)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = c.OpenString(key, "!!not base64!!")
	assert.ErrorIs(t, err, ErrMalformedContainer)
	assert.ErrorIs(t, err, crypto.ErrFormat)
}
