package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/container"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

func TestExportContainer_RoundTrip(t *testing.T) {
	for _, encoding := range []string{"json", "cbor"} {
		t.Run(encoding, func(t *testing.T) {
			cfg := testConfig()
			cfg.Export.Encoding = encoding
			e, err := NewEngine(cfg, nil, logger.Nop())
			require.NoError(t, err)
			ctx := context.Background()

			data, err := e.ExportContainer(ctx, "ExportPw1!", []byte("vault payload"))
			require.NoError(t, err)
			if encoding == "json" {
				assert.Equal(t, byte('{'), data[0])
			}
			assert.NotContains(t, string(data), "vault payload")

			got, err := e.ImportContainer(ctx, "ExportPw1!", data)
			require.NoError(t, err)
			assert.Equal(t, "vault payload", string(got))

			_, err = e.ImportContainer(ctx, "wrong", data)
			assert.ErrorIs(t, err, crypto.ErrIncorrectPassword)
		})
	}
}

// TestImportContainer_CrossEncoding verifies the importer detects the
// encoding regardless of how the importing engine is configured.
func TestImportContainer_CrossEncoding(t *testing.T) {
	cfg := testConfig()
	cfg.Export.Encoding = "cbor"
	producer, err := NewEngine(cfg, nil, logger.Nop())
	require.NoError(t, err)
	consumer := newTestEngine(t, nil)
	ctx := context.Background()

	data, err := producer.ExportContainer(ctx, "pw", []byte("x"))
	require.NoError(t, err)

	got, err := consumer.ImportContainer(ctx, "pw", data)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestImportContainer_Garbage(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.ImportContainer(context.Background(), "pw", []byte("definitely not a container"))
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrFormat)
}

// TestExportEntries_MoveBetweenVaults exports from one vault and imports
// into another with a different vault key.
func TestExportEntries_MoveBetweenVaults(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	src := setUpSession(t, e, "source-pw")
	dst := setUpSession(t, e, "dest-pw")

	enc, err := e.EncryptEntry(src, sampleEntry())
	require.NoError(t, err)

	data, err := e.ExportEntries(ctx, src, "transfer-pw", []models.EncryptedEntry{enc})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")

	imported, err := e.ImportEntries(ctx, dst, "transfer-pw", data)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, enc.ID, imported[0].ID)

	// sealed under the destination key
	_, err = e.DecryptEntry(src, imported[0])
	assert.ErrorIs(t, err, crypto.ErrAuthentication)

	dec, err := e.DecryptEntry(dst, imported[0])
	require.NoError(t, err)
	assert.Equal(t, "hunter2", dec.Password())
}

func TestImportEntries_NotEntries(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()
	s := setUpSession(t, e, "pw")

	data, err := e.ExportContainer(ctx, "pw", []byte("plain text, not json"))
	require.NoError(t, err)

	_, err = e.ImportEntries(ctx, s, "pw", data)
	assert.ErrorIs(t, err, container.ErrMalformedContainer)
}
