package crypto

import (
	"context"
)

// kdfService is the private implementation of [KeyDeriver].
type kdfService struct {
	keyLen uint32
}

// NewKeyDeriver returns a [KeyDeriver] producing [KeySize]-byte keys.
func NewKeyDeriver() KeyDeriver {
	return &kdfService{keyLen: KeySize}
}

// DeriveKey implements [KeyDeriver]. The config is validated first; a valid
// config always yields the same bytes for the same password.
func (k *kdfService) DeriveKey(password string, cfg KDFConfig) ([]byte, error) {
	if cfg == nil {
		return nil, ErrMissingKDFConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pw := []byte(password)
	defer Wipe(pw)

	return cfg.derive(pw, k.keyLen), nil
}

// DeriveKeyContext implements [KeyDeriver]. The derivation runs on its own
// goroutine; when ctx is done first, the call returns ctx.Err() and the key
// computed later is wiped without ever reaching the caller.
func (k *kdfService) DeriveKeyContext(ctx context.Context, password string, cfg KDFConfig) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrMissingKDFConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	type result struct {
		key []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		key, err := k.DeriveKey(password, cfg)
		done <- result{key: key, err: err}
	}()

	select {
	case r := <-done:
		return r.key, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			Wipe(r.key)
		}()
		return nil, ctx.Err()
	}
}
