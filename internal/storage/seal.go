package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/chacha20poly1305"
)

// sealKey is the per-install key used to seal the bearer credential at rest.
// It lives next to the state file and is generated on first use.
type sealKey struct {
	ID  string `msgpack:"id"`
	Key []byte `msgpack:"key"`
}

var errKeyMismatch = errors.New("credential sealed with a different key")

func loadOrCreateSealKey(path string) (*sealKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var k sealKey
		if err := msgpack.Unmarshal(data, &k); err != nil {
			return nil, fmt.Errorf("corrupt state key file %s: %w", path, err)
		}
		if len(k.Key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("state key file %s has wrong key size %d", path, len(k.Key))
		}
		return &k, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read state key file: %w", err)
	}

	k := sealKey{
		ID:  uuid.NewString(),
		Key: make([]byte, chacha20poly1305.KeySize),
	}
	if _, err := rand.Read(k.Key); err != nil {
		return nil, fmt.Errorf("failed to generate state key: %w", err)
	}

	data, err = msgpack.Marshal(&k)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write state key file: %w", err)
	}
	return &k, nil
}

func (k *sealKey) seal(plaintext string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(k.Key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (k *sealKey) open(sealed []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(k.Key)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", errors.New("sealed credential too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed credential: %w", err)
	}
	return string(plaintext), nil
}
