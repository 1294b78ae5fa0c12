package auth

import (
	"github.com/zalando/go-keyring"
)

const keyringService = "dropbox-api"
const keyringUser = "access-token"

// StorageBackend defines where the access token is kept
type StorageBackend interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
	Name() string
}

// KeyringStorage keeps the token in the system keyring
type KeyringStorage struct{}

// NewKeyringStorage creates a keyring storage backend
func NewKeyringStorage() *KeyringStorage {
	return &KeyringStorage{}
}

func (s *KeyringStorage) SaveToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

func (s *KeyringStorage) LoadToken() (string, error) {
	return keyring.Get(keyringService, keyringUser)
}

func (s *KeyringStorage) DeleteToken() error {
	return keyring.Delete(keyringService, keyringUser)
}

func (s *KeyringStorage) Name() string {
	return "system-keyring"
}

// Available reports whether a system keyring is usable. Probed by writing
// and removing a sentinel value, since keyring backends fail only on use.
func (s *KeyringStorage) Available() bool {
	const probe = "probe"
	if err := keyring.Set(keyringService, probe, "1"); err != nil {
		return false
	}
	_ = keyring.Delete(keyringService, probe)
	return true
}
