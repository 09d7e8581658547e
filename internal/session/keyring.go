package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// DefaultKeyringService is the keyring service name holding the token
	DefaultKeyringService = "chainsync"

	keyringUser = "auth-token"
)

// KeyringStore keeps the token in the OS keyring and the rest of the session in a file store
type KeyringStore struct {
	files   *FileStore
	service string
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a keyring-backed store. An empty service selects DefaultKeyringService.
func NewKeyringStore(files *FileStore, service string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{files: files, service: service}
}

// Load reads the user record from the file store and the token from the keyring
func (k *KeyringStore) Load(ctx context.Context) (*Session, error) {
	s, err := k.files.Load(ctx)
	if err != nil {
		return nil, err
	}

	token, err := keyring.Get(k.service, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read token from keyring: %w", err)
	}
	s.Token = token
	return s, nil
}

// Save writes the token to the keyring and the session without token to the file store
func (k *KeyringStore) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return errors.New("session is nil")
	}
	if err := keyring.Set(k.service, keyringUser, s.Token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}

	withoutToken := *s
	withoutToken.Token = ""
	return k.files.Save(ctx, &withoutToken)
}

// Clear removes the token from the keyring and the session file
func (k *KeyringStore) Clear(ctx context.Context) error {
	if err := keyring.Delete(k.service, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return k.files.Clear(ctx)
}
