// Package state persists durable client-side flags in a small YAML file,
// the same way the user-facing CLI tools in this ecosystem keep theirs.
package state

import (
	"errors"
	"os"
	"sync"

	"github.com/spf13/viper"
)

const (
	keyToken         = "auth.token"
	keyCookieConsent = "privacy.cookie_consent"
	keyConsentSet    = "privacy.cookie_consent_decided"
)

// Store is a viper-backed ClientStateStore. Writes go straight to disk so a
// crash never loses a consent choice or keeps a revoked token around.
type Store struct {
	mu sync.Mutex
	v  *viper.Viper
}

// NewStore opens (or creates) the state file at path
func NewStore(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("WARDWATCH")
	v.AutomaticEnv()

	v.SetDefault(keyToken, "")
	v.SetDefault(keyCookieConsent, false)
	v.SetDefault(keyConsentSet, false)

	if err := v.ReadInConfig(); err != nil {
		var notFound *os.PathError
		var cfgNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.As(err, &cfgNotFound) {
			return nil, err
		}
		if err := v.SafeWriteConfigAs(path); err != nil {
			return nil, err
		}
	}

	return &Store{v: v}, nil
}

// Token returns the stored bearer token
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(keyToken)
}

// SetToken stores the bearer token
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyToken, token)
	return s.v.WriteConfig()
}

// InvalidateSession clears persisted credentials
func (s *Store) InvalidateSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyToken, "")
	return s.v.WriteConfig()
}

// CookieConsentDecided reports whether the user has made a consent choice
func (s *Store) CookieConsentDecided() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(keyConsentSet)
}

// CookieConsent returns the stored consent choice
func (s *Store) CookieConsent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(keyCookieConsent)
}

// SetCookieConsent stores the consent choice durably
func (s *Store) SetCookieConsent(accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyCookieConsent, accepted)
	s.v.Set(keyConsentSet, true)
	return s.v.WriteConfig()
}
