package providers

// TokenSource supplies the bearer token attached to every backend call
type TokenSource interface {
	Token() string
}

// ClientStateStore persists durable client-side flags and credentials.
// Session-scoped flags (insight dismissal) deliberately live elsewhere,
// in memory, so they die with the process.
type ClientStateStore interface {
	TokenSource

	// SetToken stores the bearer token
	SetToken(token string) error

	// InvalidateSession clears persisted credentials. Called by the
	// transport when the backend reports an invalid token.
	InvalidateSession() error

	// CookieConsentDecided reports whether the user has made a consent choice
	CookieConsentDecided() bool

	// CookieConsent returns the stored consent choice
	CookieConsent() bool

	// SetCookieConsent stores the consent choice durably
	SetCookieConsent(accepted bool) error
}
