package credentials

import "errors"

var (
	IncompletePairErr = errors.New("credential pair must hold both an access and a refresh token")
	StorePathErr      = errors.New("credential store path is required")
)

// Pair holds the two tokens that make up a session. The access token is
// short-lived and attached to every authenticated API call; the refresh
// token is longer-lived and used only to mint a new access token once the
// old one is rejected by the backend.
type Pair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Store persists a credential pair across process restarts. It is the single
// source of truth for whether the client currently has a session. A store
// either holds a complete pair or nothing; expiry of the tokens is never
// checked locally and is only discovered by a failed remote call.
type Store interface {
	// Set persists both tokens. The pair must be complete.
	Set(pair Pair) error

	// Access returns the stored access token, if any.
	Access() (string, bool)

	// Refresh returns the stored refresh token, if any.
	Refresh() (string, bool)

	// Clear removes both tokens.
	Clear() error

	// IsAuthenticated reports whether an access token is present.
	IsAuthenticated() bool
}
