// Package session derives the client's authentication state from the API
// layer and exposes it to the presentation layer. The presentation layer
// talks only to the Controller; it never touches the credential store.
package session

import (
	"context"
	"sync"

	"github.com/penthrey/penthrey-go/api"
	"github.com/penthrey/penthrey-go/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ClientRequiredErr = errors.New("api client is required")
	StoreRequiredErr  = errors.New("credential store is required")
)

// Status is the controller's authentication state.
type Status string

const (
	StatusInitializing  Status = "initializing"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// View is the read-only side of the Controller, handed to renderers that
// must not mutate session state.
type View interface {
	Status() Status
	CurrentUser() *api.User
	IsAuthenticated() bool
	Loading() bool
	LastError() string
}

// Controller tracks the current identity, a loading flag, and the last
// error. It starts in StatusInitializing; Init resolves it to
// StatusAuthenticated or StatusAnonymous from the persisted credentials.
type Controller struct {
	mu     sync.RWMutex
	client *api.Client
	store  credentials.Store
	logger zerolog.Logger

	status  Status
	user    *api.User
	loading bool
	lastErr string
}

// ControllerOption modifies the Controller during construction.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger. The default discards everything.
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(sc *Controller) {
		sc.logger = logger
	}
}

// NewController creates a Controller over client and store. It registers
// itself as the client's session-expired handler, so a failed renewal
// anywhere in the API layer drops the controller to StatusAnonymous.
func NewController(client *api.Client, store credentials.Store, options ...ControllerOption) (*Controller, error) {
	if client == nil {
		return nil, ClientRequiredErr
	}
	if store == nil {
		return nil, StoreRequiredErr
	}

	sc := &Controller{
		client: client,
		store:  store,
		logger: zerolog.Nop(),
		status: StatusInitializing,
	}

	for _, opt := range options {
		opt(sc)
	}

	client.OnSessionExpired(sc.handleSessionExpired)
	return sc, nil
}

var _ View = (*Controller)(nil)

// Init resolves the initial state. With no stored credentials the
// controller is anonymous; otherwise a profile fetch decides. A failed
// fetch (including a failed renewal inside it) forces a logout.
func (sc *Controller) Init(ctx context.Context) {
	if !sc.store.IsAuthenticated() {
		sc.setAnonymous()
		return
	}

	sc.setLoading(true)
	resp := sc.client.Profile(ctx)
	if !resp.Ok() || resp.Data == nil {
		sc.logger.Warn().Str("error", resp.Error).Msg("stored session invalid, logging out")
		sc.Logout(ctx)
		return
	}

	sc.mu.Lock()
	sc.status = StatusAuthenticated
	sc.user = resp.Data
	sc.loading = false
	sc.mu.Unlock()
}

// Login authenticates and, on success, transitions to StatusAuthenticated.
func (sc *Controller) Login(ctx context.Context, email, password string) bool {
	sc.beginOperation()

	resp := sc.client.Login(ctx, email, password)
	if !resp.Ok() || resp.Data == nil || resp.Data.User == nil {
		sc.failOperation(resp.Error)
		return false
	}

	sc.mu.Lock()
	sc.status = StatusAuthenticated
	sc.user = resp.Data.User
	sc.loading = false
	sc.mu.Unlock()
	return true
}

// Register creates an account. The invite flow auto-logs-in and yields
// StatusAuthenticated; the organization-owner flow leaves the controller
// anonymous until the email is verified and the user logs in.
func (sc *Controller) Register(ctx context.Context, data api.RegisterData) bool {
	sc.beginOperation()

	resp := sc.client.Register(ctx, data)
	if !resp.Ok() || resp.Data == nil {
		sc.failOperation(resp.Error)
		return false
	}

	sc.mu.Lock()
	if resp.Data.Tokens != nil {
		sc.status = StatusAuthenticated
		sc.user = resp.Data.User
	}
	sc.loading = false
	sc.mu.Unlock()
	return true
}

// Logout ends the session. Local state and credentials are dropped even if
// the remote logout call fails.
func (sc *Controller) Logout(ctx context.Context) {
	sc.setLoading(true)

	if resp := sc.client.Logout(ctx); !resp.Ok() {
		sc.logger.Warn().Str("error", resp.Error).Msg("remote logout failed")
	}
	sc.setAnonymous()
}

// UpdateUser applies a partial profile update and refreshes the held
// identity. Credentials are not touched.
func (sc *Controller) UpdateUser(ctx context.Context, update api.UserUpdate) bool {
	sc.resetError()

	resp := sc.client.UpdateProfile(ctx, update)
	if !resp.Ok() || resp.Data == nil {
		sc.failOperation(resp.Error)
		return false
	}

	sc.mu.Lock()
	sc.user = resp.Data
	sc.mu.Unlock()
	return true
}

// RefreshUser re-fetches the profile and refreshes the held identity.
// Credentials are not touched; a failed fetch leaves the old identity.
func (sc *Controller) RefreshUser(ctx context.Context) {
	resp := sc.client.Profile(ctx)
	if !resp.Ok() || resp.Data == nil {
		sc.logger.Warn().Str("error", resp.Error).Msg("failed to refresh user")
		return
	}

	sc.mu.Lock()
	sc.user = resp.Data
	sc.mu.Unlock()
}

// ClearError resets the last-error slot without any other side effect.
func (sc *Controller) ClearError() {
	sc.resetError()
}

// Status returns the current authentication state.
func (sc *Controller) Status() Status {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.status
}

// CurrentUser returns the held identity, or nil when anonymous.
func (sc *Controller) CurrentUser() *api.User {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.user
}

// IsAuthenticated reports whether an identity is currently held.
func (sc *Controller) IsAuthenticated() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.status == StatusAuthenticated && sc.user != nil
}

// Loading reports whether an operation is in flight.
func (sc *Controller) Loading() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.loading
}

// LastError returns the last operation's error message, if any.
func (sc *Controller) LastError() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.lastErr
}

// handleSessionExpired runs after the API layer cleared the credentials
// because renewal failed. Only local state changes here; no remote calls.
func (sc *Controller) handleSessionExpired() {
	sc.logger.Warn().Msg("session expired, returning to anonymous state")
	sc.setAnonymous()
}

func (sc *Controller) beginOperation() {
	sc.mu.Lock()
	sc.loading = true
	sc.lastErr = ""
	sc.mu.Unlock()
}

func (sc *Controller) failOperation(message string) {
	if message == "" {
		message = "operation failed"
	}
	sc.mu.Lock()
	sc.lastErr = message
	sc.loading = false
	sc.mu.Unlock()
}

func (sc *Controller) setAnonymous() {
	sc.mu.Lock()
	sc.status = StatusAnonymous
	sc.user = nil
	sc.loading = false
	sc.mu.Unlock()
}

func (sc *Controller) setLoading(loading bool) {
	sc.mu.Lock()
	sc.loading = loading
	sc.mu.Unlock()
}

func (sc *Controller) resetError() {
	sc.mu.Lock()
	sc.lastErr = ""
	sc.mu.Unlock()
}
