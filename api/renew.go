package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/penthrey/penthrey-go/credentials"
	"github.com/pkg/errors"
)

var (
	NoRefreshTokenErr = errors.New("no refresh token available")
	RenewalFailedErr  = errors.New("token renewal rejected")
)

// renewResponse is the body of a successful token refresh. The backend does
// not rotate refresh tokens, so only a new access token comes back.
type renewResponse struct {
	Access string `json:"access"`
}

// renewAccessToken exchanges the stored refresh token for a new access token
// and stores the resulting pair. Exactly one attempt is made per call.
// Renewals are not deduplicated: concurrent 401s each issue their own
// refresh call. TODO: coalesce concurrent renewals with singleflight.
func (c *Client) renewAccessToken(ctx context.Context) error {
	refresh, ok := c.store.Refresh()
	if !ok {
		return NoRefreshTokenErr
	}

	status, raw, err := c.send(ctx, http.MethodPost, "/auth/token/refresh/", map[string]string{"refresh": refresh}, "")
	if err != nil {
		return errors.Wrap(err, "[Client.renewAccessToken] refresh call")
	}
	if status < 200 || status >= 300 {
		return errors.Wrapf(RenewalFailedErr, "[Client.renewAccessToken] status %d", status)
	}

	var body renewResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return errors.Wrap(err, "[Client.renewAccessToken] decode refresh response")
	}
	if body.Access == "" {
		return errors.Wrap(RenewalFailedErr, "[Client.renewAccessToken] empty access token")
	}

	if err := c.store.Set(credentials.Pair{Access: body.Access, Refresh: refresh}); err != nil {
		return errors.Wrap(err, "[Client.renewAccessToken] store renewed pair")
	}
	return nil
}

// expireSession clears local credentials and notifies the shell that the
// session is gone, the client-side analogue of redirecting to the login page.
func (c *Client) expireSession(cause error) {
	c.logger.Warn().Err(cause).Msg("session renewal failed, clearing credentials")

	if err := c.store.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear credential store")
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
