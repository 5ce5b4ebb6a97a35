package api

import (
	"context"
	"net/http"

	"github.com/penthrey/penthrey-go/credentials"
)

// persistTokens pushes an issued token pair into the credential store. A
// store failure turns the envelope into a failure, since the client cannot
// hold the session it was just granted.
func persistTokens[T any](c *Client, resp Response[T], tokens *AuthTokens) Response[T] {
	if !resp.Ok() || tokens == nil {
		return resp
	}
	if err := c.store.Set(credentials.Pair{Access: tokens.Access, Refresh: tokens.Refresh}); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist issued tokens")
		return failure[T](err.Error())
	}
	return resp
}

// Login authenticates with email and password. On success the issued token
// pair is persisted before the envelope is returned.
func (c *Client) Login(ctx context.Context, email, password string) Response[LoginResponse] {
	resp := request[LoginResponse](ctx, c, http.MethodPost, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.Data != nil {
		return persistTokens(c, resp, resp.Data.Tokens)
	}
	return resp
}

// Register creates a new account. The invite flow returns tokens and logs
// the user straight in; the organization-owner flow requires email
// verification first and returns none.
func (c *Client) Register(ctx context.Context, data RegisterData) Response[RegisterResponse] {
	if fields := c.validateStruct(data); fields != nil {
		return fieldFailure[RegisterResponse]("validation failed", fields)
	}

	resp := request[RegisterResponse](ctx, c, http.MethodPost, "/auth/register/", data)
	if resp.Data != nil {
		return persistTokens(c, resp, resp.Data.Tokens)
	}
	return resp
}

// Logout revokes the refresh token remotely and clears the local store. The
// store is cleared even when the remote call fails, so the client never
// stays in an authenticated-looking state after a logout attempt.
func (c *Client) Logout(ctx context.Context) Response[MessageResponse] {
	refresh, _ := c.store.Refresh()
	resp := request[MessageResponse](ctx, c, http.MethodPost, "/auth/logout/", map[string]string{
		"refresh": refresh,
	})

	if err := c.store.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear credential store on logout")
		return failure[MessageResponse](err.Error())
	}
	return resp
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context) Response[User] {
	return request[User](ctx, c, http.MethodGet, "/auth/profile/", nil)
}

// UpdateProfile applies a partial profile update and returns the updated
// user.
func (c *Client) UpdateProfile(ctx context.Context, update UserUpdate) Response[User] {
	return request[User](ctx, c, http.MethodPatch, "/auth/profile/", update)
}

// RequestPasswordReset asks the backend to email a password reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) Response[MessageResponse] {
	return request[MessageResponse](ctx, c, http.MethodPost, "/auth/password/reset/", map[string]string{
		"email": email,
	})
}

// ConfirmPasswordReset completes a password reset using the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword, newPasswordConfirm string) Response[MessageResponse] {
	payload := PasswordResetConfirm{
		Token:              token,
		NewPassword:        newPassword,
		NewPasswordConfirm: newPasswordConfirm,
	}
	if fields := c.validateStruct(payload); fields != nil {
		return fieldFailure[MessageResponse]("validation failed", fields)
	}
	return request[MessageResponse](ctx, c, http.MethodPost, "/auth/password/reset/confirm/", payload)
}

// VerifyEmail confirms an email address using the emailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) Response[MessageResponse] {
	return request[MessageResponse](ctx, c, http.MethodPost, "/auth/email/verify/", map[string]string{
		"token": token,
	})
}

// ResendVerification requests a fresh verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) Response[MessageResponse] {
	return request[MessageResponse](ctx, c, http.MethodPost, "/auth/email/verify/resend/", map[string]string{
		"email": email,
	})
}

// Dashboard fetches the user dashboard summary.
func (c *Client) Dashboard(ctx context.Context) Response[Dashboard] {
	return request[Dashboard](ctx, c, http.MethodGet, "/auth/dashboard/", nil)
}
