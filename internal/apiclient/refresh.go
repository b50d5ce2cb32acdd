package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"admin-console/internal/event"
	"admin-console/internal/jwtclaims"
	"admin-console/internal/model"
)

const refreshKey = "refresh"

// Refresh exchanges the stored refresh token for a new token pair. Concurrent
// callers share one backend call. Only a pair whose access token carries the
// admin role is persisted; every failure clears the stored tokens and
// publishes a session expiry.
func (c *Client) Refresh(ctx context.Context) (model.TokenPair, error) {
	// detached so one caller giving up does not fail the others waiting on it
	ctx = context.WithoutCancel(ctx)

	v, err, shared := c.refreshing.Do(refreshKey, func() (any, error) {
		return c.refresh(ctx)
	})
	if shared {
		slog.Debug("token refresh shared with concurrent caller")
	}
	if err != nil {
		return model.TokenPair{}, err
	}
	return v.(model.TokenPair), nil
}

func (c *Client) refresh(ctx context.Context) (model.TokenPair, error) {
	refreshToken, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{
			Kind: KindAuthExpired,
			Err:  fmt.Errorf("%w: read refresh token: %w", ErrRefreshFailed, err),
		})
	}
	if refreshToken == "" {
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{Kind: KindAuthExpired, Err: ErrNoRefreshToken})
	}

	req := Request{
		Method:   http.MethodPost,
		Path:     EndpointRefreshToken,
		Body:     model.RefreshTokenRequest{RefreshToken: refreshToken},
		SkipAuth: true,
	}
	body, err := req.encodeBody()
	if err != nil {
		return model.TokenPair{}, err
	}

	resp, err := c.send(ctx, &req, body)
	if err != nil {
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{
			Kind: KindAuthExpired,
			Err:  fmt.Errorf("%w: %w", ErrRefreshFailed, err),
		})
	}
	if !resp.ok() {
		payload, _ := decodeJSON(resp.body)
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{
			Kind:    KindAuthExpired,
			Status:  resp.status,
			Payload: KeysToCamel(payload),
			Err:     ErrRefreshFailed,
		})
	}

	value, err := parse(resp)
	if err != nil {
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{
			Kind:   KindAuthExpired,
			Status: resp.status,
			Err:    fmt.Errorf("%w: %w", ErrRefreshFailed, err),
		})
	}

	var pair model.RefreshTokenResponse
	if err := decodeInto(value, &pair); err != nil || pair.AccessToken == "" {
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{
			Kind:    KindAuthExpired,
			Status:  resp.status,
			Message: "refresh response carried no access token",
			Err:     ErrRefreshFailed,
		})
	}

	if !jwtclaims.IsAdmin(pair.AccessToken) {
		return model.TokenPair{}, c.refreshFailed(ctx, &Error{
			Kind:    KindAuthForbidden,
			Message: "access denied: admin role required",
		})
	}

	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	if err := c.tokens.Save(ctx, pair); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist refreshed tokens: %w", err)
	}

	user, _ := jwtclaims.Decode(pair.AccessToken)
	slog.Info("access token refreshed", "user_id", user.ID, "expires_at", user.ExpiresAt())
	c.bus.Publish(event.New(event.TypeTokenRefreshed, event.TokenRefreshed{
		UserID:    user.ID,
		ExpiresAt: user.ExpiresAt(),
	}))

	return pair, nil
}

// refreshFailed tears the stored credentials down and signals that the
// operator must log in again.
func (c *Client) refreshFailed(ctx context.Context, err *Error) error {
	slog.Warn("token refresh failed", "kind", err.Kind, "error", err)
	err.LoginPath = c.loginPath
	c.Expire(ctx, err.Kind.String())
	return err
}

// Expire clears the stored tokens and publishes TypeSessionExpired.
func (c *Client) Expire(ctx context.Context, reason string) {
	if err := c.tokens.Clear(ctx); err != nil {
		slog.Error("clear tokens failed", "error", err)
	}
	c.bus.Publish(event.New(event.TypeSessionExpired, event.SessionExpired{
		Reason:    reason,
		LoginPath: c.loginPath,
	}))
}
