package apiclient

import (
	"context"
	"log/slog"
	"net/http"

	"admin-console/internal/model"
)

const loginRetries = 2

// Login posts credentials without a bearer token. The returned tokens are not
// persisted; validating and storing them is up to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	var resp model.LoginResponse
	err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     EndpointLogin,
		Body:     model.LoginRequest{Email: email, Password: password},
		SkipAuth: true,
		Retries:  loginRetries,
	}, &resp)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if resp.Token.AccessToken == "" {
		return model.LoginResponse{}, &Error{Kind: KindMalformed, Message: "login response carried no access token"}
	}
	return resp, nil
}

// Logout is local only; the backend keeps no session to end.
func (c *Client) Logout(ctx context.Context) error {
	slog.Info("logging out")
	return c.tokens.Clear(ctx)
}
