package session

import (
	"errors"
	"net/http"

	"admin-console/internal/apiclient"
)

type LoginReason string

const (
	LoginInvalidCredentials LoginReason = "invalid_credentials"
	LoginNetworkError       LoginReason = "network_error"
	LoginAccessDenied       LoginReason = "access_denied"
	LoginExpiredToken       LoginReason = "expired_token"
	LoginUnknown            LoginReason = "unknown"
)

func (r LoginReason) Message() string {
	switch r {
	case LoginInvalidCredentials:
		return "Invalid email or password"
	case LoginNetworkError:
		return "Cannot reach the server, check your connection and try again"
	case LoginAccessDenied:
		return "Access denied: admin role required"
	case LoginExpiredToken:
		return "The server issued an expired token, try again"
	default:
		return "Login failed, please try again"
	}
}

type LoginError struct {
	Reason LoginReason
	Err    error
}

func (e *LoginError) Error() string {
	if e.Err == nil {
		return e.Reason.Message()
	}
	return e.Reason.Message() + ": " + e.Err.Error()
}

func (e *LoginError) Unwrap() error { return e.Err }

// loginReason classifies a backend failure during login by its kind.
func loginReason(err error) LoginReason {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return LoginUnknown
	}

	switch apiErr.Kind {
	case apiclient.KindNetwork, apiclient.KindTimeout, apiclient.KindPoisoned, apiclient.KindMalformed:
		return LoginNetworkError
	case apiclient.KindAuthForbidden:
		return LoginAccessDenied
	case apiclient.KindHTTPStatus:
		switch {
		case apiErr.Status >= http.StatusInternalServerError:
			return LoginNetworkError
		case apiErr.Status == http.StatusForbidden:
			return LoginAccessDenied
		case apiErr.Status >= http.StatusBadRequest:
			return LoginInvalidCredentials
		}
	}
	return LoginUnknown
}
