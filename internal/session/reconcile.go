package session

import (
	"strings"
	"time"

	"admin-console/internal/jwtclaims"
	"admin-console/internal/model"
)

type Status int

const (
	Unauthenticated Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Reason explains an Unauthenticated state.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoToken      Reason = "no_token"
	ReasonInvalidToken Reason = "invalid_token"
	ReasonNotAdmin     Reason = "not_admin"
	ReasonExpired      Reason = "expired_token"
	ReasonLoggedOut    Reason = "logged_out"
)

// State is the outcome of validating stored credentials. Session is set only
// when Status is Authenticated.
type State struct {
	Status  Status
	Reason  Reason
	Session *model.Session
}

func (s State) Authenticated() bool {
	return s.Status == Authenticated && s.Session != nil
}

// Policy is what a token has to satisfy to open a session.
type Policy struct {
	Role string
}

var DefaultPolicy = Policy{Role: model.RoleAdmin}

// Reconcile decides the session state for a stored token pair at instant now.
// It has no side effects.
func Reconcile(tokens model.TokenPair, now time.Time, policy Policy) State {
	if tokens.AccessToken == "" {
		return State{Status: Unauthenticated, Reason: ReasonNoToken}
	}

	user, ok := jwtclaims.Decode(tokens.AccessToken)
	if !ok {
		return State{Status: Unauthenticated, Reason: ReasonInvalidToken}
	}

	if policy.Role != "" && !strings.EqualFold(user.Role, policy.Role) {
		return State{Status: Unauthenticated, Reason: ReasonNotAdmin}
	}

	if jwtclaims.IsExpired(tokens.AccessToken, now) {
		return State{Status: Unauthenticated, Reason: ReasonExpired}
	}

	return State{
		Status: Authenticated,
		Session: &model.Session{
			User: model.SessionUser{
				ID:    user.ID,
				Email: user.Email,
				Role:  strings.ToLower(user.Role),
			},
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresAt:    user.ExpiresAt(),
		},
	}
}
