// Package jwtclaims reads the identity claims of a bearer token without
// verifying its signature. The result is a display and authorization hint for
// the console; the backend remains the security boundary.
package jwtclaims

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimEmailAddress   = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	ClaimRole           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

type DecodedUser struct {
	ID    string
	Email string
	Role  string
	// Exp is seconds since the Unix epoch; zero when the token carries no exp.
	Exp int64
}

func (u DecodedUser) ExpiresAt() time.Time {
	return time.Unix(u.Exp, 0).UTC()
}

type payload struct {
	ID    string           `json:"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"`
	Email string           `json:"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"`
	Role  roleClaim        `json:"http://schemas.microsoft.com/ws/2008/06/identity/claims/role"`
	Exp   *jwt.NumericDate `json:"exp"`
}

// roleClaim accepts a single role string or the array form issuers emit for
// multi-role users, keeping the first entry.
type roleClaim string

func (r *roleClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = roleClaim(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if len(many) > 0 {
		*r = roleClaim(many[0])
	}
	return nil
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// standard base64 characters are folded into the URL-safe alphabet so both
// encodings decode.
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// Decode extracts the four identity claims. It reports false for anything that
// is not three dot-separated segments with a JSON object payload.
func Decode(token string) (DecodedUser, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return DecodedUser{}, false
	}

	raw, err := segmentParser.DecodeSegment(toURLAlphabet.Replace(parts[1]))
	if err != nil {
		return DecodedUser{}, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return DecodedUser{}, false
	}

	var claims payload
	if err := json.Unmarshal(raw, &claims); err != nil {
		return DecodedUser{}, false
	}

	user := DecodedUser{
		ID:    claims.ID,
		Email: claims.Email,
		Role:  string(claims.Role),
	}
	if claims.Exp != nil {
		user.Exp = claims.Exp.Unix()
	}

	return user, true
}

// UserFromToken is Decode for callers that only want the user view.
func UserFromToken(token string) (DecodedUser, bool) {
	return Decode(token)
}

// IsExpired reports whether exp lies strictly before now. Tokens that fail to
// decode count as expired.
func IsExpired(token string, now time.Time) bool {
	user, ok := Decode(token)
	if !ok {
		return true
	}
	return user.Exp < now.Unix()
}

// IsAdmin reports whether the role claim is "admin", ignoring case.
func IsAdmin(token string) bool {
	user, ok := Decode(token)
	if !ok {
		return false
	}
	return strings.EqualFold(user.Role, "admin")
}
