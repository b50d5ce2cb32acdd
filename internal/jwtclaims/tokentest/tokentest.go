// Package tokentest mints bearer tokens shaped like the identity service's for
// use in tests.
package tokentest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"admin-console/internal/jwtclaims"
)

const signingKey = "console-test-key"

type Claims struct {
	ID    string
	Email string
	Role  string
	// Exp is used verbatim when non-zero.
	Exp time.Time
}

// Mint signs a token carrying the identity claim URIs. The signature is real
// but the console never checks it.
func Mint(t testing.TB, c Claims) string {
	t.Helper()

	claims := jwt.MapClaims{
		jwtclaims.ClaimNameIdentifier: c.ID,
		jwtclaims.ClaimEmailAddress:   c.Email,
		jwtclaims.ClaimRole:           c.Role,
		"iss":                         "identity",
		"aud":                         "admin-panel",
	}
	if !c.Exp.IsZero() {
		claims["exp"] = c.Exp.Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

// Admin mints a token for an admin that expires after ttl.
func Admin(t testing.TB, ttl time.Duration) string {
	t.Helper()
	return Mint(t, Claims{ID: "admin-1", Email: "admin@123", Role: "Admin", Exp: time.Now().Add(ttl)})
}

// User mints a token for a non-admin user that expires after ttl.
func User(t testing.TB, ttl time.Duration) string {
	t.Helper()
	return Mint(t, Claims{ID: "user-7", Email: "john.doe@example.com", Role: "User", Exp: time.Now().Add(ttl)})
}
