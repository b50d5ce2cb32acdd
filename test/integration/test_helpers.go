//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"admin-console/internal/app"
	"admin-console/internal/config"
	"admin-console/internal/jwtclaims/tokentest"
)

const (
	adminEmail    = "admin@123"
	userEmail     = "user@shop"
	validPassword = "secret"
)

// fakeBackend imitates the e-commerce backend: PascalCase JSON, bearer
// checks and a refresh endpoint.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu            sync.Mutex
	valid         map[string]bool
	refreshTokens map[string]bool
	refreshes     int
	rejectRefresh bool
	hits          map[string]int
	issued        int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		t:             t,
		valid:         map[string]bool{},
		refreshTokens: map[string]bool{},
		hits:          map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/identity/auth/login", b.login)
	mux.HandleFunc("POST /api/identity/auth/refresh-token", b.refresh)
	mux.HandleFunc("GET /api/inventory/categories", b.categories)
	mux.HandleFunc("GET /api/sale-dashboard", b.protected(`{"TotalUsers":5,"TotalProducts":9,"TotalOrders":2,"TotalRevenue":120.5,"SalesByCategory":[],"MostSoldProducts":[]}`))
	mux.HandleFunc("GET /api/statistics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<!DOCTYPE html><html><body>You are about to visit a tunnel</body></html>")
	})
	mux.HandleFunc("POST /api/inventory/products/images", b.upload)

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.server.URL }

func (b *fakeBackend) issue(role string) (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.issued++
	email, id := adminEmail, "admin-1"
	if role != "Admin" {
		email, id = "john.doe@example.com", "user-7"
	}
	// Distinct expiries keep every issued token unique.
	access := tokentest.Mint(b.t, tokentest.Claims{
		ID:    id,
		Email: email,
		Role:  role,
		Exp:   time.Now().Add(time.Hour + time.Duration(b.issued)*time.Minute),
	})
	refresh := "ref-" + strings.Repeat("x", b.issued)
	b.valid[access] = true
	b.refreshTokens[refresh] = true
	return access, refresh
}

// revokeAccessTokens makes the backend answer 401 to every token issued so
// far while their refresh tokens stay usable.
func (b *fakeBackend) revokeAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.valid = map[string]bool{}
}

func (b *fakeBackend) setRejectRefresh(reject bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectRefresh = reject
}

func (b *fakeBackend) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshes
}

func (b *fakeBackend) hitCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[r.URL.Path]++
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return b.valid[token]
}

func writeBackendJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (b *fakeBackend) protected(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeBackendJSON(w, http.StatusOK, body)
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Password != validPassword {
		writeBackendJSON(w, http.StatusBadRequest, `{"Title":"Invalid credentials","Status":400,"ListError":{"Login":"Email or password is incorrect"}}`)
		return
	}

	role := "User"
	if payload.Email == adminEmail {
		role = "Admin"
	}
	access, refresh := b.issue(role)
	writeBackendJSON(w, http.StatusOK, `{"Token":{"AccessToken":"`+access+`","RefreshToken":"`+refresh+`"},"EmailConfirmed":true}`)
}

func (b *fakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	b.refreshes++
	ok := b.refreshTokens[payload.RefreshToken] && !b.rejectRefresh
	b.mu.Unlock()

	if !ok {
		writeBackendJSON(w, http.StatusUnauthorized, `{"Title":"Refresh token expired"}`)
		return
	}

	access, refresh := b.issue("Admin")
	writeBackendJSON(w, http.StatusOK, `{"AccessToken":"`+access+`","RefreshToken":"`+refresh+`"}`)
}

func (b *fakeBackend) categories(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		return
	}
	if !b.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeBackendJSON(w, http.StatusOK, `[
		{"Id":"1","Name":"Shoes","ParentId":null},
		{"Id":"2","Name":"Boots","ParentId":"1"},
		{"Id":"3","Name":"Hats","ParentId":null}
	]`)
}

func (b *fakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeBackendJSON(w, http.StatusBadRequest, `{"Title":"bad upload"}`)
		return
	}

	urls := []string{}
	for _, header := range r.MultipartForm.File["images"] {
		urls = append(urls, "https://cdn.example/"+header.Filename)
	}
	raw, _ := json.Marshal(map[string][]string{"Urls": urls})
	writeBackendJSON(w, http.StatusOK, string(raw))
}

// newConsole starts a console wired to backend with an in-memory state store.
func newConsole(t *testing.T, backend *fakeBackend, tweak ...func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:         "0",
		ServerReadTimeout:  5 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  30 * time.Second,
		RequestTimeout:     15 * time.Second,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       1000,
		AuthRateLimitRPM:   1000,
		BackendBaseURL:     backend.URL(),
		UpstreamTimeout:    2 * time.Second,
		LoginPath:          "/login",
		StateBackend:       config.StateBackendMemory,
		CacheTTL:           5 * time.Minute,
		UploadMaxSize:      1 << 20,
		ImageMaxDimension:  512,
	}
	for _, fn := range tweak {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate())

	console, err := app.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	console.Start(ctx)

	server := httptest.NewServer(console.Handler())
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return server
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Meta json.RawMessage `json:"meta"`
}

func doJSON(t *testing.T, method string, url string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func login(t *testing.T, console *httptest.Server, email string) (int, envelope) {
	t.Helper()
	return doJSON(t, http.MethodPost, console.URL+"/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": validPassword,
	})
}

func mustLogin(t *testing.T, console *httptest.Server) {
	t.Helper()
	status, body := login(t, console, adminEmail)
	require.Equal(t, http.StatusOK, status)
	require.True(t, body.Success)
}
