package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"unicode/utf8"

	"admin-console/internal/model"
)

// Kind classifies every failure the client can return.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindTimeout
	KindPoisoned
	KindMalformed
	KindHTTPStatus
	KindAuthExpired
	KindAuthForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindPoisoned:
		return "poisoned_response"
	case KindMalformed:
		return "malformed_body"
	case KindHTTPStatus:
		return "http_status"
	case KindAuthExpired:
		return "auth_expired"
	case KindAuthForbidden:
		return "auth_forbidden"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrRefreshFailed  = errors.New("token refresh failed")
)

const poisonedGuidance = "backend answered with an HTML page instead of JSON; " +
	"a tunnel or proxy interstitial is likely in front of the API, check BACKEND_BASE_URL and open it once in a browser"

// Error is the only error type returned by Client for backend interactions.
type Error struct {
	Kind Kind
	// Status is the HTTP status when a response was received.
	Status int
	// Payload is the case-converted error body for KindHTTPStatus.
	Payload any
	// Snippet holds the start of an unusable body.
	Snippet string
	// LoginPath is set on auth failures that ended the session.
	LoginPath string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}

	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// BackendError decodes Payload into the backend's error shape.
func (e *Error) BackendError() (model.BackendError, bool) {
	var be model.BackendError
	if e.Payload == nil {
		return be, false
	}
	if err := remarshal(e.Payload, &be); err != nil {
		return be, false
	}
	return be, true
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// retryable reports whether another attempt could plausibly succeed.
func retryable(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindHTTPStatus:
		return apiErr.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// backendMessage picks a human readable message out of a backend error body.
func backendMessage(payload any) string {
	body, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"title", "message", "detail", "msgNo"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	if list, ok := body["listError"].(map[string]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func remarshal(src any, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// Summary condenses a failure into a title and one description line, the
// way the dashboard shows backend errors to the operator. The description is
// the first validation message (by field name) or the first business rule
// message when the backend sent one.
func Summary(err error) (title string, description string, status int) {
	title, description, status = "An error occurred", "Please try again later", http.StatusInternalServerError

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		if err != nil {
			title = "Request Failed"
			description = truncate(err.Error(), 100)
		}
		return title, description, status
	}

	if apiErr.Status != 0 {
		status = apiErr.Status
	}
	be, ok := apiErr.BackendError()
	if !ok {
		return "Request Failed", truncate(apiErr.Error(), 100), status
	}

	title = "Error"
	if be.Title != "" {
		title = be.Title
	}
	if be.Status != 0 {
		status = be.Status
	}

	switch {
	case len(be.Errors) > 0:
		field := firstKey(be.Errors)
		if msgs := be.Errors[field]; len(msgs) > 0 {
			description = field + ": " + msgs[0]
		}
	case len(be.ListError) > 0:
		description = be.ListError[firstKey(be.ListError)]
	default:
		description = apiErr.Error()
	}
	return title, description, status
}

func firstKey[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
