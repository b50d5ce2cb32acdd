package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSessionLoggedIn  Type = "session.logged_in"
	TypeSessionLoggedOut Type = "session.logged_out"
	TypeSessionExpired   Type = "session.expired"
	TypeTokenRefreshed   Type = "token.refreshed"
	TypeCacheCleared     Type = "cache.cleared"
	TypeCategoryChanged  Type = "category.changed"
	TypeProductChanged   Type = "product.changed"
	TypeCustomerChanged  Type = "customer.changed"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// New stamps an event with an id and the current UTC time.
func New(t Type, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// SessionExpired is the payload of TypeSessionExpired. LoginPath is where the
// operator has to go to sign in again.
type SessionExpired struct {
	Reason    string `json:"reason"`
	LoginPath string `json:"loginPath"`
}

type TokenRefreshed struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Change is the payload of the *.changed events.
type Change struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

// Nop discards everything. Useful where a component needs a Bus but nobody
// listens.
type Nop struct{}

func (Nop) Publish(Event) {}

func (Nop) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event)
	close(ch)
	return ch, func() {}
}
