package forms

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ContactSubmission is an accepted contact form.
type ContactSubmission struct {
	ID          string      `json:"id" bson:"_id"`
	Form        ContactForm `json:"form" bson:"form"`
	SubmittedAt time.Time   `json:"submitted_at" bson:"submitted_at"`
}

// Subscription is a newsletter signup. Email is stored lowercased and is the
// identity of the subscription.
type Subscription struct {
	ID           string    `json:"id" bson:"id"`
	Email        string    `json:"email" bson:"_id"`
	SubscribedAt time.Time `json:"subscribed_at" bson:"subscribed_at"`
}

// Store persists accepted submissions.
type Store interface {
	SaveContact(ctx context.Context, s ContactSubmission) error
	// Subscribe records a signup. Signing up an address twice is not an
	// error; created reports whether the address was new.
	Subscribe(ctx context.Context, s Subscription) (created bool, err error)
	Close(ctx context.Context) error
}

// normalizeEmail is the key subscriptions are stored under.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryStore keeps submissions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	contacts []ContactSubmission
	subs     map[string]Subscription
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

// SaveContact implements Store.
func (m *MemoryStore) SaveContact(_ context.Context, s ContactSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, s)
	return nil
}

// Subscribe implements Store.
func (m *MemoryStore) Subscribe(_ context.Context, s Subscription) (bool, error) {
	key := normalizeEmail(s.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[key]; ok {
		return false, nil
	}
	s.Email = key
	m.subs[key] = s
	return true, nil
}

// Close implements Store.
func (m *MemoryStore) Close(context.Context) error { return nil }

// Contacts returns a copy of the stored contact submissions in arrival order.
func (m *MemoryStore) Contacts() []ContactSubmission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ContactSubmission, len(m.contacts))
	copy(out, m.contacts)
	return out
}

// Subscribers returns the number of distinct subscribed addresses.
func (m *MemoryStore) Subscribers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}
