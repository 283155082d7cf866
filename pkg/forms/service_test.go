package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coded "github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/observability"
)

type recordingHooks struct {
	observability.NoopFormHooks
	submitted []string
	rejected  [][]string
	stored    []error
}

func (h *recordingHooks) OnSubmission(_ context.Context, form string) {
	h.submitted = append(h.submitted, form)
}

func (h *recordingHooks) OnRejected(_ context.Context, _ string, fields []string) {
	h.rejected = append(h.rejected, fields)
}

func (h *recordingHooks) OnStored(_ context.Context, _ string, _ time.Duration, err error) {
	h.stored = append(h.stored, err)
}

func newTestService(t *testing.T, store Store) (*Service, *recordingHooks) {
	t.Helper()
	hooks := &recordingHooks{}
	observability.SetFormHooks(hooks)
	t.Cleanup(observability.Reset)

	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
	return svc, hooks
}

func TestService_Contact(t *testing.T) {
	store := NewMemoryStore()
	svc, hooks := newTestService(t, store)

	res, err := svc.Contact(context.Background(), validContact())
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: MsgContactSent, ID: "id-1"}, res)

	saved := store.Contacts()
	require.Len(t, saved, 1)
	assert.Equal(t, "id-1", saved[0].ID)
	assert.Equal(t, validContact(), saved[0].Form)
	assert.Equal(t, []string{FormContact}, hooks.submitted)
	assert.Equal(t, []error{nil}, hooks.stored)
}

func TestService_ContactRejected(t *testing.T) {
	store := NewMemoryStore()
	svc, hooks := newTestService(t, store)

	f := validContact()
	f.Email = "nope"
	f.Name = "x"
	_, err := svc.Contact(context.Background(), f)

	require.Error(t, err)
	assert.True(t, coded.Is(err, coded.ErrCodeValidation))
	assert.Empty(t, store.Contacts())
	assert.Equal(t, [][]string{{"email", "name"}}, hooks.rejected)
	assert.Empty(t, hooks.stored)
}

func TestService_SubscribeIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	for _, email := range []string{"news@example.com", "News@Example.com"} {
		res, err := svc.Subscribe(ctx, Newsletter{Email: email})
		require.NoError(t, err)
		assert.Equal(t, MsgSubscribed, res.Message)
	}

	assert.Equal(t, 1, store.Subscribers())
}

type failingStore struct{ *MemoryStore }

func (failingStore) SaveContact(context.Context, ContactSubmission) error {
	return errors.New("disk full")
}

func TestService_StoreFailure(t *testing.T) {
	svc, hooks := newTestService(t, failingStore{NewMemoryStore()})

	_, err := svc.Contact(context.Background(), validContact())
	require.EqualError(t, err, "disk full")
	require.Len(t, hooks.stored, 1)
	assert.EqualError(t, hooks.stored[0], "disk full")
}
