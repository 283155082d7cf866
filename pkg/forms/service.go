package forms

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/observability"
)

// Result is returned to the submitter on success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Service validates submissions and stores the accepted ones.
type Service struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

// NewService returns a service backed by store. A nil logger discards output.
func NewService(store Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Contact handles a contact form submission.
func (s *Service) Contact(ctx context.Context, f ContactForm) (Result, error) {
	hooks := observability.Forms()
	hooks.OnSubmission(ctx, FormContact)

	if err := f.Validate(); err != nil {
		hooks.OnRejected(ctx, FormContact, fieldNames(err))
		s.logger.Debug("contact form rejected", "fields", fieldNames(err))
		return Result{}, err
	}

	sub := ContactSubmission{ID: s.newID(), Form: f, SubmittedAt: s.now().UTC()}
	start := time.Now()
	err := s.store.SaveContact(ctx, sub)
	hooks.OnStored(ctx, FormContact, time.Since(start), err)
	if err != nil {
		s.logger.Error("store contact submission", "id", sub.ID, "err", err)
		return Result{}, err
	}

	s.logger.Info("contact form received", "id", sub.ID, "subject", f.Subject)
	return Result{Success: true, Message: MsgContactSent, ID: sub.ID}, nil
}

// Subscribe handles a newsletter signup. Repeat signups succeed without
// creating a second subscription.
func (s *Service) Subscribe(ctx context.Context, n Newsletter) (Result, error) {
	hooks := observability.Forms()
	hooks.OnSubmission(ctx, FormNewsletter)

	if err := n.Validate(); err != nil {
		hooks.OnRejected(ctx, FormNewsletter, fieldNames(err))
		return Result{}, err
	}

	sub := Subscription{ID: s.newID(), Email: n.Email, SubscribedAt: s.now().UTC()}
	start := time.Now()
	created, err := s.store.Subscribe(ctx, sub)
	hooks.OnStored(ctx, FormNewsletter, time.Since(start), err)
	if err != nil {
		s.logger.Error("store subscription", "err", err)
		return Result{}, err
	}

	s.logger.Info("newsletter subscription", "new", created)
	return Result{Success: true, Message: MsgSubscribed}, nil
}

// Close releases the underlying store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

func fieldNames(err error) []string {
	fields := errors.FieldErrors(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
