package forms

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/woodfordbl/maffei-design/pkg/cache"
	"github.com/woodfordbl/maffei-design/pkg/errors"
)

// Collection names used by MongoStore.
const (
	contactsCollection      = "contact_submissions"
	subscriptionsCollection = "newsletter_subscriptions"
)

// MongoConfig selects the MongoDB deployment.
type MongoConfig struct {
	URI      string
	Database string
}

// MongoStore persists submissions in MongoDB.
type MongoStore struct {
	client   *mongo.Client
	contacts *mongo.Collection
	subs     *mongo.Collection
}

// NewMongoStore connects and pings the deployment, retrying transient
// failures with backoff.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = "maffei"
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect mongo")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "ping mongo")
	}

	db := client.Database(cfg.Database)
	return &MongoStore{
		client:   client,
		contacts: db.Collection(contactsCollection),
		subs:     db.Collection(subscriptionsCollection),
	}, nil
}

// SaveContact implements Store.
func (m *MongoStore) SaveContact(ctx context.Context, s ContactSubmission) error {
	if _, err := m.contacts.InsertOne(ctx, s); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "insert contact submission")
	}
	return nil
}

// Subscribe implements Store. The first signup for an address wins; later
// ones leave the stored document untouched.
func (m *MongoStore) Subscribe(ctx context.Context, s Subscription) (bool, error) {
	s.Email = normalizeEmail(s.Email)
	res, err := m.subs.UpdateOne(ctx,
		bson.M{"_id": s.Email},
		bson.M{"$setOnInsert": bson.M{"id": s.ID, "subscribed_at": s.SubscribedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeUnavailable, err, "upsert subscription")
	}
	return res.UpsertedCount > 0, nil
}

// Close implements Store.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
