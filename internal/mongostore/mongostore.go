// Package mongostore provides typed MongoDB collections keyed by a string _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no document matches the id.
var ErrNotFound = errors.New("document not found")

// defaultOpTimeout bounds every single-collection operation.
const defaultOpTimeout = 5 * time.Second

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	return client, nil
}

// Collection stores documents of type T. T must map its id to the "_id" field.
type Collection[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// New returns the named collection of db.
func New[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), timeout: defaultOpTimeout}
}

func (c *Collection[T]) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// List returns every document in natural order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	cursor, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

// Get returns the document with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	var doc T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("%w: %s/%s", ErrNotFound, c.coll.Name(), id)
	}
	if err != nil {
		return doc, fmt.Errorf("fetching %s/%s: %w", c.coll.Name(), id, err)
	}
	return doc, nil
}

// Create inserts doc.
func (c *Collection[T]) Create(ctx context.Context, doc T) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting into %s: %w", c.coll.Name(), err)
	}
	return nil
}

// Replace overwrites the document with the given id.
func (c *Collection[T]) Replace(ctx context.Context, id string, doc T) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replacing %s/%s: %w", c.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, c.coll.Name(), id)
	}
	return nil
}

// Upsert replaces the document with the given id, inserting it if absent.
func (c *Collection[T]) Upsert(ctx context.Context, id string, doc T) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return fmt.Errorf("upserting %s/%s: %w", c.coll.Name(), id, err)
	}
	return nil
}

// Delete removes the document with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, c.coll.Name(), id)
	}
	return nil
}

// DeleteAll removes every document and returns how many were removed.
func (c *Collection[T]) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	res, err := c.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("clearing %s: %w", c.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// EnsureTTL creates a TTL index so MongoDB drops documents once field
// (a date) is older than after.
func (c *Collection[T]) EnsureTTL(ctx context.Context, field string, after time.Duration) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(after.Seconds())),
	}
	if _, err := c.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating TTL index on %s.%s: %w", c.coll.Name(), field, err)
	}
	return nil
}
