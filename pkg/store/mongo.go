package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ Connection = (*MongoConnection)(nil)

// mongoSessionDoc is one session record. The server-side TTL monitor
// deletes documents once expiresAt passes; reads additionally filter on
// expiresAt because the monitor only sweeps about once a minute.
type mongoSessionDoc struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoConnection satisfies the same contract as RedisConnection over a
// TTL-indexed collection, one document per session key.
type MongoConnection struct {
	cfg MongoConfig
	log *slog.Logger

	mu     sync.Mutex
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoConnection builds an unconnected MongoConnection. The first data
// operation connects on demand.
func NewMongoConnection(cfg MongoConfig, opts ...Option) *MongoConnection {
	s := applyOptions(opts)
	return &MongoConnection{cfg: cfg, log: s.logger}
}

// Connect dials the server, validates the link with a ping and makes sure
// the TTL index on expiresAt exists. Attempts are spaced by RetryInterval
// times the attempt number. Idempotent.
func (c *MongoConnection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}

	attempts := max(c.cfg.RetryAttempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(c.cfg.ConnectionURL).
				SetConnectTimeout(c.cfg.ConnectTimeout).
				SetServerSelectionTimeout(c.cfg.ConnectTimeout),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				coll := client.Database(c.cfg.Database).Collection(c.cfg.Collection)
				if err := c.ensureTTLIndex(ctx, coll); err != nil {
					_ = client.Disconnect(context.Background())
					return err
				}
				c.client = client
				c.coll = coll
				return nil
			}
			_ = client.Disconnect(context.Background())
		}

		// No backoff after the final attempt; the caller gets the error
		// immediately.
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s after %d attempts", ErrConnectFailed, c.addr(), attempt)
		case <-time.After(c.cfg.RetryInterval * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrConnectFailed, c.addr(), attempts)
}

// ensureTTLIndex creates the expiry index. expireAfterSeconds 0 means the
// server deletes a document the moment its expiresAt passes.
func (c *MongoConnection) ensureTTLIndex(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("%w: %s ttl index: %v", ErrConnectFailed, c.addr(), err)
	}
	return nil
}

// Connected reports whether the client has been established.
func (c *MongoConnection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

func (c *MongoConnection) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	coll, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	var doc mongoSessionDoc
	err = coll.FindOne(ctx, c.liveFilter(key)).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case err != nil:
		return nil, c.unavailable(ctx, "get", key, err)
	}
	return doc.Data, nil
}

func (c *MongoConnection) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	coll, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	doc := mongoSessionDoc{
		Key:       c.prefixed(key),
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return c.unavailable(ctx, "set", key, err)
	}
	return nil
}

func (c *MongoConnection) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	coll, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": c.prefixed(key)}); err != nil {
		return c.unavailable(ctx, "delete", key, err)
	}
	return nil
}

func (c *MongoConnection) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	coll, err := c.ensure(ctx)
	if err != nil {
		return false, err
	}
	n, err := coll.CountDocuments(ctx, c.liveFilter(key), options.Count().SetLimit(1))
	if err != nil {
		return false, c.unavailable(ctx, "exists", key, err)
	}
	return n > 0, nil
}

func (c *MongoConnection) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	coll, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, c.liveFilter(key),
		bson.M{"$set": bson.M{"expiresAt": time.Now().Add(ttl)}})
	if err != nil {
		return c.unavailable(ctx, "refresh_ttl", key, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ScanKeys walks live document ids with a batched cursor. The prefix is
// matched server-side with an anchored regex; the glob runs client-side
// against the stripped key.
func (c *MongoConnection) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}
	coll, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"expiresAt": bson.M{"$gt": time.Now()}}
	if c.cfg.KeyPrefix != "" {
		filter["_id"] = bson.M{"$regex": "^" + regexp.QuoteMeta(c.cfg.KeyPrefix)}
	}
	cur, err := coll.Find(ctx, filter, options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetBatchSize(int32(c.cfg.ScanBatchSize)))
	if err != nil {
		return nil, c.unavailable(ctx, "scan", pattern, err)
	}
	defer cur.Close(ctx)

	keys := make([]string, 0, c.cfg.ScanBatchSize)
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, c.unavailable(ctx, "scan", pattern, err)
		}
		key := strings.TrimPrefix(doc.Key, c.cfg.KeyPrefix)
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, c.unavailable(ctx, "scan", pattern, err)
	}
	return keys, nil
}

// Close is a no-op for persistent connections; otherwise it disconnects
// the client so the next operation reconnects.
func (c *MongoConnection) Close() error {
	if c.cfg.Persistent {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(context.Background())
	c.client = nil
	c.coll = nil
	return err
}

func (c *MongoConnection) ensure(ctx context.Context) (*mongo.Collection, error) {
	if err := c.Connect(ctx); err != nil {
		c.log.ErrorContext(ctx, "session store unreachable",
			slog.String("store", "mongo"),
			slog.String("error", err.Error()))
		return nil, ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coll, nil
}

func (c *MongoConnection) unavailable(ctx context.Context, op, key string, err error) error {
	c.log.ErrorContext(ctx, "mongo operation failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()))
	return ErrUnavailable
}

func (c *MongoConnection) prefixed(key string) string {
	return c.cfg.KeyPrefix + key
}

// liveFilter matches the key only while it is unexpired.
func (c *MongoConnection) liveFilter(key string) bson.M {
	return bson.M{
		"_id":       c.prefixed(key),
		"expiresAt": bson.M{"$gt": time.Now()},
	}
}

// addr reduces the connection URL to its host part so error messages never
// carry the credential.
func (c *MongoConnection) addr() string {
	u, err := url.Parse(c.cfg.ConnectionURL)
	if err != nil || u.Host == "" {
		return "mongodb"
	}
	return u.Host
}
