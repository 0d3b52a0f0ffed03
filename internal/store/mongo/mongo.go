// Package mongo reads task documents from a MongoDB collection. A client is
// connected per request and disconnected when the request is done.
package mongo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/user/wootbridge/internal/store"
	"github.com/user/wootbridge/internal/types"
)

// Config describes how to reach the task database. URI, when set, takes
// precedence over Host and Port.
type Config struct {
	URI        string
	Host       string
	Port       int
	User       string
	Password   string
	AuthSource string
	Database   string
}

// Store connects a fresh client for every Open.
type Store struct {
	cfg  Config
	opts store.Options
}

var _ types.TaskStore = (*Store)(nil)

// New creates a Store. No connection is made until Open.
func New(cfg Config, opts store.Options) (*Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}
	if cfg.URI == "" && cfg.Host == "" {
		return nil, fmt.Errorf("mongo host or uri is required")
	}
	return &Store{cfg: cfg, opts: opts.WithDefaults()}, nil
}

// ClientOptions builds the driver options for the configured server.
func (s *Store) ClientOptions() *options.ClientOptions {
	opts := options.Client()
	if s.cfg.URI != "" {
		opts.ApplyURI(s.cfg.URI)
	} else {
		port := s.cfg.Port
		if port == 0 {
			port = 27017
		}
		opts.SetHosts([]string{net.JoinHostPort(s.cfg.Host, strconv.Itoa(port))})
	}
	if s.cfg.User != "" {
		cred := options.Credential{
			Username: s.cfg.User,
			Password: s.cfg.Password,
		}
		if s.cfg.AuthSource != "" {
			cred.AuthSource = s.cfg.AuthSource
		}
		opts.SetAuth(cred)
	}
	opts.SetServerSelectionTimeout(5 * time.Second)
	return opts
}

// Open connects a new client scoped to one request.
func (s *Store) Open(ctx context.Context) (types.TaskConn, error) {
	client, err := mongo.Connect(ctx, s.ClientOptions())
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &Conn{
		client: client,
		coll:   client.Database(s.cfg.Database).Collection(s.opts.Collection),
		opts:   s.opts,
	}, nil
}

// Conn wraps one connected client.
type Conn struct {
	client *mongo.Client
	coll   *mongo.Collection
	opts   store.Options
}

// FindByEmail returns the newest tasks whose email field matches exactly.
func (c *Conn) FindByEmail(ctx context.Context, email string, limit int) ([]types.TaskRecord, error) {
	filter, findOpts := findQuery(c.opts, email, limit)
	cursor, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	records := make([]types.TaskRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, store.RecordFromDocument(plainDocument(doc)))
	}
	return records, nil
}

func (c *Conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// findQuery builds the filter and options for a newest-first email lookup.
// Missing sort keys compare lowest, so such documents come last.
func findQuery(opts store.Options, email string, limit int) (bson.D, *options.FindOptions) {
	filter := bson.D{{Key: opts.EmailField, Value: email}}
	findOpts := options.Find().
		SetSort(bson.D{{Key: store.SortField, Value: -1}}).
		SetLimit(int64(opts.Clamp(limit)))
	return filter, findOpts
}

// plainDocument converts driver-specific values into plain Go values.
func plainDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return plainDocument(val)
	case bson.D:
		return plainDocument(val.Map())
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case bson.A:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = plainValue(item)
		}
		return items
	default:
		return v
	}
}
