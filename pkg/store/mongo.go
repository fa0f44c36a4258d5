package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/skovert/folio/pkg/content"
	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/observability"
)

// MongoConfig configures the MongoDB document store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "folio".
	Database string

	// Collection is the documents collection name. Defaults to "documents".
	Collection string

	// ConnectTimeout bounds the initial connect + ping. Defaults to 10s.
	ConnectTimeout time.Duration
}

// Mongo is the production document store backed by MongoDB.
//
// Each document is stored as {_id: <id>, data: <tree>}. Partial updates use
// dotted field paths with $set, field deletion uses $unset. Note that $unset
// on an array element leaves a null hole; list deletions must be written as
// a whole-list $set by the caller (the cms service does this).
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// mongoDoc is the stored document shape.
type mongoDoc struct {
	ID   string `bson:"_id"`
	Data bson.M `bson:"data"`
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig, logger *log.Logger) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = "folio"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger,
	}, nil
}

// Database returns the underlying database handle so other stores can share
// the connection.
func (s *Mongo) Database() *mongo.Database {
	return s.coll.Database()
}

// Get retrieves a document by ID.
func (s *Mongo) Get(ctx context.Context, id string) (content.Node, error) {
	start := time.Now()

	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	observability.Store().OnRead(ctx, id, time.Since(start), err)
	if err == mongo.ErrNoDocuments {
		return content.Node{}, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	if err != nil {
		return content.Node{}, errors.Wrap(errors.ErrCodeNetwork, err, "read document %q", id)
	}

	node, err := content.FromValue(normalizeBSON(doc.Data))
	if err != nil {
		return content.Node{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "decode document %q", id)
	}
	return node, nil
}

// Set merges doc into the stored document with an upsert.
//
// Mapping leaves are flattened into dotted $set paths so sibling fields in
// the stored document survive, matching merge-set semantics.
func (s *Mongo) Set(ctx context.Context, id string, doc content.Node) error {
	fields := bson.M{}
	flattenNode(doc, "data", fields)

	update := bson.M{"$set": fields}
	if len(fields) == 0 {
		// Merging an empty map must not clobber existing fields.
		update = bson.M{"$setOnInsert": bson.M{"data": bson.M{}}}
	}

	start := time.Now()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		update,
		options.Update().SetUpsert(true),
	)
	observability.Store().OnWrite(ctx, id, time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "write document %q", id)
	}
	return nil
}

// SetField writes a single value at a field path.
func (s *Mongo) SetField(ctx context.Context, id string, path content.Path, value content.Node) error {
	field := "data." + path.String()

	start := time.Now()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: value.Value()}},
		options.Update().SetUpsert(true),
	)
	observability.Store().OnWrite(ctx, id, time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "write field %q of document %q", path, id)
	}
	return nil
}

// DeleteField removes the field at path with $unset.
func (s *Mongo) DeleteField(ctx context.Context, id string, path content.Path) error {
	field := "data." + path.String()

	start := time.Now()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$unset": bson.M{field: ""}},
	)
	observability.Store().OnWrite(ctx, id, time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete field %q of document %q", path, id)
	}
	return checkFieldDelete(res, id, path)
}

// checkFieldDelete interprets the $unset result. A matched document with
// zero modifications means the field was never there: $unset of a missing
// field is a silent no-op in MongoDB, but the Documents contract promises a
// PATH_NOT_FOUND error.
func checkFieldDelete(res *mongo.UpdateResult, id string, path content.Path) error {
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	if res.ModifiedCount == 0 {
		return errors.New(errors.ErrCodePathNotFound, "path %q not found in document %q", path, id)
	}
	return nil
}

// Watch subscribes to document changes via a change stream.
// Change streams require a replica set; on standalone servers this returns
// a network error and callers should fall back to polling or plain reads.
func (s *Mongo) Watch(ctx context.Context, id string) (<-chan content.Node, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: id}}}},
	}
	stream, err := s.coll.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open change stream for %q", id)
	}

	ch := make(chan content.Node, 8)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument mongoDoc `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				s.logger.Warn("failed to decode change event", "doc", id, "err", err)
				continue
			}
			node, err := content.FromValue(normalizeBSON(event.FullDocument.Data))
			if err != nil {
				s.logger.Warn("malformed document in change event", "doc", id, "err", err)
				continue
			}
			select {
			case ch <- node:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close disconnects the client.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// flattenNode flattens mapping nodes into dotted field paths for $set.
// Scalars and lists become leaf values.
func flattenNode(n content.Node, prefix string, out bson.M) {
	if n.Kind() != content.KindMap {
		out[prefix] = n.Value()
		return
	}
	for _, k := range n.Keys() {
		child, _ := n.Child(k)
		flattenNode(child, prefix+"."+k, out)
	}
}

// normalizeBSON converts bson.M / bson.A values into the plain
// map[string]any / []any shapes content.FromValue understands.
func normalizeBSON(v any) any {
	switch val := v.(type) {
	case bson.M:
		m := make(map[string]any, len(val))
		for k, child := range val {
			m[k] = normalizeBSON(child)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	case bson.A:
		l := make([]any, len(val))
		for i, child := range val {
			l[i] = normalizeBSON(child)
		}
		return l
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, child := range val {
			m[k] = normalizeBSON(child)
		}
		return m
	case []any:
		l := make([]any, len(val))
		for i, child := range val {
			l[i] = normalizeBSON(child)
		}
		return l
	}
	return v
}

// Ensure Mongo implements Documents.
var _ Documents = (*Mongo)(nil)
