package social

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skovert/folio/pkg/errors"
)

// MongoStore persists links in a MongoDB collection, ordered by the
// integer "order" field.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a link store on an existing database handle.
// The collection name defaults to "social_links".
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	if collection == "" {
		collection = "social_links"
	}
	return &MongoStore{coll: db.Collection(collection)}
}

// List returns all links ordered by their Order field.
func (s *MongoStore) List(ctx context.Context) ([]Link, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list links")
	}
	defer cur.Close(ctx)

	var links []Link
	if err := cur.All(ctx, &links); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode links")
	}
	return links, nil
}

// Add inserts a link at the end of the ordering.
func (s *MongoStore) Add(ctx context.Context, link Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "count links")
	}
	link.Order = int(n)
	if _, err := s.coll.InsertOne(ctx, link); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "insert link")
	}
	return nil
}

// Update replaces the stored link with the same ID, keeping its order.
func (s *MongoStore) Update(ctx context.Context, link Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": link.ID},
		bson.M{"$set": bson.M{"label": link.Label, "url": link.URL, "icon": link.Icon}},
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "update link")
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeLinkNotFound, "link %q not found", link.ID)
	}
	return nil
}

// Remove deletes a link by ID and re-numbers the remaining links.
func (s *MongoStore) Remove(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete link")
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeLinkNotFound, "link %q not found", id)
	}

	links, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i, l := range links {
		if l.Order == i {
			continue
		}
		if _, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": l.ID},
			bson.M{"$set": bson.M{"order": i}},
		); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "renumber link %q", l.ID)
		}
	}
	return nil
}

// Reorder applies the given ID order.
func (s *MongoStore) Reorder(ctx context.Context, ids []string) error {
	links, err := s.List(ctx)
	if err != nil {
		return err
	}
	out, err := reorder(links, ids)
	if err != nil {
		return err
	}
	for _, l := range out {
		if _, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": l.ID},
			bson.M{"$set": bson.M{"order": l.Order}},
		); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "reorder link %q", l.ID)
		}
	}
	return nil
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
