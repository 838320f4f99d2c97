package repository

import (
	"context"
	"errors"

	"github.com/heritage-atlas/heritage-api/internal/gallery"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo stores gallery records in the "galleries" collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "monumentId", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, err
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, it *gallery.Item) error {
	_, err := m.col.InsertOne(ctx, it)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*gallery.Item, error) {
	var it gallery.Item
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// ListByMonument returns records in the collection's natural order.
func (m *MongoRepo) ListByMonument(ctx context.Context, monumentID string) ([]*gallery.Item, error) {
	cur, err := m.col.Find(ctx, bson.M{"monumentId": monumentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*gallery.Item{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Update(ctx context.Context, it *gallery.Item) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": it.ID}, it)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
