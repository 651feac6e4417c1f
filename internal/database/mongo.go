package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/model"
)

type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoStore(ctx context.Context, cfg config.StoreConfig) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping")
	}

	col := client.Database(cfg.MongoDatabase).Collection(collectionName(cfg.Collection))
	return &MongoStore{client: client, col: col}, nil
}

func (s *MongoStore) Insert(ctx context.Context, rec model.MarkRecord) (string, error) {
	doc := bson.M(rec.Fields())
	doc["_id"] = primitive.NewObjectID()

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "insert record")
	}
	return documentID(res.InsertedID), nil
}

func (s *MongoStore) All(ctx context.Context) ([]model.MarkRecord, error) {
	cursor, err := s.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer cursor.Close(ctx)

	var records []model.MarkRecord
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decode record")
		}
		records = append(records, model.FromDocument(documentID(doc["_id"]), doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate records")
	}
	return records, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func documentID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
