package database

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/model"
)

type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, cfg config.StoreConfig) (*FirestoreStore, error) {
	creds, err := LoadCredentials(cfg.FirebaseCredentials, cfg.FirebaseKeyPath)
	if err != nil {
		return nil, err
	}

	projectID := cfg.FirebaseProjectID
	if projectID == "" {
		if projectID, err = ProjectID(creds); err != nil {
			return nil, err
		}
	}

	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, errors.Wrap(err, "firestore client")
	}
	return &FirestoreStore{client: client, collection: collectionName(cfg.Collection)}, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, rec model.MarkRecord) (string, error) {
	ref := s.client.Collection(s.collection).NewDoc()
	if _, err := ref.Set(ctx, rec.Fields()); err != nil {
		return "", errors.Wrap(err, "insert record")
	}
	return ref.ID, nil
}

func (s *FirestoreStore) All(ctx context.Context) ([]model.MarkRecord, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	var records []model.MarkRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "list records")
		}
		records = append(records, model.FromDocument(doc.Ref.ID, doc.Data()))
	}
	return records, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
