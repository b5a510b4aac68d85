package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CategoryProduct = "product"
	CategoryOrder   = "order"

	idField = "_id"
)

// MongoStore is a document store where each category is a collection. It is
// created once at startup and shared across requests.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect sets up a client for uri. The driver connects lazily, so an
// unreachable server surfaces on the first operation rather than here.
func Connect(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &StorageError{Op: "connect", Err: err}
	}

	log.WithField("database", dbName).Info("Configured MongoDB client")
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// NewMongoStore wraps an existing database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{client: db.Client(), db: db}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CreateDocument stores record in the category's collection and returns the
// generated identifier as hex text. Any "_id" on the record is discarded.
func (s *MongoStore) CreateDocument(ctx context.Context, category string, record any) (string, error) {
	doc, err := toDocument(record)
	if err != nil {
		return "", &StorageError{Op: "encode", Category: category, Err: err}
	}
	delete(doc, idField)

	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now

	res, err := s.db.Collection(category).InsertOne(ctx, doc)
	if err != nil {
		return "", &StorageError{Op: "insert", Category: category, Err: err}
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		return id.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// GetDocuments returns every document in the category matching filter, each
// still carrying its "_id".
func (s *MongoStore) GetDocuments(ctx context.Context, category string, filter *Filter) ([]bson.M, error) {
	cursor, err := s.db.Collection(category).Find(ctx, filter.Document())
	if err != nil {
		return nil, &StorageError{Op: "find", Category: category, Err: err}
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &StorageError{Op: "find", Category: category, Err: err}
	}
	return docs, nil
}

func (s *MongoStore) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, &StorageError{Op: "list collections", Err: err}
	}
	return names, nil
}

func toDocument(record any) (bson.M, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "marshal record")
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal record")
	}
	return doc, nil
}
