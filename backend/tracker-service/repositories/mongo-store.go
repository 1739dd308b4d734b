package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type snapshotDocument struct {
	Key     string    `bson:"_id"`
	Data    string    `bson:"data"`
	SavedAt time.Time `bson:"savedAt"`
}

// MongoStore stores each snapshot as one document keyed by _id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logrus.Logger
}

var _ SnapshotStore = (*MongoStore)(nil)

func NewMongoStore(ctx context.Context, uri, dbName, collectionName string, logger *logrus.Logger) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database connection for MongoDB failed: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB connection ping error: %w", err)
	}
	logger.Infof("Event ID: DB_CONNECTED, Description: Using MongoDB collection %s/%s for snapshots", dbName, collectionName)

	return &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
		logger:     logger,
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, key string) ([]byte, error) {
	var doc snapshotDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching snapshot: %w", err)
	}
	return []byte(doc.Data), nil
}

func (s *MongoStore) Save(ctx context.Context, key string, data []byte) error {
	doc := snapshotDocument{Key: key, Data: string(data), SavedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
