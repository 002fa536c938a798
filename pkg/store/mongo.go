package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/circlepack/pkg/observability"
	"github.com/matzehuels/circlepack/pkg/scene"
)

const backendMongo = "mongo"

// MongoConfig configures the MongoDB scene store.
type MongoConfig struct {
	// URI is the MongoDB connection string (mongodb://...).
	URI string
	// Database defaults to "circlepack".
	Database string
	// Collection defaults to "scenes".
	Collection string
}

// MongoStore is a durable scene store backed by a MongoDB collection.
// Scenes are stored as BSON documents keyed by their ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping before returning.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "circlepack"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, Retryable(fmt.Errorf("ping mongo: %w", err))
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put stores a scene, replacing any existing document with the same ID.
func (s *MongoStore) Put(ctx context.Context, sc scene.Scene) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sc.ID}, sc, opts); err != nil {
		return Retryable(fmt.Errorf("put scene %s: %w", sc.ID, err))
	}
	observability.Store().OnPut(ctx, backendMongo, sc.ID, len(sc.Circles))
	return nil
}

// Get retrieves a scene by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (scene.Scene, error) {
	var sc scene.Scene
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnGet(ctx, backendMongo, id, false)
		return scene.Scene{}, ErrNotFound
	}
	if err != nil {
		return scene.Scene{}, Retryable(fmt.Errorf("get scene %s: %w", id, err))
	}
	observability.Store().OnGet(ctx, backendMongo, id, true)
	return sc, nil
}

// List returns all stored scenes, newest first.
func (s *MongoStore) List(ctx context.Context) ([]scene.Scene, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, Retryable(fmt.Errorf("list scenes: %w", err))
	}

	var out []scene.Scene
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode scenes: %w", err)
	}
	return out, nil
}

// Delete removes a scene document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return Retryable(fmt.Errorf("delete scene %s: %w", id, err))
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	observability.Store().OnDelete(ctx, backendMongo, id)
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
