// Package store holds the persistence contracts for generated artifacts and
// the billing usage journal. The pipeline itself never touches either; the
// API layer persists after generation succeeds.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baedyl/proaicontent/config"
	"github.com/baedyl/proaicontent/models"
)

// ArtifactStore persists finished articles.
type ArtifactStore interface {
	SaveArtifact(ctx context.Context, userID string, req *models.GenerationRequest, result *models.PipelineResult) (string, error)
}

// Artifact is the stored document shape.
type Artifact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Topic     string             `bson:"topic"`
	Content   string             `bson:"content"`
	WordCount int                `bson:"word_count"`
	Attempts  int                `bson:"attempts"`
	Model     string             `bson:"model"`
	Degraded  bool               `bson:"degraded"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

// MongoStore saves artifacts to a mongo collection.
type MongoStore struct {
	db  *mongo.Database
	cfg *config.MongoConfig
}

func NewMongoStore(ctx context.Context, cfg *config.MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoStore{db: client.Database(cfg.DBName), cfg: cfg}, nil
}

func (m *MongoStore) SaveArtifact(ctx context.Context, userID string, req *models.GenerationRequest, result *models.PipelineResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := Artifact{
		UserID:    userID,
		Topic:     req.Topic,
		Content:   result.Content,
		WordCount: result.WordCount,
		Attempts:  result.Attempts,
		Model:     result.Model,
		Degraded:  result.Degraded,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	res, err := m.db.Collection(m.cfg.ArticleColl).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert artifact: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to cast InsertedID to ObjectID: got type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *MongoStore) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.db.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
