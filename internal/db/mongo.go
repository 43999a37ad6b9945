package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/attorneycare/server/internal/config"
)

// EntityStore owns the MongoDB client for all collaboration entities. It is
// constructed once at startup and closed on shutdown; nothing holds it in a
// package global.
type EntityStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*EntityStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &EntityStore{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

func (s *EntityStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *EntityStore) Users() *mongo.Collection       { return s.db.Collection("users") }
func (s *EntityStore) Documents() *mongo.Collection   { return s.db.Collection("documents") }
func (s *EntityStore) Clauses() *mongo.Collection     { return s.db.Collection("clauses") }
func (s *EntityStore) Comments() *mongo.Collection    { return s.db.Collection("comments") }
func (s *EntityStore) Annotations() *mongo.Collection { return s.db.Collection("annotations") }
func (s *EntityStore) Cases() *mongo.Collection       { return s.db.Collection("cases") }
func (s *EntityStore) Articles() *mongo.Collection    { return s.db.Collection("library_articles") }
func (s *EntityStore) OtpCodes() *mongo.Collection    { return s.db.Collection("otp_codes") }

// EnsureIndexes creates the indexes the queries rely on. All creations are
// idempotent.
func (s *EntityStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := s.Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	if _, err := s.Clauses().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "documentId", Value: 1}, {Key: "index", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("clauses document index: %w", err)
	}

	if _, err := s.OtpCodes().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("otp user index: %w", err)
	}

	if _, err := s.Comments().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "clauseId", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("comments clause index: %w", err)
	}

	return nil
}
