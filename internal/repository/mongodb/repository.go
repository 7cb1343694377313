package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const (
	snapshotsCollection   = "dashboard_snapshots"
	preferencesCollection = "preferences"
)

// Repository defines the interface for snapshot and preference storage.
type Repository interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
	ListDashboardSnapshots(ctx context.Context, limit int) ([]models.DashboardSnapshot, error)
	GetPreferences(ctx context.Context, email string) (models.Preferences, error)
	SavePreferences(ctx context.Context, prefs models.Preferences) error
	Close(ctx context.Context) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{client: client, dbName: dbName}

	_, err = r.collection(preferencesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index preferences: %w", err)
	}

	return r, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// SaveDashboardSnapshot stores one dashboard reading.
func (r *MongoDBRepository) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	_, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert dashboard snapshot: %w", err)
	}
	return nil
}

// ListDashboardSnapshots returns up to limit readings, newest first.
func (r *MongoDBRepository) ListDashboardSnapshots(ctx context.Context, limit int) ([]models.DashboardSnapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "taken_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection(snapshotsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard snapshots: %w", err)
	}

	snapshots := []models.DashboardSnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard snapshots: %w", err)
	}
	return snapshots, nil
}

// GetPreferences loads the preferences of email, or the defaults when none
// were saved.
func (r *MongoDBRepository) GetPreferences(ctx context.Context, email string) (models.Preferences, error) {
	var prefs models.Preferences
	err := r.collection(preferencesCollection).FindOne(ctx, bson.M{"email": email}).Decode(&prefs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultPreferences(email), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences upserts the preferences keyed by email.
func (r *MongoDBRepository) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	if prefs.UpdatedAt.IsZero() {
		prefs.UpdatedAt = time.Now().UTC()
	}
	_, err := r.collection(preferencesCollection).ReplaceOne(ctx,
		bson.M{"email": prefs.Email},
		prefs,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
