package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fodder/internal/domain/models"
)

// ErrRequestNotFound is returned when no request matches the given id.
var ErrRequestNotFound = errors.New("fodder request not found")

// Repository defines the interface for fodder request storage.
type Repository interface {
	CreateRequest(ctx context.Context, req models.FodderRequest) error
	GetRequest(ctx context.Context, id string) (models.FodderRequest, error)
	ListRequests(ctx context.Context) ([]models.FodderRequest, error)
	UpdateRequest(ctx context.Context, req models.FodderRequest) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
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

	return NewFromClient(client, dbName), nil
}

// NewFromClient wraps an already connected client.
func NewFromClient(client *mongo.Client, dbName string) *MongoDBRepository {
	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "fodder_requests",
	}
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// CreateRequest stores a new fodder request.
func (r *MongoDBRepository) CreateRequest(ctx context.Context, req models.FodderRequest) error {
	if _, err := r.collection().InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert fodder request %s: %w", req.ID, err)
	}
	return nil
}

// GetRequest loads one fodder request by id.
func (r *MongoDBRepository) GetRequest(ctx context.Context, id string) (models.FodderRequest, error) {
	var req models.FodderRequest
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FodderRequest{}, ErrRequestNotFound
	}
	if err != nil {
		return models.FodderRequest{}, fmt.Errorf("failed to load fodder request %s: %w", id, err)
	}
	return req, nil
}

// ListRequests returns every stored request, newest first.
func (r *MongoDBRepository) ListRequests(ctx context.Context) ([]models.FodderRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list fodder requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.FodderRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode fodder requests: %w", err)
	}
	return requests, nil
}

// UpdateRequest replaces the editable parameters of an existing request.
func (r *MongoDBRepository) UpdateRequest(ctx context.Context, req models.FodderRequest) error {
	update := bson.M{"$set": bson.M{
		"buffalo_count": req.BuffaloCount,
		"farm":          req.Farm,
		"start_date":    req.StartDate,
	}}

	res, err := r.collection().UpdateByID(ctx, req.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update fodder request %s: %w", req.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
