package mongo

import (
	"context"
	"errors"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository using MongoDB.
// Workout documents are published by the content pipeline; this repository
// only reads them.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new instance of mongoWorkoutRepository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// GetByKey retrieves a workout by its content key (UUID).
func (r *mongoWorkoutRepository) GetByKey(ctx context.Context, key string) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"key": key}

	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByLegacyID retrieves a workout by its old integer node id.
func (r *mongoWorkoutRepository) GetByLegacyID(ctx context.Context, id int) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"legacyId": id}

	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByKeys retrieves all workouts whose content key is in keys. Unknown keys
// are simply absent from the result.
func (r *mongoWorkoutRepository) GetByKeys(ctx context.Context, keys []string) ([]domain.Workout, error) {
	if len(keys) == 0 {
		return []domain.Workout{}, nil
	}

	var workouts []domain.Workout
	filter := bson.M{"key": bson.M{"$in": keys}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts collection.
// Call this once during application startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "legacyId", Value: 1}},
			Options: options.Index().SetSparse(true), // Sparse because new workouts have no legacy id
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
