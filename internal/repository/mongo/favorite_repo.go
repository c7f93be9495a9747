package mongo

import (
	"context"
	"time"

	"movekind/member-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const favoriteCollectionName = "favorites"

// mongoFavoriteRepository implements repository.FavoriteRepository using MongoDB.
type mongoFavoriteRepository struct {
	collection *mongo.Collection
}

// NewMongoFavoriteRepository creates a new instance of mongoFavoriteRepository.
func NewMongoFavoriteRepository(db *mongo.Database) repository.FavoriteRepository {
	return &mongoFavoriteRepository{
		collection: db.Collection(favoriteCollectionName),
	}
}

// Add records a favorite relation. Upsert keeps this idempotent: favoriting
// the same workout twice leaves a single relation behind.
func (r *mongoFavoriteRepository) Add(ctx context.Context, memberID primitive.ObjectID, workoutKey string) error {
	filter := bson.M{"memberId": memberID, "workoutKey": workoutKey}
	update := bson.M{
		"$setOnInsert": bson.M{
			"memberId":   memberID,
			"workoutKey": workoutKey,
			"createdAt":  time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes a favorite relation and reports whether it existed.
func (r *mongoFavoriteRepository) Remove(ctx context.Context, memberID primitive.ObjectID, workoutKey string) (bool, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"memberId": memberID, "workoutKey": workoutKey})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// Exists reports whether the member has favorited the workout.
func (r *mongoFavoriteRepository) Exists(ctx context.Context, memberID primitive.ObjectID, workoutKey string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"memberId": memberID, "workoutKey": workoutKey})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListKeys returns the workout content keys the member has favorited, in
// insertion order.
func (r *mongoFavoriteRepository) ListKeys(ctx context.Context, memberID primitive.ObjectID) ([]string, error) {
	findOptions := options.Find().SetSort(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"memberId": memberID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	keys := []string{}
	for cursor.Next(ctx) {
		var fav struct {
			WorkoutKey string `bson:"workoutKey"`
		}
		if err := cursor.Decode(&fav); err != nil {
			return nil, err
		}
		keys = append(keys, fav.WorkoutKey)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// EnsureFavoriteIndexes creates necessary indexes for the favorites collection.
// Call this once during application startup.
func EnsureFavoriteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "workoutKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
