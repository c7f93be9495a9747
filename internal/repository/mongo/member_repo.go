package mongo

import (
	"context"
	"errors"
	"time"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const memberCollectionName = "members"

// mongoMemberRepository implements repository.MemberRepository using MongoDB.
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new instance of mongoMemberRepository.
// It expects a connected *mongo.Database instance.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member into the database.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.Email == "" || member.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("member email and password hash are required")
	}

	member.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, errors.New("member with this email or username already exists")
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a member by their MongoDB ObjectID.
func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	var member domain.Member
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// GetByEmail retrieves a member by their email address.
func (r *mongoMemberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	var member domain.Member
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// GetByUsername retrieves a member by their username.
func (r *mongoMemberRepository) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	var member domain.Member
	filter := bson.M{"username": username}

	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// Update writes the full member record back. Whole-record replacement on
// purpose: the schedule blob travels with the record and the last writer
// wins, as the persistence contract promises.
func (r *mongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	member.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": member.ID}, member)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMemberIndexes creates necessary indexes for the members collection.
// Call this once during application startup.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
