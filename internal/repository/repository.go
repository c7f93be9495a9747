package repository

import (
	"context"

	"movekind/member-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MemberRepository defines the interface for interacting with member records.
// The whole record is read and written back as a unit; persistence is
// last-writer-wins and no cross-request locking is attempted.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
}

// WorkoutRepository defines the interface for reading published workout
// content nodes. Workouts are authored elsewhere; this API is read-only.
type WorkoutRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.Workout, error)
	// GetByLegacyID resolves an old integer node id to the workout carrying it.
	GetByLegacyID(ctx context.Context, id int) (*domain.Workout, error)
	GetByKeys(ctx context.Context, keys []string) ([]domain.Workout, error)
}

// FavoriteRepository defines the interface for the member-to-workout
// favorites relation.
type FavoriteRepository interface {
	// Add records the relation; adding an existing one is a no-op.
	Add(ctx context.Context, memberID primitive.ObjectID, workoutKey string) error
	// Remove deletes the relation and reports whether it existed.
	Remove(ctx context.Context, memberID primitive.ObjectID, workoutKey string) (bool, error)
	Exists(ctx context.Context, memberID primitive.ObjectID, workoutKey string) (bool, error)
	ListKeys(ctx context.Context, memberID primitive.ObjectID) ([]string, error)
}
