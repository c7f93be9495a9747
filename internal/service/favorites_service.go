package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"
	"movekind/member-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidWorkoutID = errors.New("workout id cannot be resolved to a workout")
)

// FavoriteWorkout is the projection of a favorited workout, media resolved to
// fetchable URLs.
type FavoriteWorkout struct {
	Key           string   `json:"key"`
	ID            int      `json:"id,omitempty"`
	Name          string   `json:"name"`
	URL           string   `json:"url,omitempty"`
	Title         string   `json:"title,omitempty"`
	Duration      *int     `json:"duration,omitempty"`
	Level         string   `json:"level,omitempty"`
	Focus         []string `json:"focus"`
	Position      []string `json:"position"`
	FloorFriendly bool     `json:"floorFriendly"`
	ChairFriendly bool     `json:"chairFriendly"`
	Description   string   `json:"description,omitempty"`
	ImageURL      *string  `json:"imageUrl"`
	ImageURLs     []string `json:"imageUrls"`
}

// FavoritesService maintains the member's favorites relation and projects the
// favorited workouts. Workout ids are accepted as legacy integers, content
// key UUIDs or explicit document references.
type FavoritesService interface {
	List(ctx context.Context, memberID primitive.ObjectID) ([]FavoriteWorkout, error)
	ListKeys(ctx context.Context, memberID primitive.ObjectID) ([]string, error)
	// Add is idempotent; favoriting an already-favorited workout succeeds.
	Add(ctx context.Context, memberID primitive.ObjectID, workoutID string) (*domain.Workout, error)
	// Remove is idempotent; removing an absent favorite succeeds.
	Remove(ctx context.Context, memberID primitive.ObjectID, workoutID string) (*domain.Workout, error)
	// Toggle flips the relation and reports its new state.
	Toggle(ctx context.Context, memberID primitive.ObjectID, workoutID string) (bool, *domain.Workout, error)
}

// --- Service Implementation ---

type favoritesService struct {
	workoutRepo  repository.WorkoutRepository
	favoriteRepo repository.FavoriteRepository
	media        storage.MediaStorage
}

// NewFavoritesService creates a new instance of favoritesService.
func NewFavoritesService(
	workoutRepo repository.WorkoutRepository,
	favoriteRepo repository.FavoriteRepository,
	media storage.MediaStorage,
) FavoritesService {
	return &favoritesService{
		workoutRepo:  workoutRepo,
		favoriteRepo: favoriteRepo,
		media:        media,
	}
}

// List returns the member's favorited workouts in the order they were
// favorited. Favorites pointing at unpublished workouts are skipped.
func (s *favoritesService) List(ctx context.Context, memberID primitive.ObjectID) ([]FavoriteWorkout, error) {
	keys, err := s.favoriteRepo.ListKeys(ctx, memberID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.workoutRepo.GetByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*domain.Workout, len(workouts))
	for i := range workouts {
		byKey[workouts[i].Key] = &workouts[i]
	}

	result := []FavoriteWorkout{}
	for _, key := range keys {
		workout, ok := byKey[key]
		if !ok {
			continue
		}
		result = append(result, s.projectWorkout(ctx, workout))
	}
	return result, nil
}

// ListKeys returns only the favorited workout content keys.
func (s *favoritesService) ListKeys(ctx context.Context, memberID primitive.ObjectID) ([]string, error) {
	return s.favoriteRepo.ListKeys(ctx, memberID)
}

// Add records the favorite relation.
func (s *favoritesService) Add(ctx context.Context, memberID primitive.ObjectID, workoutID string) (*domain.Workout, error) {
	workout, err := s.resolveWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if err := s.favoriteRepo.Add(ctx, memberID, workout.Key); err != nil {
		return nil, err
	}
	return workout, nil
}

// Remove deletes the favorite relation.
func (s *favoritesService) Remove(ctx context.Context, memberID primitive.ObjectID, workoutID string) (*domain.Workout, error) {
	workout, err := s.resolveWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if _, err := s.favoriteRepo.Remove(ctx, memberID, workout.Key); err != nil {
		return nil, err
	}
	return workout, nil
}

// Toggle adds the relation when absent, removes it when present.
func (s *favoritesService) Toggle(ctx context.Context, memberID primitive.ObjectID, workoutID string) (bool, *domain.Workout, error) {
	workout, err := s.resolveWorkout(ctx, workoutID)
	if err != nil {
		return false, nil, err
	}

	exists, err := s.favoriteRepo.Exists(ctx, memberID, workout.Key)
	if err != nil {
		return false, nil, err
	}

	if exists {
		if _, err := s.favoriteRepo.Remove(ctx, memberID, workout.Key); err != nil {
			return false, nil, err
		}
		return false, workout, nil
	}

	if err := s.favoriteRepo.Add(ctx, memberID, workout.Key); err != nil {
		return false, nil, err
	}
	return true, workout, nil
}

// resolveWorkout accepts a legacy integer id, a content key UUID or a
// document reference, and loads the workout it names.
func (s *favoritesService) resolveWorkout(ctx context.Context, workoutID string) (*domain.Workout, error) {
	id := strings.TrimSpace(workoutID)
	if id == "" {
		return nil, ErrInvalidWorkoutID
	}

	if n, err := strconv.Atoi(id); err == nil {
		workout, err := s.workoutRepo.GetByLegacyID(ctx, n)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidWorkoutID
			}
			return nil, err
		}
		return workout, nil
	}

	// Document references carry the key as 32 hex digits; uuid.Parse accepts
	// both that and the dashed form.
	key := id
	if strings.HasPrefix(strings.ToLower(key), documentRefPrefix) {
		key = key[len(documentRefPrefix):]
	}
	u, err := uuid.Parse(key)
	if err != nil {
		return nil, ErrInvalidWorkoutID
	}

	workout, err := s.workoutRepo.GetByKey(ctx, u.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidWorkoutID
		}
		return nil, err
	}
	return workout, nil
}

// projectWorkout maps a workout to its favorites projection, resolving image
// object keys to presigned URLs. A failing media lookup drops the URL rather
// than the whole listing.
func (s *favoritesService) projectWorkout(ctx context.Context, workout *domain.Workout) FavoriteWorkout {
	fw := FavoriteWorkout{
		Key:           workout.Key,
		ID:            workout.LegacyID,
		Name:          workout.Name,
		URL:           workout.URL,
		Title:         workout.Title,
		Duration:      workout.Duration,
		Level:         workout.Level,
		Focus:         workout.Focus,
		Position:      workout.Position,
		FloorFriendly: workout.FloorFriendly,
		ChairFriendly: workout.ChairFriendly,
		Description:   workout.Description,
		ImageURLs:     []string{},
	}
	if fw.Focus == nil {
		fw.Focus = []string{}
	}
	if fw.Position == nil {
		fw.Position = []string{}
	}

	for _, objectKey := range workout.ImageKeys {
		url, err := s.media.ImageURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
		if err != nil || url == "" {
			continue
		}
		fw.ImageURLs = append(fw.ImageURLs, url)
	}
	if len(fw.ImageURLs) > 0 {
		fw.ImageURL = &fw.ImageURLs[0]
	}
	return fw
}
