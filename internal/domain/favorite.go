package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a member-to-workout relation. One document per (member, workout)
// pair, enforced by a unique compound index.
type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID   primitive.ObjectID `bson:"memberId" json:"memberId"`
	WorkoutKey string             `bson:"workoutKey" json:"workoutKey"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
