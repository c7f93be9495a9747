package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout represents a published workout content node. Schedule items and
// favorites point at workouts by their content Key, never by the mongo _id.
type Workout struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Key      string             `bson:"key" json:"key"`                         // Content key (UUID), unique
	LegacyID int                `bson:"legacyId,omitempty" json:"id,omitempty"` // Old integer node id, kept for legacy clients
	Name     string             `bson:"name" json:"name"`
	URL      string             `bson:"url,omitempty" json:"url,omitempty"`

	Title         string   `bson:"title,omitempty" json:"title,omitempty"`
	Duration      *int     `bson:"duration,omitempty" json:"duration,omitempty"` // Minutes
	Level         string   `bson:"level,omitempty" json:"level,omitempty"`       // Easy / Medium / Advanced
	Focus         []string `bson:"focus,omitempty" json:"focus,omitempty"`
	Position      []string `bson:"position,omitempty" json:"position,omitempty"`
	FloorFriendly bool     `bson:"floorFriendly" json:"floorFriendly"`
	ChairFriendly bool     `bson:"chairFriendly" json:"chairFriendly"`
	Description   string   `bson:"description,omitempty" json:"description,omitempty"`

	// ImageKeys are object keys in media storage; resolved to URLs at read time.
	ImageKeys []string `bson:"imageKeys,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
