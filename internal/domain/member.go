package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Personalization levels accepted for a member's goal level.
const (
	LevelEasy     = "Easy"
	LevelMedium   = "Medium"
	LevelAdvanced = "Advanced"
)

// Member represents a registered member of the platform.
type Member struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Defaults to email at registration
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// RawSchedule holds the member's schedule block collection as one JSON
	// text blob. Only internal/schedule understands its structure; everything
	// else treats it as opaque.
	RawSchedule string `bson:"schedule,omitempty" json:"-"`

	// Accessibility / reminder settings surfaced on the profile.
	LargerText           bool   `bson:"largerText" json:"largerText"`
	HighContrast         bool   `bson:"highContrast" json:"highContrast"`
	LightMode            bool   `bson:"lightMode" json:"lightMode"`
	CaptionsOnByDefault  bool   `bson:"captionsOnByDefault" json:"captionsOnByDefault"`
	RemindersEnabled     bool   `bson:"remindersEnabled" json:"remindersEnabled"`
	DefaultReminderTime string `bson:"defaultReminderTime,omitempty" json:"defaultReminderTime,omitempty"` // "HH:mm"

	// Personalization answers.
	PersonalizationNeeds   []string `bson:"personalizationNeeds,omitempty" json:"personalizationNeeds,omitempty"`
	PersonalizationLevel   string   `bson:"personalizationLevel,omitempty" json:"personalizationLevel,omitempty"`
	PersonalizationSkipped bool     `bson:"personalizationSkipped" json:"personalizationSkipped"`
}
