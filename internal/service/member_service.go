package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// reminderTimePattern is the only accepted shape for the reminder time.
var reminderTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Profile is the member-facing view of the record: identity plus the
// accessibility and reminder settings.
type Profile struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	LargerText          bool   `json:"largerText"`
	HighContrast        bool   `json:"highContrast"`
	LightMode           bool   `json:"lightMode"`
	CaptionsOnByDefault bool   `json:"captionsOnByDefault"`
	RemindersEnabled    bool   `json:"remindersEnabled"`
	DefaultReminderTime string `json:"defaultReminderTime"` // "HH:mm"
}

// Personalization captures the onboarding questionnaire answers.
type Personalization struct {
	Needs   []string `json:"personalizationNeeds"`
	Level   string   `json:"personalizationLevel"`
	Skipped bool     `json:"personalizationSkipped"`
}

// MemberService reads and updates the member's own record: profile fields and
// personalization answers.
type MemberService interface {
	GetMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error)
	GetProfile(ctx context.Context, memberID primitive.ObjectID) (*Profile, error)
	UpdateProfile(ctx context.Context, memberID primitive.ObjectID, profile Profile) error
	GetPersonalization(ctx context.Context, memberID primitive.ObjectID) (*Personalization, error)
	UpdatePersonalization(ctx context.Context, memberID primitive.ObjectID, personalization Personalization) error
}

// --- Service Implementation ---

type memberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new instance of memberService.
func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

// GetMember loads the member record behind an authenticated identity.
func (s *memberService) GetMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// GetProfile returns the member's profile view.
func (s *memberService) GetProfile(ctx context.Context, memberID primitive.ObjectID) (*Profile, error) {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Email:               member.Email,
		Name:                member.Name,
		LargerText:          member.LargerText,
		HighContrast:        member.HighContrast,
		LightMode:           member.LightMode,
		CaptionsOnByDefault: member.CaptionsOnByDefault,
		RemindersEnabled:    member.RemindersEnabled,
		DefaultReminderTime: normalizeReminderTime(member.DefaultReminderTime),
	}, nil
}

// UpdateProfile writes the profile fields back. Blank name or email keeps the
// stored value; the flags are written as sent.
func (s *memberService) UpdateProfile(ctx context.Context, memberID primitive.ObjectID, profile Profile) error {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(profile.Name); v != "" {
		member.Name = v
	}
	if v := strings.TrimSpace(profile.Email); v != "" {
		member.Email = v
	}

	member.LargerText = profile.LargerText
	member.HighContrast = profile.HighContrast
	member.LightMode = profile.LightMode
	member.CaptionsOnByDefault = profile.CaptionsOnByDefault
	member.RemindersEnabled = profile.RemindersEnabled
	member.DefaultReminderTime = normalizeReminderTime(profile.DefaultReminderTime)

	return s.memberRepo.Update(ctx, member)
}

// GetPersonalization returns the questionnaire answers with defaults applied.
func (s *memberService) GetPersonalization(ctx context.Context, memberID primitive.ObjectID) (*Personalization, error) {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &Personalization{
		Needs:   normalizeNeeds(member.PersonalizationNeeds),
		Level:   normalizeLevel(member.PersonalizationLevel),
		Skipped: member.PersonalizationSkipped,
	}, nil
}

// UpdatePersonalization stores normalized questionnaire answers.
func (s *memberService) UpdatePersonalization(ctx context.Context, memberID primitive.ObjectID, personalization Personalization) error {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	member.PersonalizationNeeds = normalizeNeeds(personalization.Needs)
	member.PersonalizationLevel = normalizeLevel(personalization.Level)
	member.PersonalizationSkipped = personalization.Skipped

	return s.memberRepo.Update(ctx, member)
}

// --- Normalization helpers ---

func normalizeReminderTime(value string) string {
	v := strings.TrimSpace(value)
	if reminderTimePattern.MatchString(v) {
		return v
	}
	return defaultReminderTime
}

func normalizeLevel(value string) string {
	switch strings.TrimSpace(value) {
	case domain.LevelEasy, domain.LevelMedium, domain.LevelAdvanced:
		return strings.TrimSpace(value)
	}
	return domain.LevelEasy
}

// normalizeNeeds trims entries, drops blanks and removes case-insensitive
// duplicates while keeping first-seen order.
func normalizeNeeds(needs []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, n := range needs {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		k := strings.ToLower(n)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}
