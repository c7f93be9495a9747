package service

import (
	"context"
	"testing"

	"movekind/member-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newMemberFixture(t *testing.T) (MemberService, *fakeMemberRepo, primitive.ObjectID) {
	t.Helper()
	member := domain.Member{
		ID:                  primitive.NewObjectID(),
		Name:                "Kim",
		Email:               "kim@example.com",
		DefaultReminderTime: "07:30",
	}
	repo := newFakeMemberRepo(member)
	return NewMemberService(repo), repo, member.ID
}

func TestGetProfile(t *testing.T) {
	svc, _, memberID := newMemberFixture(t)

	profile, err := svc.GetProfile(context.Background(), memberID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", profile.Name)
	assert.Equal(t, "kim@example.com", profile.Email)
	assert.Equal(t, "07:30", profile.DefaultReminderTime)
}

func TestUpdateProfileBlankIdentityKeepsStored(t *testing.T) {
	svc, repo, memberID := newMemberFixture(t)
	ctx := context.Background()

	err := svc.UpdateProfile(ctx, memberID, Profile{
		Name:             "  ",
		Email:            "",
		LargerText:       true,
		RemindersEnabled: true,
	})
	require.NoError(t, err)

	member, err := repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Kim", member.Name)
	assert.Equal(t, "kim@example.com", member.Email)
	assert.True(t, member.LargerText)
	assert.True(t, member.RemindersEnabled)
}

func TestUpdateProfileReminderTimeFallsBack(t *testing.T) {
	svc, repo, memberID := newMemberFixture(t)
	ctx := context.Background()

	err := svc.UpdateProfile(ctx, memberID, Profile{DefaultReminderTime: "half past nine"})
	require.NoError(t, err)

	member, err := repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, "08:00", member.DefaultReminderTime)
}

func TestPersonalizationNormalization(t *testing.T) {
	svc, _, memberID := newMemberFixture(t)
	ctx := context.Background()

	err := svc.UpdatePersonalization(ctx, memberID, Personalization{
		Needs:   []string{" Balance ", "strength", "", "BALANCE", "Strength"},
		Level:   "Expert",
		Skipped: false,
	})
	require.NoError(t, err)

	got, err := svc.GetPersonalization(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Balance", "strength"}, got.Needs)
	assert.Equal(t, domain.LevelEasy, got.Level, "an unknown level falls back to the easiest")
	assert.False(t, got.Skipped)
}

func TestPersonalizationUnknownMember(t *testing.T) {
	svc, _, _ := newMemberFixture(t)

	_, err := svc.GetPersonalization(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
