package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"
	"movekind/member-api/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory fakes ---

type fakeMemberRepo struct {
	members map[primitive.ObjectID]domain.Member
	updates int
}

func newFakeMemberRepo(members ...domain.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: map[primitive.ObjectID]domain.Member{}}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeMemberRepo) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	member.ID = primitive.NewObjectID()
	r.members[member.ID] = *member
	return member.ID, nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := m
	return &out, nil
}

func (r *fakeMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	for _, m := range r.members {
		if strings.EqualFold(m.Email, email) {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMemberRepo) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	for _, m := range r.members {
		if strings.EqualFold(m.Username, username) {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	if _, ok := r.members[member.ID]; !ok {
		return repository.ErrNotFound
	}
	r.members[member.ID] = *member
	r.updates++
	return nil
}

type fakeWorkoutRepo struct {
	workouts []domain.Workout
}

func (r *fakeWorkoutRepo) GetByKey(ctx context.Context, key string) (*domain.Workout, error) {
	for i := range r.workouts {
		if strings.EqualFold(r.workouts[i].Key, key) {
			out := r.workouts[i]
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) GetByLegacyID(ctx context.Context, id int) (*domain.Workout, error) {
	for i := range r.workouts {
		if r.workouts[i].LegacyID == id {
			out := r.workouts[i]
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) GetByKeys(ctx context.Context, keys []string) ([]domain.Workout, error) {
	out := []domain.Workout{}
	for _, key := range keys {
		if w, err := r.GetByKey(ctx, key); err == nil {
			out = append(out, *w)
		}
	}
	return out, nil
}

// --- Helpers ---

const testWorkoutKey = "9f36b1b0-8f2e-4c1a-9d5e-1f2a3b4c5d6e"
const testWorkoutRef = "umb://document/9f36b1b08f2e4c1a9d5e1f2a3b4c5d6e"

func newScheduleFixture(t *testing.T) (ScheduleService, *fakeMemberRepo, primitive.ObjectID) {
	t.Helper()
	member := domain.Member{ID: primitive.NewObjectID(), Email: "kim@example.com"}
	memberRepo := newFakeMemberRepo(member)
	workoutRepo := &fakeWorkoutRepo{workouts: []domain.Workout{
		{Key: testWorkoutKey, LegacyID: 1087, Name: "Chair yoga"},
	}}
	return NewScheduleService(memberRepo, workoutRepo), memberRepo, member.ID
}

func localTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

// --- Tests ---

func TestScheduleCreateDefaultsAndList(t *testing.T) {
	svc, repo, memberID := newScheduleFixture(t)
	ctx := context.Background()

	start := localTime(2024, 5, 1, 9, 30)
	entry, err := svc.Create(ctx, memberID, start, nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, entry.Key)
	assert.Equal(t, "Session", entry.Title)
	assert.Equal(t, "2024-05-01", entry.DateISO)
	assert.Equal(t, "09:30", entry.Time)
	assert.Nil(t, entry.WorkoutRef)
	assert.Equal(t, 1, repo.updates)

	entries, err := svc.List(ctx, memberID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.Key, entries[0].Key)
	assert.True(t, start.Equal(entries[0].StartTime))
}

func TestScheduleCreateResolvesWorkoutReference(t *testing.T) {
	svc, _, memberID := newScheduleFixture(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		workoutID string
		wantRef   *string
	}{
		{"legacy integer id", "1087", strPtr(testWorkoutRef)},
		{"content key uuid", testWorkoutKey, strPtr(testWorkoutRef)},
		{"explicit reference", testWorkoutRef, strPtr(testWorkoutRef)},
		{"unknown legacy id", "9999", nil},
		{"garbage", "not-a-workout", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := svc.Create(ctx, memberID, localTime(2024, 5, 1, 7, 0), nil, &tc.workoutID)
			require.NoError(t, err)
			if tc.wantRef == nil {
				assert.Nil(t, entry.WorkoutRef)
			} else {
				require.NotNil(t, entry.WorkoutRef)
				assert.Equal(t, *tc.wantRef, *entry.WorkoutRef)
			}
		})
	}
}

func TestScheduleListRangeIsInclusiveByDay(t *testing.T) {
	svc, _, memberID := newScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, memberID, localTime(2024, 5, 1, 23, 0), strPtr("Late"), nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, memberID, localTime(2024, 5, 2, 6, 0), strPtr("Early"), nil)
	require.NoError(t, err)

	day := localTime(2024, 5, 1, 0, 0)
	entries, err := svc.List(ctx, memberID, &day, &day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Late", entries[0].Title)

	nextDay := localTime(2024, 5, 2, 0, 0)
	entries, err = svc.List(ctx, memberID, &nextDay, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Early", entries[0].Title)
}

func TestScheduleListIsSortedByStartTime(t *testing.T) {
	svc, _, memberID := newScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, memberID, localTime(2024, 5, 3, 8, 0), strPtr("third"), nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, memberID, localTime(2024, 5, 1, 8, 0), strPtr("first"), nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, memberID, localTime(2024, 5, 2, 8, 0), strPtr("second"), nil)
	require.NoError(t, err)

	entries, err := svc.List(ctx, memberID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Title)
	assert.Equal(t, "second", entries[1].Title)
	assert.Equal(t, "third", entries[2].Title)
}

func TestScheduleUpdateIsPartial(t *testing.T) {
	svc, _, memberID := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, memberID, localTime(2024, 5, 1, 9, 30), strPtr("Strength"), strPtr("1087"))
	require.NoError(t, err)

	newStart := localTime(2024, 5, 4, 10, 0)
	require.NoError(t, svc.Update(ctx, memberID, entry.Key, &newStart, nil, nil))

	entries, err := svc.List(ctx, memberID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, newStart.Equal(entries[0].StartTime))
	assert.Equal(t, "Strength", entries[0].Title)
	require.NotNil(t, entries[0].WorkoutRef)
	assert.Equal(t, testWorkoutRef, *entries[0].WorkoutRef)
}

func TestScheduleUpdateUnknownKey(t *testing.T) {
	svc, repo, memberID := newScheduleFixture(t)
	ctx := context.Background()

	err := svc.Update(ctx, memberID, "no-such-key", nil, strPtr("x"), nil)
	assert.ErrorIs(t, err, ErrScheduleItemNotFound)
	assert.Equal(t, 0, repo.updates)
}

func TestScheduleDeleteIsIdempotent(t *testing.T) {
	svc, repo, memberID := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, memberID, localTime(2024, 5, 1, 9, 30), nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, memberID, entry.Key))
	writesAfterFirst := repo.updates

	entries, err := svc.List(ctx, memberID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// A second delete succeeds without touching storage.
	require.NoError(t, svc.Delete(ctx, memberID, entry.Key))
	assert.Equal(t, writesAfterFirst, repo.updates)
}

func TestScheduleRepairRewritesLegacyEncodings(t *testing.T) {
	svc, repo, memberID := newScheduleFixture(t)
	ctx := context.Background()

	doc := schedule.NewDocument()
	doc.Add(schedule.Field{Alias: schedule.AliasStartTime, EditorAlias: schedule.EditorDateTime, Value: strPtr(`{"date":"2024-03-10 08:00:00"}`)})
	doc.Add(schedule.Field{Alias: schedule.AliasStartTime, EditorAlias: schedule.EditorDateTime, Value: strPtr("2024-03-11T09:15:00")})
	doc.Add(schedule.Field{Alias: schedule.AliasStartTime, EditorAlias: schedule.EditorDateTime, Value: strPtr("2024-03-12 10:30:00")})
	doc.Add(schedule.Field{Alias: schedule.AliasStartTime, EditorAlias: schedule.EditorDateTime, Value: strPtr("rubbish")})

	member, err := repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	member.RawSchedule = schedule.Encode(doc)
	require.NoError(t, repo.Update(ctx, member))

	changed, err := svc.Repair(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	member, err = repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	repaired := schedule.Decode(member.RawSchedule)
	require.Len(t, repaired.Items, 4)
	assert.Equal(t, "2024-03-10 08:00:00", *repaired.Items[0].Value(schedule.AliasStartTime))
	assert.Equal(t, "2024-03-11 09:15:00", *repaired.Items[1].Value(schedule.AliasStartTime))
	assert.Equal(t, "2024-03-12 10:30:00", *repaired.Items[2].Value(schedule.AliasStartTime))
	assert.Equal(t, "rubbish", *repaired.Items[3].Value(schedule.AliasStartTime))

	// A second pass finds nothing left to rewrite.
	changed, err = svc.Repair(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestScheduleHealsCorruptBlob(t *testing.T) {
	svc, repo, memberID := newScheduleFixture(t)
	ctx := context.Background()

	member, err := repo.GetByID(ctx, memberID)
	require.NoError(t, err)
	member.RawSchedule = `{definitely broken`
	require.NoError(t, repo.Update(ctx, member))

	entries, err := svc.List(ctx, memberID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The next write starts from a fresh document.
	_, err = svc.Create(ctx, memberID, localTime(2024, 5, 1, 9, 30), nil, nil)
	require.NoError(t, err)

	entries, err = svc.List(ctx, memberID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestScheduleUnknownMember(t *testing.T) {
	svc, _, _ := newScheduleFixture(t)
	ctx := context.Background()
	stranger := primitive.NewObjectID()

	_, err := svc.List(ctx, stranger, nil, nil)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = svc.Create(ctx, stranger, localTime(2024, 5, 1, 9, 30), nil, nil)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, stranger, "any"), ErrMemberNotFound)

	_, err = svc.Repair(ctx, stranger)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func strPtr(s string) *string { return &s }
