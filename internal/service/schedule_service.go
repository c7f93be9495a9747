package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"
	"movekind/member-api/internal/schedule"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrScheduleItemNotFound = errors.New("schedule item not found")
)

// defaultSessionTitle is shown for items saved without a title.
const defaultSessionTitle = "Session"

// documentRefPrefix is the scheme of the canonical stored workout reference.
const documentRefPrefix = "umb://document/"

// ScheduleEntry is the read projection of one schedule item. Field names
// match what the legacy API emitted, so existing clients keep working.
type ScheduleEntry struct {
	Key        string    `json:"key"`
	StartTime  time.Time `json:"startTime"`
	DateISO    string    `json:"dateISO"`
	Time       string    `json:"time"`
	Title      string    `json:"title"`
	WorkoutRef *string   `json:"workoutUdi"`
}

// ScheduleService owns the member's embedded schedule document: it loads the
// blob off the member record, mutates the decoded document and writes the
// blob back. One load-mutate-save sequence per call, nothing cached.
type ScheduleService interface {
	// List returns the member's schedule ordered by start time, optionally
	// restricted to an inclusive date range.
	List(ctx context.Context, memberID primitive.ObjectID, from, to *time.Time) ([]ScheduleEntry, error)
	Create(ctx context.Context, memberID primitive.ObjectID, startTime time.Time, title, workoutID *string) (*ScheduleEntry, error)
	// Update applies a partial update; omitted fields keep their stored value.
	Update(ctx context.Context, memberID primitive.ObjectID, key string, startTime *time.Time, title, workoutID *string) error
	// Delete is idempotent; deleting an unknown key succeeds without a write.
	Delete(ctx context.Context, memberID primitive.ObjectID, key string) error
	// Repair rewrites legacy-encoded start times canonically and returns how
	// many items changed. Running it twice always reports zero the second time.
	Repair(ctx context.Context, memberID primitive.ObjectID) (int, error)
}

// --- Service Implementation ---

type scheduleService struct {
	memberRepo  repository.MemberRepository
	workoutRepo repository.WorkoutRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(memberRepo repository.MemberRepository, workoutRepo repository.WorkoutRepository) ScheduleService {
	return &scheduleService{
		memberRepo:  memberRepo,
		workoutRepo: workoutRepo,
	}
}

func (s *scheduleService) loadMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// List decodes the member's schedule and projects it sorted by start time.
// Items whose start time cannot be decoded are silently excluded.
func (s *scheduleService) List(ctx context.Context, memberID primitive.ObjectID, from, to *time.Time) ([]ScheduleEntry, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	doc := schedule.Decode(member.RawSchedule)
	entries := []ScheduleEntry{}

	for i := range doc.Items {
		item := &doc.Items[i]
		if strings.TrimSpace(item.Key) == "" {
			continue
		}

		raw := item.Value(schedule.AliasStartTime)
		if raw == nil {
			continue
		}
		start, ok := schedule.ParseTime(*raw)
		if !ok {
			continue
		}

		day := schedule.DateOf(start)
		if from != nil && day.Before(*from) {
			continue
		}
		if to != nil && day.After(*to) {
			continue
		}

		entries = append(entries, projectEntry(item, start))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
	return entries, nil
}

// Create appends a new schedule item and persists the re-encoded document.
func (s *scheduleService) Create(ctx context.Context, memberID primitive.ObjectID, startTime time.Time, title, workoutID *string) (*ScheduleEntry, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	doc := schedule.Decode(member.RawSchedule)

	encodedStart := schedule.FormatTime(startTime)
	normalizedTitle := normalizeTitle(title)
	workoutRef := s.normalizeWorkoutRef(ctx, workoutID)

	item := doc.Add(
		schedule.Field{Alias: schedule.AliasStartTime, EditorAlias: schedule.EditorDateTime, Value: &encodedStart},
		schedule.Field{Alias: schedule.AliasTitle, EditorAlias: schedule.EditorTextBox, Value: &normalizedTitle},
		schedule.Field{Alias: schedule.AliasWorkout, EditorAlias: schedule.EditorContentPicker, Value: workoutRef},
	)

	member.RawSchedule = schedule.Encode(doc)
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	entry := projectEntry(item, startTime)
	return &entry, nil
}

// Update applies the provided fields to an existing item. An absent item is
// ErrScheduleItemNotFound and nothing is written.
func (s *scheduleService) Update(ctx context.Context, memberID primitive.ObjectID, key string, startTime *time.Time, title, workoutID *string) error {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return err
	}

	doc := schedule.Decode(member.RawSchedule)
	item := doc.Item(key)
	if item == nil {
		return ErrScheduleItemNotFound
	}

	if startTime != nil {
		encoded := schedule.FormatTime(*startTime)
		item.Upsert(schedule.AliasStartTime, schedule.EditorDateTime, &encoded)
	}
	if title != nil {
		item.Upsert(schedule.AliasTitle, schedule.EditorTextBox, title)
	}
	if workoutID != nil {
		// An unresolvable id clears the reference rather than failing the update.
		item.Upsert(schedule.AliasWorkout, schedule.EditorContentPicker, s.normalizeWorkoutRef(ctx, workoutID))
	}

	member.RawSchedule = schedule.Encode(doc)
	return s.memberRepo.Update(ctx, member)
}

// Delete removes an item; removing an unknown key is a successful no-op.
func (s *scheduleService) Delete(ctx context.Context, memberID primitive.ObjectID, key string) error {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return err
	}

	doc := schedule.Decode(member.RawSchedule)
	if !doc.Remove(key) {
		return nil
	}

	member.RawSchedule = schedule.Encode(doc)
	return s.memberRepo.Update(ctx, member)
}

// Repair rewrites every legacy-encoded start time in canonical form. Items
// whose value cannot be decoded at all are left alone.
func (s *scheduleService) Repair(ctx context.Context, memberID primitive.ObjectID) (int, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return 0, err
	}

	doc := schedule.Decode(member.RawSchedule)
	changed := 0

	for i := range doc.Items {
		item := &doc.Items[i]
		raw := item.Value(schedule.AliasStartTime)
		if raw == nil || strings.TrimSpace(*raw) == "" {
			continue
		}
		if !schedule.IsLegacyTime(*raw) {
			continue
		}
		start, ok := schedule.ParseTime(*raw)
		if !ok {
			continue
		}
		encoded := schedule.FormatTime(start)
		item.Upsert(schedule.AliasStartTime, schedule.EditorDateTime, &encoded)
		changed++
	}

	if changed > 0 {
		member.RawSchedule = schedule.Encode(doc)
		if err := s.memberRepo.Update(ctx, member); err != nil {
			return 0, err
		}
	}
	return changed, nil
}

// --- Helpers ---

func projectEntry(item *schedule.Item, start time.Time) ScheduleEntry {
	title := defaultSessionTitle
	if v := item.Value(schedule.AliasTitle); v != nil && strings.TrimSpace(*v) != "" {
		title = *v
	}
	return ScheduleEntry{
		Key:        item.Key,
		StartTime:  start,
		DateISO:    start.Format(schedule.DateLayout),
		Time:       start.Format("15:04"),
		Title:      title,
		WorkoutRef: item.Value(schedule.AliasWorkout),
	}
}

func normalizeTitle(title *string) string {
	if title == nil || strings.TrimSpace(*title) == "" {
		return defaultSessionTitle
	}
	return *title
}

// normalizeWorkoutRef turns whatever id shape the client sent into the one
// canonical stored reference. Accepted shapes: an explicit reference (passed
// through), a content key UUID, or a legacy integer node id resolved through
// the workout repository. Anything else yields no reference.
func (s *scheduleService) normalizeWorkoutRef(ctx context.Context, workoutID *string) *string {
	if workoutID == nil {
		return nil
	}
	id := strings.TrimSpace(*workoutID)
	if id == "" {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(id), "umb://") {
		return &id
	}

	if u, err := uuid.Parse(id); err == nil {
		ref := documentRef(u)
		return &ref
	}

	if n, err := strconv.Atoi(id); err == nil {
		workout, err := s.workoutRepo.GetByLegacyID(ctx, n)
		if err == nil {
			if u, err := uuid.Parse(workout.Key); err == nil {
				ref := documentRef(u)
				return &ref
			}
		}
	}

	return nil
}

// documentRef renders the canonical reference form: the scheme plus the key
// as 32 hex digits without dashes.
func documentRef(u uuid.UUID) string {
	return documentRefPrefix + strings.ReplaceAll(u.String(), "-", "")
}
