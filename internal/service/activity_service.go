package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxDayMinutes = 24 * 60

type ActivityInput struct {
	Type            string
	DurationMinutes int
}

// DayInput is the daily check-in form. An empty Date means today.
type DayInput struct {
	Date        string
	SleepHours  float64
	WaterMl     int
	Mood        domain.Mood
	StressLevel int
	Notes       string
	Activities  []ActivityInput
}

type DayActivity struct {
	Date       string                 `json:"date"`
	Stat       *domain.DailyStat      `json:"stat,omitempty"`
	Activities []domain.ActivityEntry `json:"activities"`
	Types      []string               `json:"activityTypes"`
}

type ActivityService interface {
	Today(ctx context.Context, clientID primitive.ObjectID) (*DayActivity, error)
	// SaveDay upserts the day's check-in and adds the new durations to the
	// ones already recorded for the same activity type.
	SaveDay(ctx context.Context, clientID primitive.ObjectID, in DayInput) (*DayActivity, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	statRepo     repository.DailyStatRepository
	clock        Clock
	loc          *time.Location
}

func NewActivityService(activityRepo repository.ActivityRepository, statRepo repository.DailyStatRepository, clock Clock, loc *time.Location) ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &activityService{
		activityRepo: activityRepo,
		statRepo:     statRepo,
		clock:        clock,
		loc:          loc,
	}
}

func (s *activityService) Today(ctx context.Context, clientID primitive.ObjectID) (*DayActivity, error) {
	return s.day(ctx, clientID, today(s.clock, s.loc))
}

func (s *activityService) day(ctx context.Context, clientID primitive.ObjectID, date string) (*DayActivity, error) {
	day := &DayActivity{Date: date, Types: domain.ActivityTypes}

	stat, err := s.statRepo.GetByClientAndDate(ctx, clientID, date)
	switch {
	case err == nil:
		day.Stat = stat
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	day.Activities, err = s.activityRepo.GetByClientAndDate(ctx, clientID, date)
	if err != nil {
		return nil, err
	}
	return day, nil
}

func knownActivityType(t string) (string, bool) {
	for _, known := range domain.ActivityTypes {
		if strings.EqualFold(known, t) {
			return known, true
		}
	}
	return "", false
}

func (in DayInput) validate() error {
	if in.SleepHours < 0 || in.SleepHours > 24 {
		return validationError("sleep hours must be between 0 and 24")
	}
	if in.WaterMl < 0 {
		return validationError("water must not be negative")
	}
	if !in.Mood.Valid() {
		return validationError("unknown mood %q", in.Mood)
	}
	if in.StressLevel < 1 || in.StressLevel > 10 {
		return validationError("stress level must be between 1 and 10")
	}
	for _, a := range in.Activities {
		if _, ok := knownActivityType(strings.TrimSpace(a.Type)); !ok {
			return validationError("unknown activity type %q", a.Type)
		}
		if a.DurationMinutes <= 0 || a.DurationMinutes > maxDayMinutes {
			return validationError("%s: duration must be between 1 and %d minutes", a.Type, maxDayMinutes)
		}
	}
	return nil
}

func (s *activityService) SaveDay(ctx context.Context, clientID primitive.ObjectID, in DayInput) (*DayActivity, error) {
	date := today(s.clock, s.loc)
	if strings.TrimSpace(in.Date) != "" {
		var err error
		if date, err = dayKey(in.Date); err != nil {
			return nil, err
		}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var merged []domain.ActivityEntry
	if len(in.Activities) > 0 {
		existing, err := s.activityRepo.GetByClientAndDate(ctx, clientID, date)
		if err != nil {
			return nil, err
		}
		merged = mergeActivities(clientID, date, existing, in.Activities, s.clock.Now())
		for _, e := range merged {
			if e.DurationMinutes > maxDayMinutes {
				return nil, validationError("%s: day total of %d minutes exceeds %d", e.ActivityType, e.DurationMinutes, maxDayMinutes)
			}
		}
	}

	stat := &domain.DailyStat{
		ClientID:    clientID,
		Date:        date,
		SleepHours:  in.SleepHours,
		WaterMl:     in.WaterMl,
		Mood:        in.Mood,
		StressLevel: in.StressLevel,
		Notes:       in.Notes,
	}
	if err := s.statRepo.Upsert(ctx, stat); err != nil {
		return nil, err
	}

	if merged != nil {
		if err := s.activityRepo.ReplaceForDay(ctx, clientID, date, merged); err != nil {
			return nil, err
		}
	}

	return s.day(ctx, clientID, date)
}

// mergeActivities sums durations per type. Types keep the order in which
// they first appear, existing rows first.
func mergeActivities(clientID primitive.ObjectID, date string, existing []domain.ActivityEntry, added []ActivityInput, now time.Time) []domain.ActivityEntry {
	var order []string
	minutes := map[string]int{}
	add := func(activityType string, d int) {
		if _, ok := minutes[activityType]; !ok {
			order = append(order, activityType)
		}
		minutes[activityType] += d
	}

	for _, e := range existing {
		add(e.ActivityType, e.DurationMinutes)
	}
	for _, a := range added {
		t, _ := knownActivityType(strings.TrimSpace(a.Type))
		add(t, a.DurationMinutes)
	}

	merged := make([]domain.ActivityEntry, len(order))
	for i, t := range order {
		merged[i] = domain.ActivityEntry{
			ClientID:        clientID,
			Date:            date,
			ActivityType:    t,
			DurationMinutes: minutes[t],
			CreatedAt:       now,
		}
	}
	return merged
}
