package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories. Each embeds its interface so that calling a
// method a test did not expect panics.

type fakeUsers struct {
	repository.UserRepository
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{users: map[primitive.ObjectID]domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = *user
	return user.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) AddClientIDToTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	t.ClientIDs = append(t.ClientIDs, clientID)
	f.users[trainerID] = t
	return nil
}

func (f *fakeUsers) SetTrainerForClient(_ context.Context, clientID, trainerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TrainerID = &trainerID
	f.users[clientID] = c
	return nil
}

func (f *fakeUsers) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var clients []domain.User
	for _, u := range f.users {
		if u.IsClient() && u.ManagedBy(trainerID) {
			clients = append(clients, u)
		}
	}
	return clients, nil
}

type fakeExercises struct {
	repository.ExerciseRepository
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExercises(exercises ...domain.Exercise) *fakeExercises {
	f := &fakeExercises{exercises: map[primitive.ObjectID]domain.Exercise{}}
	for _, e := range exercises {
		f.exercises[e.ID] = e
	}
	return f
}

func (f *fakeExercises) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := f.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeExercises) Create(_ context.Context, e *domain.Exercise) (primitive.ObjectID, error) {
	e.ID = newID()
	f.exercises[e.ID] = *e
	return e.ID, nil
}

func (f *fakeExercises) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range f.exercises {
		if e.TrainerID == trainerID && filter.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeExercises) Update(_ context.Context, e *domain.Exercise) error {
	if _, ok := f.exercises[e.ID]; !ok {
		return repository.ErrNotFound
	}
	f.exercises[e.ID] = *e
	return nil
}

type fakePrograms struct {
	repository.TrainingProgramRepository
	programs map[primitive.ObjectID]domain.TrainingProgram
}

func newFakePrograms(programs ...domain.TrainingProgram) *fakePrograms {
	f := &fakePrograms{programs: map[primitive.ObjectID]domain.TrainingProgram{}}
	for _, p := range programs {
		f.programs[p.ID] = p
	}
	return f
}

func (f *fakePrograms) Create(_ context.Context, p *domain.TrainingProgram) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	f.programs[p.ID] = *p
	return p.ID, nil
}

func (f *fakePrograms) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingProgram, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakePrograms) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.TrainingProgram, error) {
	list := []domain.TrainingProgram{}
	for _, id := range ids {
		if p, ok := f.programs[id]; ok {
			list = append(list, p)
		}
	}
	return list, nil
}

type fakeWorkouts struct {
	repository.WorkoutRepository
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.Workout
	creates  int
	err      error
}

func newFakeWorkouts(workouts ...domain.Workout) *fakeWorkouts {
	f := &fakeWorkouts{workouts: map[primitive.ObjectID]domain.Workout{}}
	for _, w := range workouts {
		f.workouts[w.ID] = w
	}
	return f
}

func (f *fakeWorkouts) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	w.ID = primitive.NewObjectID()
	f.workouts[w.ID] = *w
	return w.ID, nil
}

func (f *fakeWorkouts) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (f *fakeWorkouts) Update(_ context.Context, w *domain.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workouts[w.ID]; !ok {
		return repository.ErrNotFound
	}
	f.workouts[w.ID] = *w
	return nil
}

func (f *fakeWorkouts) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.TrainerID != trainerID {
		return repository.ErrDeleteFailed
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeWorkouts) sorted(keep func(domain.Workout) bool) []domain.Workout {
	list := []domain.Workout{}
	for _, w := range f.workouts {
		if keep(w) {
			list = append(list, w)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list
}

func (f *fakeWorkouts) GetByTrainerInRange(_ context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(w domain.Workout) bool {
		return w.TrainerID == trainerID && !w.StartTime.Before(from) && w.StartTime.Before(to)
	}), nil
}

func (f *fakeWorkouts) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(func(w domain.Workout) bool { return w.ClientID == clientID }), nil
}

func (f *fakeWorkouts) GetNextForClient(_ context.Context, clientID primitive.ObjectID, after time.Time) (*domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.sorted(func(w domain.Workout) bool { return w.ClientID == clientID && w.StartTime.After(after) })
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[0], nil
}

type fakeCompletions struct {
	repository.CompletionRepository
	mu        sync.Mutex
	workouts  map[primitive.ObjectID]domain.WorkoutCompletion
	exercises map[primitive.ObjectID][]domain.ExerciseCompletion
}

func newFakeCompletions() *fakeCompletions {
	return &fakeCompletions{
		workouts:  map[primitive.ObjectID]domain.WorkoutCompletion{},
		exercises: map[primitive.ObjectID][]domain.ExerciseCompletion{},
	}
}

func (f *fakeCompletions) UpsertWorkoutCompletion(_ context.Context, c *domain.WorkoutCompletion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workouts[c.WorkoutID] = *c
	return nil
}

func (f *fakeCompletions) GetWorkoutCompletion(_ context.Context, workoutID, clientID primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.workouts[workoutID]
	if !ok || c.ClientID != clientID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCompletions) GetWorkoutCompletionsByClient(_ context.Context, clientID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []domain.WorkoutCompletion{}
	for _, c := range f.workouts {
		if c.ClientID == clientID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (f *fakeCompletions) ReplaceExerciseCompletions(_ context.Context, workoutID, _ primitive.ObjectID, completions []domain.ExerciseCompletion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exercises[workoutID] = completions
	return nil
}

func (f *fakeCompletions) GetExerciseCompletionsByWorkout(_ context.Context, workoutID, _ primitive.ObjectID) ([]domain.ExerciseCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ExerciseCompletion{}, f.exercises[workoutID]...), nil
}

func (f *fakeCompletions) GetExerciseCompletionsByClient(_ context.Context, clientID primitive.ObjectID) ([]domain.ExerciseCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []domain.ExerciseCompletion{}
	for _, cs := range f.exercises {
		for _, c := range cs {
			if c.ClientID == clientID {
				list = append(list, c)
			}
		}
	}
	return list, nil
}

type fakeMeasurements struct {
	repository.MeasurementRepository
	measurements []domain.Measurement
	err          error
}

func (f *fakeMeasurements) Create(_ context.Context, m *domain.Measurement) (primitive.ObjectID, error) {
	m.ID = primitive.NewObjectID()
	f.measurements = append(f.measurements, *m)
	return m.ID, nil
}

func (f *fakeMeasurements) GetByID(_ context.Context, id, clientID primitive.ObjectID) (*domain.Measurement, error) {
	for _, m := range f.measurements {
		if m.ID == id && m.ClientID == clientID {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMeasurements) Update(_ context.Context, m *domain.Measurement) error {
	for i := range f.measurements {
		if f.measurements[i].ID == m.ID {
			f.measurements[i] = *m
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMeasurements) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	if f.err != nil {
		return nil, f.err
	}
	list := []domain.Measurement{}
	for _, m := range f.measurements {
		if m.ClientID == clientID {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

type fakeCompositions struct {
	repository.BodyCompositionRepository
	rows []domain.BodyComposition
}

func (f *fakeCompositions) Create(_ context.Context, bc *domain.BodyComposition) (primitive.ObjectID, error) {
	bc.ID = primitive.NewObjectID()
	f.rows = append(f.rows, *bc)
	return bc.ID, nil
}

func (f *fakeCompositions) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.BodyComposition, error) {
	list := []domain.BodyComposition{}
	for _, r := range f.rows {
		if r.ClientID == clientID {
			list = append(list, r)
		}
	}
	return list, nil
}

type fakeNutrition struct {
	repository.NutritionRepository
	entries map[string]domain.NutritionEntry
}

func newFakeNutrition() *fakeNutrition {
	return &fakeNutrition{entries: map[string]domain.NutritionEntry{}}
}

func (f *fakeNutrition) key(clientID primitive.ObjectID, date string) string {
	return clientID.Hex() + "/" + date
}

func (f *fakeNutrition) Upsert(_ context.Context, e *domain.NutritionEntry) error {
	k := f.key(e.ClientID, e.Date)
	if prev, ok := f.entries[k]; ok {
		e.ID = prev.ID
		e.PhotoKeys = prev.PhotoKeys
	} else {
		e.ID = primitive.NewObjectID()
	}
	f.entries[k] = *e
	return nil
}

func (f *fakeNutrition) GetByClientAndDate(_ context.Context, clientID primitive.ObjectID, date string) (*domain.NutritionEntry, error) {
	e, ok := f.entries[f.key(clientID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeNutrition) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.NutritionEntry, error) {
	list := []domain.NutritionEntry{}
	for _, e := range f.entries {
		if e.ClientID == clientID {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list, nil
}

func (f *fakeNutrition) AddPhotoKeys(_ context.Context, clientID primitive.ObjectID, date string, keys []string) error {
	k := f.key(clientID, date)
	e, ok := f.entries[k]
	if !ok {
		return repository.ErrNotFound
	}
	e.PhotoKeys = append(e.PhotoKeys, keys...)
	f.entries[k] = e
	return nil
}

type fakeActivities struct {
	repository.ActivityRepository
	entries []domain.ActivityEntry
}

func (f *fakeActivities) GetByClientAndDate(_ context.Context, clientID primitive.ObjectID, date string) ([]domain.ActivityEntry, error) {
	list := []domain.ActivityEntry{}
	for _, e := range f.entries {
		if e.ClientID == clientID && e.Date == date {
			list = append(list, e)
		}
	}
	return list, nil
}

func (f *fakeActivities) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.ActivityEntry, error) {
	list := []domain.ActivityEntry{}
	for _, e := range f.entries {
		if e.ClientID == clientID {
			list = append(list, e)
		}
	}
	return list, nil
}

func (f *fakeActivities) ReplaceForDay(_ context.Context, clientID primitive.ObjectID, date string, entries []domain.ActivityEntry) error {
	kept := f.entries[:0:0]
	for _, e := range f.entries {
		if e.ClientID != clientID || e.Date != date {
			kept = append(kept, e)
		}
	}
	f.entries = append(kept, entries...)
	return nil
}

type fakeDailyStats struct {
	repository.DailyStatRepository
	stats map[string]domain.DailyStat
}

func newFakeDailyStats() *fakeDailyStats {
	return &fakeDailyStats{stats: map[string]domain.DailyStat{}}
}

func (f *fakeDailyStats) Upsert(_ context.Context, s *domain.DailyStat) error {
	f.stats[s.ClientID.Hex()+"/"+s.Date] = *s
	return nil
}

func (f *fakeDailyStats) GetByClientAndDate(_ context.Context, clientID primitive.ObjectID, date string) (*domain.DailyStat, error) {
	s, ok := f.stats[clientID.Hex()+"/"+date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeDailyStats) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.DailyStat, error) {
	list := []domain.DailyStat{}
	for _, s := range f.stats {
		if s.ClientID == clientID {
			list = append(list, s)
		}
	}
	return list, nil
}

type fakeMedical struct {
	repository.MedicalRepository
	records map[primitive.ObjectID]domain.MedicalRecord
}

func newFakeMedical() *fakeMedical {
	return &fakeMedical{records: map[primitive.ObjectID]domain.MedicalRecord{}}
}

func (f *fakeMedical) Create(_ context.Context, r *domain.MedicalRecord) (primitive.ObjectID, error) {
	r.ID = primitive.NewObjectID()
	f.records[r.ID] = *r
	return r.ID, nil
}

func (f *fakeMedical) GetByID(_ context.Context, id, clientID primitive.ObjectID) (*domain.MedicalRecord, error) {
	r, ok := f.records[id]
	if !ok || r.ClientID != clientID {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeMedical) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.MedicalRecord, error) {
	list := []domain.MedicalRecord{}
	for _, r := range f.records {
		if r.ClientID == clientID {
			list = append(list, r)
		}
	}
	return list, nil
}

func (f *fakeMedical) Delete(_ context.Context, id, clientID primitive.ObjectID) error {
	r, ok := f.records[id]
	if !ok || r.ClientID != clientID {
		return repository.ErrDeleteFailed
	}
	delete(f.records, id)
	return nil
}

type fakePhotos struct {
	repository.ProgressPhotoRepository
	mu     sync.Mutex
	photos []domain.ProgressPhoto
	err    error
}

func (f *fakePhotos) CreateMany(_ context.Context, photos []domain.ProgressPhoto) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range photos {
		photos[i].ID = primitive.NewObjectID()
	}
	f.photos = append(f.photos, photos...)
	return nil
}

func (f *fakePhotos) GetByClientID(_ context.Context, clientID primitive.ObjectID, folder string) ([]domain.ProgressPhoto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := []domain.ProgressPhoto{}
	for _, p := range f.photos {
		if p.ClientID == clientID && (folder == "" || p.Folder == folder) {
			list = append(list, p)
		}
	}
	return list, nil
}

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func floatPtr(v float64) *float64 { return &v }
