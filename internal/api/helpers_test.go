package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"hardcase/coaching-app/internal/calendar"
	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/metrics"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	testTrainerID = primitive.NewObjectID()
	testClientID  = primitive.NewObjectID()
	testNow       = time.Date(2024, 5, 15, 10, 20, 0, 0, time.UTC)
)

const (
	trainerToken = "trainer-token"
	clientToken  = "client-token"
)

// fakeTokens resolves a fixed set of bearer tokens.
type fakeTokens map[string]*service.Claims

func (f fakeTokens) ParseToken(token string) (*service.Claims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, service.ErrInvalidToken
}

func testTokens() fakeTokens {
	return fakeTokens{
		trainerToken: {UserID: testTrainerID.Hex(), Role: domain.RoleTrainer},
		clientToken:  {UserID: testClientID.Hex(), Role: domain.RoleClient},
	}
}

type MockPhotoService struct{ mock.Mock }

func (m *MockPhotoService) Upload(ctx context.Context, clientID primitive.ObjectID, folder service.PhotoFolder, files []service.FileUpload) ([]photos.Photo, error) {
	args := m.Called(ctx, clientID, folder, files)
	uploaded, _ := args.Get(0).([]photos.Photo)
	return uploaded, args.Error(1)
}

func (m *MockPhotoService) List(ctx context.Context, clientID primitive.ObjectID, folder service.PhotoFolder) ([]photos.Photo, error) {
	args := m.Called(ctx, clientID, folder)
	list, _ := args.Get(0).([]photos.Photo)
	return list, args.Error(1)
}

func (m *MockPhotoService) Timeline(ctx context.Context, clientID primitive.ObjectID) (photos.Comparison, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(photos.Comparison), args.Error(1)
}

type MockOverviewService struct{ mock.Mock }

func (m *MockOverviewService) Dashboard(ctx context.Context, clientID primitive.ObjectID) (*service.Dashboard, error) {
	args := m.Called(ctx, clientID)
	dash, _ := args.Get(0).(*service.Dashboard)
	return dash, args.Error(1)
}

func (m *MockOverviewService) Achievements(ctx context.Context, clientID primitive.ObjectID) (*service.AchievementsView, error) {
	args := m.Called(ctx, clientID)
	view, _ := args.Get(0).(*service.AchievementsView)
	return view, args.Error(1)
}

func (m *MockOverviewService) ClientProfile(ctx context.Context, trainerID, clientID primitive.ObjectID) (*service.ClientProfile, error) {
	args := m.Called(ctx, trainerID, clientID)
	profile, _ := args.Get(0).(*service.ClientProfile)
	return profile, args.Error(1)
}

type MockScheduleService struct{ mock.Mock }

func (m *MockScheduleService) Calendar(ctx context.Context, trainerID primitive.ObjectID, mode calendar.ViewMode, ref time.Time) (*service.CalendarView, error) {
	args := m.Called(ctx, trainerID, mode, ref)
	view, _ := args.Get(0).(*service.CalendarView)
	return view, args.Error(1)
}

func (m *MockScheduleService) CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, error) {
	args := m.Called(ctx, trainerID, in)
	w, _ := args.Get(0).(*domain.Workout)
	return w, args.Error(1)
}

func (m *MockScheduleService) UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in service.WorkoutInput) (*domain.Workout, error) {
	args := m.Called(ctx, trainerID, workoutID, in)
	w, _ := args.Get(0).(*domain.Workout)
	return w, args.Error(1)
}

func (m *MockScheduleService) DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error {
	return m.Called(ctx, trainerID, workoutID).Error(0)
}

func (m *MockScheduleService) TimeOptions() service.TimeOptions {
	return m.Called().Get(0).(service.TimeOptions)
}

type MockExerciseService struct{ mock.Mock }

func (m *MockExerciseService) CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in service.ExerciseInput) (*domain.Exercise, error) {
	args := m.Called(ctx, trainerID, in)
	ex, _ := args.Get(0).(*domain.Exercise)
	return ex, args.Error(1)
}

func (m *MockExerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	args := m.Called(ctx, trainerID, filter)
	list, _ := args.Get(0).([]domain.Exercise)
	return list, args.Error(1)
}

func (m *MockExerciseService) UpdateExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID, in service.ExerciseInput) (*domain.Exercise, error) {
	args := m.Called(ctx, trainerID, exerciseID, in)
	ex, _ := args.Get(0).(*domain.Exercise)
	return ex, args.Error(1)
}

func (m *MockExerciseService) DeleteExercise(ctx context.Context, trainerID, exerciseID primitive.ObjectID) error {
	return m.Called(ctx, trainerID, exerciseID).Error(0)
}

type testServices struct {
	photos    *MockPhotoService
	overview  *MockOverviewService
	schedule  *MockScheduleService
	exercises *MockExerciseService
}

// newTestRouter mounts every route with mocked services where a test
// needs them and nil where it does not.
func newTestRouter(t *testing.T) (*gin.Engine, testServices) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := testServices{
		photos:    &MockPhotoService{},
		overview:  &MockOverviewService{},
		schedule:  &MockScheduleService{},
		exercises: &MockExerciseService{},
	}
	t.Cleanup(func() {
		s.photos.AssertExpectations(t)
		s.overview.AssertExpectations(t)
		s.schedule.AssertExpectations(t)
		s.exercises.AssertExpectations(t)
	})

	cal := calendar.New(calendar.Settings{
		Location:  time.UTC,
		Hours:     calendar.DefaultWorkingHours,
		FirstSlot: 8,
		LastSlot:  20,
		Now:       func() time.Time { return testNow },
	})

	router := gin.New()
	SetupRoutes(router, RouterParams{
		Tokens:         testTokens(),
		Metrics:        metrics.NewTestManager(),
		Gatherer:       prometheus.NewRegistry(),
		AllowedOrigins: []string{"http://localhost:5173"},
	}, Handlers{
		Auth:     NewAuthHandler(nil),
		System:   NewSystemHandler(service.ClockFunc(func() time.Time { return testNow })),
		Exercise: NewExerciseHandler(s.exercises),
		Trainer: NewTrainerHandler(TrainerServices{
			Schedule: s.schedule,
			Overview: s.overview,
		}, cal),
		Client: NewClientHandler(ClientServices{
			Photos:   s.photos,
			Overview: s.overview,
		}),
	})
	return router, s
}

func doRequest(router *gin.Engine, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var errBoom = errors.New("boom")
