package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"hardcase/coaching-app/internal/calendar"
	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetCalendar_InvalidMode(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/trainer/calendar?mode=year", trainerToken, nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCalendar_InvalidDate(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/trainer/calendar?mode=week&date=15.05.2024", trainerToken, nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCalendar_PassesModeAndDate(t *testing.T) {
	router, s := newTestRouter(t)

	onDay := mock.MatchedBy(func(ref time.Time) bool { return ref.Format(domain.DateLayout) == "2024-06-03" })
	s.schedule.On("Calendar", mock.Anything, testTrainerID, calendar.Week, onDay).
		Return(&service.CalendarView{Mode: calendar.Week}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/trainer/calendar?mode=week&date=2024-06-03", trainerToken, nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "week", decodeBody(t, w)["mode"])
}

func TestGetCalendar_DefaultsToMonthToday(t *testing.T) {
	router, s := newTestRouter(t)

	today := mock.MatchedBy(func(ref time.Time) bool { return ref.Format(domain.DateLayout) == "2024-05-15" })
	s.schedule.On("Calendar", mock.Anything, testTrainerID, calendar.Month, today).
		Return(&service.CalendarView{Mode: calendar.Month}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/trainer/calendar", trainerToken, nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateWorkout(t *testing.T) {
	start := time.Date(2024, 5, 16, 9, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"clientId":%q,"startTime":%q,"endTime":%q}`,
		testClientID.Hex(), start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339))

	matchInput := mock.MatchedBy(func(in service.WorkoutInput) bool {
		return in.ClientID == testClientID && in.Start.Equal(start) && in.TrainingProgramID == nil
	})

	t.Run("created", func(t *testing.T) {
		router, s := newTestRouter(t)
		s.schedule.On("CreateWorkout", mock.Anything, testTrainerID, matchInput).
			Return(&domain.Workout{ClientID: testClientID, TrainerID: testTrainerID, StartTime: start, Title: domain.DefaultWorkoutTitle}, nil).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/trainer/workouts", trainerToken, strings.NewReader(body), "application/json")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, domain.DefaultWorkoutTitle, decodeBody(t, w)["title"])
	})

	t.Run("outside working hours", func(t *testing.T) {
		router, s := newTestRouter(t)
		s.schedule.On("CreateWorkout", mock.Anything, testTrainerID, matchInput).
			Return(nil, fmt.Errorf("%w: workout must end by 21:00", service.ErrValidationFailed)).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/trainer/workouts", trainerToken, strings.NewReader(body), "application/json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("foreign client", func(t *testing.T) {
		router, s := newTestRouter(t)
		s.schedule.On("CreateWorkout", mock.Anything, testTrainerID, matchInput).
			Return(nil, service.ErrClientNotManaged).Once()

		w := doRequest(router, http.MethodPost, "/api/v1/trainer/workouts", trainerToken, strings.NewReader(body), "application/json")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCreateWorkout_RejectsMalformedClientID(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"clientId":"nope","startTime":"2024-05-16T09:00:00Z","endTime":"2024-05-16T10:00:00Z"}`

	w := doRequest(router, http.MethodPost, "/api/v1/trainer/workouts", trainerToken, strings.NewReader(body), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetClientProfile_PartialOverview(t *testing.T) {
	router, s := newTestRouter(t)
	client := &domain.User{ID: testClientID, FirstName: "Ann", Role: domain.RoleClient}
	s.overview.On("ClientProfile", mock.Anything, testTrainerID, testClientID).
		Return(&service.ClientProfile{Client: client, Overview: &service.Dashboard{FailedSections: []string{"nutrition"}}}, errBoom).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/trainer/clients/"+testClientID.Hex(), trainerToken, nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Ann", body["client"].(map[string]any)["firstName"])
	assert.Equal(t, []any{"nutrition"}, body["overview"].(map[string]any)["failedSections"])
}

func TestGetClientProfile_NotManaged(t *testing.T) {
	router, s := newTestRouter(t)
	s.overview.On("ClientProfile", mock.Anything, testTrainerID, testClientID).
		Return(nil, service.ErrClientNotManaged).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/trainer/clients/"+testClientID.Hex(), trainerToken, nil, "")

	assert.Equal(t, http.StatusForbidden, w.Code)
}
