package api

import (
	"net/http"
	"time"

	"hardcase/coaching-app/internal/calendar"
	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService  service.TrainerService
	programService  service.ProgramService
	scheduleService service.ScheduleService
	overviewService service.OverviewService
	medicalService  service.MedicalService
	cal             *calendar.Calendar
}

type TrainerServices struct {
	Trainer  service.TrainerService
	Programs service.ProgramService
	Schedule service.ScheduleService
	Overview service.OverviewService
	Medical  service.MedicalService
}

func NewTrainerHandler(s TrainerServices, cal *calendar.Calendar) *TrainerHandler {
	return &TrainerHandler{
		trainerService:  s.Trainer,
		programService:  s.Programs,
		scheduleService: s.Schedule,
		overviewService: s.Overview,
		medicalService:  s.Medical,
		cal:             cal,
	}
}

// --- DTOs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type WorkoutRequest struct {
	ClientID          string    `json:"clientId" binding:"required"`
	StartTime         time.Time `json:"startTime" binding:"required"`
	EndTime           time.Time `json:"endTime" binding:"required"`
	Title             string    `json:"title"`
	TrainingProgramID string    `json:"trainingProgramId"`
}

type WorkoutResponse struct {
	ID                string    `json:"id"`
	ClientID          string    `json:"clientId"`
	TrainerID         string    `json:"trainerId"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Title             string    `json:"title"`
	TrainingProgramID *string   `json:"trainingProgramId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ProgramSetRequest struct {
	Reps   string `json:"reps" binding:"required"`
	Weight string `json:"weight"`
}

type ProgramExerciseRequest struct {
	ExerciseID string              `json:"exerciseId" binding:"required"`
	Notes      string              `json:"notes"`
	Sets       []ProgramSetRequest `json:"sets" binding:"required,min=1,dive"`
}

type ProgramRequest struct {
	Title       string                   `json:"title" binding:"required"`
	Description string                   `json:"description"`
	ClientID    string                   `json:"clientId"`
	Status      domain.ProgramStatus     `json:"status"`
	Exercises   []ProgramExerciseRequest `json:"exercises" binding:"dive"`
}

// optionalID parses an optional hex id, nil when empty.
func optionalID(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r WorkoutRequest) input() (service.WorkoutInput, error) {
	clientID, err := primitive.ObjectIDFromHex(r.ClientID)
	if err != nil {
		return service.WorkoutInput{}, err
	}
	programID, err := optionalID(r.TrainingProgramID)
	if err != nil {
		return service.WorkoutInput{}, err
	}
	return service.WorkoutInput{
		ClientID:          clientID,
		Start:             r.StartTime,
		End:               r.EndTime,
		Title:             r.Title,
		TrainingProgramID: programID,
	}, nil
}

func (r ProgramRequest) input() (service.ProgramInput, error) {
	clientID, err := optionalID(r.ClientID)
	if err != nil {
		return service.ProgramInput{}, err
	}
	in := service.ProgramInput{
		Title:       r.Title,
		Description: r.Description,
		ClientID:    clientID,
		Status:      r.Status,
		Exercises:   make([]service.ProgramExerciseInput, len(r.Exercises)),
	}
	for i, ex := range r.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(ex.ExerciseID)
		if err != nil {
			return service.ProgramInput{}, err
		}
		sets := make([]domain.ExerciseSet, len(ex.Sets))
		for j, s := range ex.Sets {
			sets[j] = domain.ExerciseSet{SetNumber: j + 1, Reps: s.Reps, Weight: s.Weight}
		}
		in.Exercises[i] = service.ProgramExerciseInput{ExerciseID: exerciseID, Notes: ex.Notes, Sets: sets}
	}
	return in, nil
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:        w.ID.Hex(),
		ClientID:  w.ClientID.Hex(),
		TrainerID: w.TrainerID.Hex(),
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		Title:     w.Title,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.TrainingProgramID != nil && !w.TrainingProgramID.IsZero() {
		programIDHex := w.TrainingProgramID.Hex()
		resp.TrainingProgramID = &programIDHex
	}
	return resp
}

// --- Clients ---

// AddClientByEmail godoc
// @Summary Add a client to the trainer's roster by email
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientRequest body AddClientRequest true "Client's email"
// @Success 200 {object} UserResponse
// @Failure 403 {object} gin.H "User is not a client"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 409 {object} gin.H "Client already has a trainer"
// @Router /trainer/clients [post]
func (h *TrainerHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		respondError(c, err, "Failed to add client.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients godoc
// @Summary Get clients managed by the trainer
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /trainer/clients [get]
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve clients.")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(clients))
}

type ClientProfileResponse struct {
	Client   UserResponse       `json:"client"`
	Overview *service.Dashboard `json:"overview"`
}

// GetClientProfile godoc
// @Summary Profile and statistics of one managed client
// @Description Sections that failed to load are listed in overview.failedSections.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} ClientProfileResponse
// @Failure 403 {object} gin.H "Client not managed by trainer"
// @Router /trainer/clients/{clientId} [get]
func (h *TrainerHandler) GetClientProfile(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	profile, err := h.overviewService.ClientProfile(c.Request.Context(), trainerID, clientID)
	if profile == nil {
		respondError(c, err, "Failed to load client profile.")
		return
	}
	if err != nil {
		logPartial(c, err)
	}
	c.JSON(http.StatusOK, ClientProfileResponse{Client: MapUserToResponse(profile.Client), Overview: profile.Overview})
}

// GetClientMedicalRecords lists a managed client's medical documents.
func (h *TrainerHandler) GetClientMedicalRecords(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientId")
	if !ok {
		return
	}

	records, err := h.medicalService.ListForTrainer(c.Request.Context(), trainerID, clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve medical records.")
		return
	}
	c.JSON(http.StatusOK, records)
}

// --- Calendar ---

// GetCalendar godoc
// @Summary Trainer calendar
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param mode query string false "month, week or day" default(month)
// @Param date query string false "Reference day YYYY-MM-DD, defaults to today"
// @Success 200 {object} service.CalendarView
// @Router /trainer/calendar [get]
func (h *TrainerHandler) GetCalendar(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	mode, err := calendar.ParseViewMode(c.DefaultQuery("mode", string(calendar.Month)))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	ref := h.cal.Today()
	if date := c.Query("date"); date != "" {
		ref, err = h.cal.ParseDate(date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
			return
		}
	}

	view, err := h.scheduleService.Calendar(c.Request.Context(), trainerID, mode, ref)
	if err != nil {
		respondError(c, err, "Failed to load calendar.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetTimeOptions returns the selectable start times and the suggested default.
func (h *TrainerHandler) GetTimeOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduleService.TimeOptions())
}

// --- Workouts ---

// CreateWorkout godoc
// @Summary Schedule a workout with a managed client
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout, times in RFC3339"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Outside working hours or invalid input"
// @Failure 403 {object} gin.H "Client not managed by trainer"
// @Router /trainer/workouts [post]
func (h *TrainerHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	in, err := req.input()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid id format in request.")
		return
	}

	workout, err := h.scheduleService.CreateWorkout(c.Request.Context(), trainerID, in)
	if err != nil {
		respondError(c, err, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

func (h *TrainerHandler) UpdateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	in, err := req.input()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid id format in request.")
		return
	}

	workout, err := h.scheduleService.UpdateWorkout(c.Request.Context(), trainerID, workoutID, in)
	if err != nil {
		respondError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func (h *TrainerHandler) DeleteWorkout(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteWorkout(c.Request.Context(), trainerID, workoutID); err != nil {
		respondError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Programs ---

// CreateProgram godoc
// @Summary Create a training program
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program body ProgramRequest true "Program with exercises and sets"
// @Success 201 {object} domain.TrainingProgram
// @Router /trainer/programs [post]
func (h *TrainerHandler) CreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	in, err := req.input()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid id format in request.")
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), trainerID, in)
	if err != nil {
		respondError(c, err, "Failed to create program.")
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *TrainerHandler) GetPrograms(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}

	programs, err := h.programService.ListPrograms(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve programs.")
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *TrainerHandler) GetProgram(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), trainerID, programID)
	if err != nil {
		respondError(c, err, "Failed to retrieve program.")
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *TrainerHandler) UpdateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	in, err := req.input()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid id format in request.")
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), trainerID, programID, in)
	if err != nil {
		respondError(c, err, "Failed to update program.")
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *TrainerHandler) DeleteProgram(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), trainerID, programID); err != nil {
		respondError(c, err, "Failed to delete program.")
		return
	}
	c.Status(http.StatusNoContent)
}
