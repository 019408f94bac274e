package api

import (
	"net/http"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/repository"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ExerciseRequest is the body of create and update.
type ExerciseRequest struct {
	Name             string            `json:"name" binding:"required"`
	Description      string            `json:"description"`
	MuscleGroups     []string          `json:"muscleGroups"`
	Equipment        []string          `json:"equipment"`
	Difficulty       domain.Difficulty `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	ExecutionTechnic string            `json:"executionTechnic"`
	VideoURL         string            `json:"videoUrl" binding:"omitempty,url"`
}

func (r ExerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:             r.Name,
		Description:      r.Description,
		MuscleGroups:     r.MuscleGroups,
		Equipment:        r.Equipment,
		Difficulty:       r.Difficulty,
		ExecutionTechnic: r.ExecutionTechnic,
		VideoURL:         r.VideoURL,
	}
}

type ExerciseResponse struct {
	ID               string            `json:"id"`
	TrainerID        string            `json:"trainerId"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	MuscleGroups     []string          `json:"muscleGroups"`
	Equipment        []string          `json:"equipment"`
	Difficulty       domain.Difficulty `json:"difficulty,omitempty"`
	ExecutionTechnic string            `json:"executionTechnic,omitempty"`
	VideoURL         string            `json:"videoUrl,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:               ex.ID.Hex(),
		TrainerID:        ex.TrainerID.Hex(),
		Name:             ex.Name,
		Description:      ex.Description,
		MuscleGroups:     nonNil(ex.MuscleGroups),
		Equipment:        nonNil(ex.Equipment),
		Difficulty:       ex.Difficulty,
		ExecutionTechnic: ex.ExecutionTechnic,
		VideoURL:         ex.VideoURL,
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// CreateExercise godoc
// @Summary Create a new exercise in the trainer's library
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Router /trainer/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), trainerID, req.input())
	if err != nil {
		respondError(c, err, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetTrainerExercises godoc
// @Summary List the trainer's exercise library
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param muscleGroup query string false "Muscle group tag"
// @Param equipment query string false "Equipment tag"
// @Param difficulty query string false "beginner, intermediate or advanced"
// @Success 200 {array} ExerciseResponse
// @Router /trainer/exercises [get]
func (h *ExerciseHandler) GetTrainerExercises(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter := repository.ExerciseFilter{
		MuscleGroup: c.Query("muscleGroup"),
		Equipment:   c.Query("equipment"),
		Difficulty:  domain.Difficulty(c.Query("difficulty")),
	}

	exercises, err := h.exerciseService.GetExercisesByTrainer(c.Request.Context(), trainerID, filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), trainerID, exerciseID, req.input())
	if err != nil {
		respondError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), trainerID, exerciseID); err != nil {
		respondError(c, err, "Failed to delete exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}
