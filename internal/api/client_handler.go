package api

import (
	"net/http"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler serves the client's own data. The client id is always the
// authenticated user's id.
type ClientHandler struct {
	workoutService     service.WorkoutService
	overviewService    service.OverviewService
	measurementService service.MeasurementService
	photoService       service.PhotoService
	nutritionService   service.NutritionService
	activityService    service.ActivityService
	medicalService     service.MedicalService
}

type ClientServices struct {
	Workouts     service.WorkoutService
	Overview     service.OverviewService
	Measurements service.MeasurementService
	Photos       service.PhotoService
	Nutrition    service.NutritionService
	Activity     service.ActivityService
	Medical      service.MedicalService
}

func NewClientHandler(s ClientServices) *ClientHandler {
	return &ClientHandler{
		workoutService:     s.Workouts,
		overviewService:    s.Overview,
		measurementService: s.Measurements,
		photoService:       s.Photos,
		nutritionService:   s.Nutrition,
		activityService:    s.Activity,
		medicalService:     s.Medical,
	}
}

// --- DTOs ---

type ExerciseCompletionRequest struct {
	ExerciseID    string `json:"exerciseId" binding:"required"`
	CompletedSets []bool `json:"completedSets"`
}

type CompletionRequest struct {
	Completed bool                        `json:"completed"`
	Notes     string                      `json:"notes"`
	Exercises []ExerciseCompletionRequest `json:"exercises" binding:"dive"`
}

type MeasurementRequest struct {
	Date   string   `json:"date" binding:"required"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
	Chest  *float64 `json:"chest"`
	Waist  *float64 `json:"waist"`
	Hips   *float64 `json:"hips"`
	Biceps *float64 `json:"biceps"`
	Calves *float64 `json:"calves"`
}

type BodyCompositionRequest struct {
	Date                 string   `json:"measurementDate" binding:"required"`
	Age                  *int     `json:"age"`
	Gender               string   `json:"gender"`
	HeightCm             *float64 `json:"heightCm"`
	WeightKg             *float64 `json:"weightKg"`
	BMI                  *float64 `json:"bmi"`
	BodyFatPercent       *float64 `json:"bodyFatPercent"`
	FatMassKg            *float64 `json:"fatMassKg"`
	SkeletalMuscleMassKg *float64 `json:"skeletalMuscleMassKg"`
	WaterPercentage      *float64 `json:"waterPercentage"`
	VisceralFatLevel     *int     `json:"visceralFatLevel"`
	BasalMetabolicRate   *float64 `json:"basalMetabolicRateKcal"`
	InbodyScore          *int     `json:"inbodyScore"`
	Notes                string   `json:"notes"`
}

type NutritionRequest struct {
	Date     string  `json:"date" binding:"required"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
	Water    float64 `json:"water"`
	Notes    string  `json:"notes"`
}

type ActivityRequest struct {
	Type            string `json:"activityType" binding:"required"`
	DurationMinutes int    `json:"durationMinutes"`
}

type DayActivityRequest struct {
	Date        string            `json:"date"`
	SleepHours  float64           `json:"sleepHours"`
	WaterMl     int               `json:"waterMl"`
	Mood        domain.Mood       `json:"mood"`
	StressLevel int               `json:"stressLevel"`
	Notes       string            `json:"notes"`
	Activities  []ActivityRequest `json:"activities" binding:"dive"`
}

type PhotosResponse struct {
	Photos []photos.Photo `json:"photos"`
}

type NutritionPhotosResponse struct {
	Date   string   `json:"date"`
	Photos []string `json:"photos"`
}

func (r CompletionRequest) input() (service.CompletionInput, error) {
	in := service.CompletionInput{
		Completed: r.Completed,
		Notes:     r.Notes,
		Exercises: make([]service.ExerciseCompletionInput, len(r.Exercises)),
	}
	for i, ex := range r.Exercises {
		id, err := primitive.ObjectIDFromHex(ex.ExerciseID)
		if err != nil {
			return service.CompletionInput{}, err
		}
		in.Exercises[i] = service.ExerciseCompletionInput{ExerciseID: id, CompletedSets: ex.CompletedSets}
	}
	return in, nil
}

func (r MeasurementRequest) input() service.MeasurementInput {
	return service.MeasurementInput{
		Date:   r.Date,
		Weight: r.Weight,
		Height: r.Height,
		Chest:  r.Chest,
		Waist:  r.Waist,
		Hips:   r.Hips,
		Biceps: r.Biceps,
		Calves: r.Calves,
	}
}

func (r BodyCompositionRequest) input() service.BodyCompositionInput {
	return service.BodyCompositionInput{
		Date:                 r.Date,
		Age:                  r.Age,
		Gender:               r.Gender,
		HeightCm:             r.HeightCm,
		WeightKg:             r.WeightKg,
		BMI:                  r.BMI,
		BodyFatPercent:       r.BodyFatPercent,
		FatMassKg:            r.FatMassKg,
		SkeletalMuscleMassKg: r.SkeletalMuscleMassKg,
		WaterPercentage:      r.WaterPercentage,
		VisceralFatLevel:     r.VisceralFatLevel,
		BasalMetabolicRate:   r.BasalMetabolicRate,
		InbodyScore:          r.InbodyScore,
		Notes:                r.Notes,
	}
}

func (r DayActivityRequest) input() service.DayInput {
	in := service.DayInput{
		Date:        r.Date,
		SleepHours:  r.SleepHours,
		WaterMl:     r.WaterMl,
		Mood:        r.Mood,
		StressLevel: r.StressLevel,
		Notes:       r.Notes,
		Activities:  make([]service.ActivityInput, len(r.Activities)),
	}
	for i, a := range r.Activities {
		in.Activities[i] = service.ActivityInput{Type: a.Type, DurationMinutes: a.DurationMinutes}
	}
	return in
}

// --- Overview ---

// GetDashboard godoc
// @Summary Client dashboard
// @Description Always 200; sections that failed to load are named in failedSections.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /client/dashboard [get]
func (h *ClientHandler) GetDashboard(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	dash, err := h.overviewService.Dashboard(c.Request.Context(), clientID)
	if err != nil {
		logPartial(c, err)
	}
	c.JSON(http.StatusOK, dash)
}

// GetAchievements godoc
// @Summary Client achievements and workout statistics
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AchievementsView
// @Router /client/achievements [get]
func (h *ClientHandler) GetAchievements(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.overviewService.Achievements(c.Request.Context(), clientID)
	if err != nil {
		logPartial(c, err)
	}
	c.JSON(http.StatusOK, view)
}

// --- Workouts ---

func (h *ClientHandler) GetMyWorkouts(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetNextWorkout returns the next upcoming workout or {"workout": null}.
func (h *ClientHandler) GetNextWorkout(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	next, err := h.workoutService.NextWorkout(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve next workout.")
		return
	}
	if next == nil {
		c.JSON(http.StatusOK, gin.H{"workout": nil})
		return
	}
	resp := MapWorkoutToResponse(next)
	c.JSON(http.StatusOK, gin.H{"workout": resp})
}

func (h *ClientHandler) GetMyWorkout(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	detail, err := h.workoutService.GetWorkout(c.Request.Context(), clientID, workoutID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ReportCompletion godoc
// @Summary Report completion of a workout
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param completion body CompletionRequest true "Completion flag, notes and completed sets"
// @Success 200 {object} service.WorkoutDetail
// @Router /client/workouts/{workoutId}/completion [post]
func (h *ClientHandler) ReportCompletion(c *gin.Context) {
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	in, err := req.input()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format.")
		return
	}

	detail, err := h.workoutService.ReportCompletion(c.Request.Context(), clientID, workoutID, in)
	if err != nil {
		respondError(c, err, "Failed to save completion.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// --- Measurements ---

func (h *ClientHandler) GetMeasurements(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := h.measurementService.ListMeasurements(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve measurements.")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *ClientHandler) AddMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	m, err := h.measurementService.AddMeasurement(c.Request.Context(), clientID, req.input())
	if err != nil {
		respondError(c, err, "Failed to save measurement.")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ClientHandler) UpdateMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	measurementID, ok := pathID(c, "id")
	if !ok {
		return
	}

	m, err := h.measurementService.UpdateMeasurement(c.Request.Context(), clientID, measurementID, req.input())
	if err != nil {
		respondError(c, err, "Failed to update measurement.")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ClientHandler) GetBodyComposition(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := h.measurementService.BodyComposition(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve body composition.")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *ClientHandler) AddBodyComposition(c *gin.Context) {
	var req BodyCompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	record, err := h.measurementService.AddBodyComposition(c.Request.Context(), clientID, req.input())
	if err != nil {
		respondError(c, err, "Failed to save body composition.")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// --- Photos ---

// GetProgressPhotos returns the photo timeline, or the raw list of one
// folder when ?folder= is given.
func (h *ClientHandler) GetProgressPhotos(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	folderParam, filtered := c.GetQuery("folder")
	if !filtered {
		timeline, err := h.photoService.Timeline(c.Request.Context(), clientID)
		if err != nil {
			respondError(c, err, "Failed to retrieve photos.")
			return
		}
		c.JSON(http.StatusOK, timeline)
		return
	}

	folder, err := service.ParsePhotoFolder(folderParam)
	if err != nil {
		respondError(c, err, "Invalid folder.")
		return
	}
	list, err := h.photoService.List(c.Request.Context(), clientID, folder)
	if err != nil {
		respondError(c, err, "Failed to retrieve photos.")
		return
	}
	c.JSON(http.StatusOK, PhotosResponse{Photos: list})
}

// UploadProgressPhotos godoc
// @Summary Upload progress or measurement photos
// @Tags Client
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Images"
// @Param folder formData string false "progress or measurements"
// @Success 201 {object} PhotosResponse
// @Failure 400 {object} gin.H "Not an image or no files"
// @Failure 413 {object} gin.H "File too large"
// @Router /client/progress-photos [post]
func (h *ClientHandler) UploadProgressPhotos(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	files, ok := formFiles(c)
	if !ok {
		return
	}
	folder, err := service.ParsePhotoFolder(c.PostForm("folder"))
	if err != nil {
		respondError(c, err, "Invalid folder.")
		return
	}

	uploaded, err := h.photoService.Upload(c.Request.Context(), clientID, folder, files)
	if err != nil {
		respondError(c, err, "Failed to upload photos.")
		return
	}
	c.JSON(http.StatusCreated, PhotosResponse{Photos: uploaded})
}

// --- Nutrition ---

func (h *ClientHandler) GetNutrition(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := h.nutritionService.ListEntries(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve nutrition entries.")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *ClientHandler) SaveNutrition(c *gin.Context) {
	var req NutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	entry, err := h.nutritionService.SaveDay(c.Request.Context(), clientID, service.NutritionInput{
		Date:     req.Date,
		Proteins: req.Proteins,
		Fats:     req.Fats,
		Carbs:    req.Carbs,
		Calories: req.Calories,
		Water:    req.Water,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to save nutrition entry.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ClientHandler) UploadNutritionPhotos(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	files, ok := formFiles(c)
	if !ok {
		return
	}
	date := c.Param("date")

	urls, err := h.nutritionService.AttachPhotos(c.Request.Context(), clientID, date, files)
	if err != nil {
		respondError(c, err, "Failed to upload nutrition photos.")
		return
	}
	c.JSON(http.StatusCreated, NutritionPhotosResponse{Date: date, Photos: urls})
}

// --- Activity ---

func (h *ClientHandler) GetActivityToday(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	day, err := h.activityService.Today(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve activity.")
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *ClientHandler) SaveActivity(c *gin.Context) {
	var req DayActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	day, err := h.activityService.SaveDay(c.Request.Context(), clientID, req.input())
	if err != nil {
		respondError(c, err, "Failed to save activity.")
		return
	}
	c.JSON(http.StatusOK, day)
}

// --- Medical ---

func (h *ClientHandler) GetMedicalRecords(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	records, err := h.medicalService.List(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "Failed to retrieve medical records.")
		return
	}
	c.JSON(http.StatusOK, records)
}

// CreateMedicalRecord godoc
// @Summary Upload medical documents
// @Tags Client
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Documents"
// @Param category formData string true "Category"
// @Param description formData string false "Description"
// @Param date formData string false "YYYY-MM-DD"
// @Success 201 {object} service.MedicalRecordView
// @Router /client/medical [post]
func (h *ClientHandler) CreateMedicalRecord(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	files, ok := formFiles(c)
	if !ok {
		return
	}

	record, err := h.medicalService.Create(c.Request.Context(), clientID, service.MedicalInput{
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Date:        c.PostForm("date"),
		Files:       files,
	})
	if err != nil {
		respondError(c, err, "Failed to save medical record.")
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *ClientHandler) DeleteMedicalRecord(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	recordID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.medicalService.Delete(c.Request.Context(), clientID, recordID); err != nil {
		respondError(c, err, "Failed to delete medical record.")
		return
	}
	c.Status(http.StatusNoContent)
}
