package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hardcase/coaching-app/internal/api"
	"hardcase/coaching-app/internal/calendar"
	"hardcase/coaching-app/internal/config"
	"hardcase/coaching-app/internal/logging"
	"hardcase/coaching-app/internal/metrics"
	"hardcase/coaching-app/internal/repository/mongo"
	"hardcase/coaching-app/internal/service"
	"hardcase/coaching-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// @title Hardcase Coaching API
// @version 1.0
// @description API for personal trainers and their clients: scheduling, programs, progress tracking.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %s", err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	logger := log.StandardLogger()
	log.Info("starting coaching app server")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("hardcase", "api", promRegistry)

	// --- Database ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %s", err)
	}
	defer func() {
		log.Info("disconnecting mongodb")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect mongodb: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB, logger); err != nil {
			log.Errorf("index creation finished with errors: %s", err)
			return
		}
		log.Info("database indexes ensured")
	}()

	// --- Storage ---
	photoStore, dataStore := setupStorage(cfg.S3, logger)

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	programRepo := mongo.NewMongoTrainingProgramRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	measurementRepo := mongo.NewMongoMeasurementRepository(appDB)
	compositionRepo := mongo.NewMongoBodyCompositionRepository(appDB)
	activityRepo := mongo.NewMongoActivityRepository(appDB)
	dailyStatRepo := mongo.NewMongoDailyStatRepository(appDB)
	nutritionRepo := mongo.NewMongoNutritionRepository(appDB)
	medicalRepo := mongo.NewMongoMedicalRepository(appDB)
	photoRepo := mongo.NewMongoPhotoRepository(appDB)

	// --- Services ---
	clock := service.SystemClock()
	loc := cfg.Schedule.Location()
	cal := calendar.New(calendar.Settings{
		Location:  loc,
		Hours:     calendar.WorkingHours{Start: cfg.Schedule.StartHour, End: cfg.Schedule.EndHour},
		FirstSlot: cfg.Schedule.DaySlotFirst,
		LastSlot:  cfg.Schedule.DaySlotLast,
		Now:       clock.Now,
	})
	uploads := service.UploadOptions{
		MaxFileSize: cfg.Uploads.MaxFileSize,
		Metrics:     metricsManager,
		Log:         logger,
	}

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, clock)
	exerciseService := service.NewExerciseService(exerciseRepo)
	trainerService := service.NewTrainerService(userRepo)
	programService := service.NewProgramService(programRepo, exerciseRepo, userRepo)
	scheduleService := service.NewScheduleService(workoutRepo, programRepo, userRepo, cal, clock)
	workoutService := service.NewWorkoutService(workoutRepo, programRepo, completionRepo, clock)
	measurementService := service.NewMeasurementService(measurementRepo, compositionRepo, loc)
	nutritionService := service.NewNutritionService(nutritionRepo, photoStore, uploads, clock)
	activityService := service.NewActivityService(activityRepo, dailyStatRepo, clock, loc)
	photoService := service.NewPhotoService(photoRepo, photoStore, uploads, clock, loc)
	medicalService := service.NewMedicalService(medicalRepo, userRepo, dataStore, uploads, clock)
	overviewService := service.NewOverviewService(service.OverviewRepositories{
		Users:           userRepo,
		Workouts:        workoutRepo,
		Programs:        programRepo,
		Completions:     completionRepo,
		Measurements:    measurementRepo,
		BodyComposition: compositionRepo,
		Activities:      activityRepo,
		DailyStats:      dailyStatRepo,
		Nutrition:       nutritionRepo,
	}, photoService, clock, loc, metricsManager, logger)

	// --- HTTP ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.RouterParams{
		Tokens:         authService,
		Metrics:        metricsManager,
		Gatherer:       promRegistry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		System:   api.NewSystemHandler(clock),
		Exercise: api.NewExerciseHandler(exerciseService),
		Trainer: api.NewTrainerHandler(api.TrainerServices{
			Trainer:  trainerService,
			Programs: programService,
			Schedule: scheduleService,
			Overview: overviewService,
			Medical:  medicalService,
		}, cal),
		Client: api.NewClientHandler(api.ClientServices{
			Workouts:     workoutService,
			Overview:     overviewService,
			Measurements: measurementService,
			Photos:       photoService,
			Nutrition:    nutritionService,
			Activity:     activityService,
			Medical:      medicalService,
		}),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Info("server exited")
}

// setupStorage returns the photo and medical data stores. Without an S3
// endpoint or region everything is kept in memory, which is only meant
// for local development.
func setupStorage(cfg config.S3Config, logger *log.Logger) (photoStore, dataStore storage.FileStorage) {
	if cfg.Endpoint == "" && cfg.Region == "" {
		log.Warn("no S3 endpoint or region configured, using in-memory object storage")
		return storage.NewMemoryStorage(cfg.PhotosBucket), storage.NewMemoryStorage(cfg.DataBucket)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize S3 client: %s", err)
	}
	return storage.NewS3Storage(client, cfg.PhotosBucket, cfg.PublicBaseURL, logger),
		storage.NewS3Storage(client, cfg.DataBucket, cfg.PublicBaseURL, logger)
}
