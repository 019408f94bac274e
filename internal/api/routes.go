package api

import (
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth     *AuthHandler
	System   *SystemHandler
	Exercise *ExerciseHandler
	Trainer  *TrainerHandler
	Client   *ClientHandler
}

type RouterParams struct {
	Tokens         TokenParser
	Metrics        *metrics.Manager
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func SetupRoutes(router *gin.Engine, p RouterParams, h Handlers) {
	router.MaxMultipartMemory = maxMultipartMemory

	// cors rejects an empty origin list, same-origin deployments skip it
	if len(p.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     p.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(RequestLogger())
	if p.Metrics != nil {
		router.Use(MetricsMiddleware(p.Metrics))
	}

	router.GET("/ping", h.System.Ping)
	if p.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ping", h.System.Ping)
		apiV1.GET("/time", h.System.Time)
		apiV1.GET("/navigation/check", OptionalAuth(p.Tokens), h.System.NavigationCheck)

		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(p.Tokens))
	{
		protected.GET("/me", h.Auth.Me)

		// All routes below additionally require the client role.
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/dashboard", h.Client.GetDashboard)
			clientGroup.GET("/achievements", h.Client.GetAchievements)

			clientGroup.GET("/workouts", h.Client.GetMyWorkouts)
			clientGroup.GET("/workouts/next", h.Client.GetNextWorkout)
			clientGroup.GET("/workouts/:workoutId", h.Client.GetMyWorkout)
			clientGroup.POST("/workouts/:workoutId/completion", h.Client.ReportCompletion)

			clientGroup.GET("/measurements", h.Client.GetMeasurements)
			clientGroup.POST("/measurements", h.Client.AddMeasurement)
			clientGroup.PUT("/measurements/:id", h.Client.UpdateMeasurement)
			clientGroup.GET("/body-composition", h.Client.GetBodyComposition)
			clientGroup.POST("/body-composition", h.Client.AddBodyComposition)

			clientGroup.GET("/progress-photos", h.Client.GetProgressPhotos)
			clientGroup.POST("/progress-photos", h.Client.UploadProgressPhotos)

			clientGroup.GET("/nutrition", h.Client.GetNutrition)
			clientGroup.POST("/nutrition", h.Client.SaveNutrition)
			clientGroup.POST("/nutrition/:date/photos", h.Client.UploadNutritionPhotos)

			clientGroup.GET("/activity", h.Client.GetActivityToday)
			clientGroup.POST("/activity", h.Client.SaveActivity)

			clientGroup.GET("/medical", h.Client.GetMedicalRecords)
			clientGroup.POST("/medical", h.Client.CreateMedicalRecord)
			clientGroup.DELETE("/medical/:id", h.Client.DeleteMedicalRecord)
		}

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.GET("/clients", h.Trainer.GetManagedClients)
			trainerGroup.POST("/clients", h.Trainer.AddClientByEmail)
			trainerGroup.GET("/clients/:clientId", h.Trainer.GetClientProfile)
			trainerGroup.GET("/clients/:clientId/medical", h.Trainer.GetClientMedicalRecords)

			trainerGroup.GET("/calendar", h.Trainer.GetCalendar)
			trainerGroup.GET("/calendar/time-options", h.Trainer.GetTimeOptions)

			trainerGroup.POST("/workouts", h.Trainer.CreateWorkout)
			trainerGroup.PUT("/workouts/:workoutId", h.Trainer.UpdateWorkout)
			trainerGroup.DELETE("/workouts/:workoutId", h.Trainer.DeleteWorkout)

			trainerGroup.GET("/programs", h.Trainer.GetPrograms)
			trainerGroup.POST("/programs", h.Trainer.CreateProgram)
			trainerGroup.GET("/programs/:programId", h.Trainer.GetProgram)
			trainerGroup.PUT("/programs/:programId", h.Trainer.UpdateProgram)
			trainerGroup.DELETE("/programs/:programId", h.Trainer.DeleteProgram)

			trainerGroup.GET("/exercises", h.Exercise.GetTrainerExercises)
			trainerGroup.POST("/exercises", h.Exercise.CreateExercise)
			trainerGroup.PUT("/exercises/:id", h.Exercise.UpdateExercise)
			trainerGroup.DELETE("/exercises/:id", h.Exercise.DeleteExercise)
		}
	}
}
