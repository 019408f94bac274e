package api

import (
	"errors"
	"net/http"

	"hardcase/coaching-app/internal/photos"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var notFound = []error{
	service.ErrClientNotFound,
	service.ErrUserNotFound,
	service.ErrWorkoutNotFound,
	service.ErrProgramNotFound,
	service.ErrExerciseNotFound,
	service.ErrMeasurementNotFound,
	service.ErrNutritionEntryNotFound,
	service.ErrMedicalRecordNotFound,
}

var forbidden = []error{
	service.ErrClientNotManaged,
	service.ErrClientNotRole,
	service.ErrWorkoutAccessDenied,
	service.ErrProgramAccessDenied,
	service.ErrExerciseAccessDenied,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, photos.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrClientAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case matchesAny(err, forbidden):
		return http.StatusForbidden
	case matchesAny(err, notFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError aborts with the status of err. Internal errors are logged
// and replaced by fallback so nothing internal leaks to the response.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(fallback)
		abortWithError(c, status, fallback)
		return
	}
	abortWithError(c, status, err.Error())
}

// logPartial records a view that was served with some sections missing.
func logPartial(c *gin.Context, err error) {
	log.WithError(err).WithField("path", c.Request.URL.Path).Warn("served partial view")
}
