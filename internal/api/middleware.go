package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hardcase/coaching-app/internal/access"
	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/metrics"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

// AuthMiddleware rejects requests without a valid token and stores the
// user id and role in the context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithRedirect(c, http.StatusUnauthorized, "Authorization header must be Bearer {token}", access.LoginPath)
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil {
			abortWithRedirect(c, http.StatusUnauthorized, "Invalid or expired token", access.LoginPath)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth sets the session when a valid token is present and never aborts.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := tokens.ParseToken(token); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextUserRoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// RoleMiddleware lets only the given role through, redirecting everyone
// else to their own home. Must run AFTER AuthMiddleware.
func RoleMiddleware(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := access.Decide(sessionFromContext(c), required)
		if decision.Allow {
			c.Next()
			return
		}
		if decision.RedirectTo == access.LoginPath {
			abortWithRedirect(c, http.StatusUnauthorized, "Authentication required", decision.RedirectTo)
			return
		}
		abortWithRedirect(c, http.StatusForbidden, "Access denied for role", decision.RedirectTo)
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		})
		if userID, ok := c.Get(ContextUserIDKey); ok {
			entry = entry.WithField("userId", userID)
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// MetricsMiddleware counts requests and observes their duration per route.
func MetricsMiddleware(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HistogramRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func abortWithRedirect(c *gin.Context, code int, message, redirectTo string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message, "redirectTo": redirectTo})
}

func sessionFromContext(c *gin.Context) *access.Session {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return nil
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		return nil
	}
	return &access.Session{UserID: userID, Role: role}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

func getUserRoleFromContext(c *gin.Context) (domain.Role, error) {
	roleRaw, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleRaw.(domain.Role)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// currentUserID resolves the authenticated user's id, aborting on failure.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithRedirect(c, http.StatusUnauthorized, "Unable to identify user from token.", access.LoginPath)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses an ObjectID path parameter, aborting with 400 when malformed.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}
