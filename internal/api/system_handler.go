package api

import (
	"net/http"
	"time"

	"hardcase/coaching-app/internal/access"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves the unauthenticated utility endpoints.
type SystemHandler struct {
	clock service.Clock
}

func NewSystemHandler(clock service.Clock) *SystemHandler {
	return &SystemHandler{clock: clock}
}

type TimeResponse struct {
	Now       time.Time `json:"now"`
	UnixMilli int64     `json:"unixMilli"`
}

type NavigationResponse struct {
	Path string `json:"path"`
	access.Decision
}

func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Time returns the server timestamp used for object names and "today".
func (h *SystemHandler) Time(c *gin.Context) {
	now := h.clock.Now()
	c.JSON(http.StatusOK, TimeResponse{Now: now, UnixMilli: now.UnixMilli()})
}

// NavigationCheck tells the UI whether the current session may open path.
// GET /navigation/check?path=/trainer/clients/123
func (h *SystemHandler) NavigationCheck(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		abortWithError(c, http.StatusBadRequest, "path query parameter is required")
		return
	}
	c.JSON(http.StatusOK, NavigationResponse{Path: path, Decision: access.Check(sessionFromContext(c), path)})
}
