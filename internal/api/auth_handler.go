package api

import (
	"net/http"
	"time"

	"hardcase/coaching-app/internal/domain"
	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required"`
	Role      domain.Role `json:"role" binding:"required,oneof=trainer client"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID                 string                    `json:"id"`
	FirstName          string                    `json:"firstName"`
	LastName           string                    `json:"lastName"`
	Email              string                    `json:"email"`
	Role               domain.Role               `json:"role"`
	CreatedAt          time.Time                 `json:"createdAt"`
	ClientIDs          []string                  `json:"clientIds,omitempty"`
	TrainerID          *string                   `json:"trainerId,omitempty"`
	SubscriptionStatus domain.SubscriptionStatus `json:"subscriptionStatus,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register godoc
// @Summary Register a new user (Trainer or Client)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, err, "An unexpected error occurred during registration")
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} gin.H "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "An unexpected error occurred during login")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load current user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:                 user.ID.Hex(),
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		Role:               user.Role,
		CreatedAt:          user.CreatedAt,
		SubscriptionStatus: user.SubscriptionStatus,
	}

	if len(user.ClientIDs) > 0 {
		resp.ClientIDs = make([]string, len(user.ClientIDs))
		for i, id := range user.ClientIDs {
			resp.ClientIDs[i] = id.Hex()
		}
	}

	if user.TrainerID != nil && *user.TrainerID != primitive.NilObjectID {
		trainerIDHex := user.TrainerID.Hex()
		resp.TrainerID = &trainerIDHex
	}

	return resp
}

func MapUsersToResponse(users []domain.User) []UserResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = MapUserToResponse(&users[i])
	}
	return userResponses
}
