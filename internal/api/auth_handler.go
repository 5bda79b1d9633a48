package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/service"
)

// SweepTasks starts and stops a trainer's periodic cleanup.
type SweepTasks interface {
	Start(trainerID string)
	Stop(trainerID string)
}

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	sweeps      SweepTasks
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. sweeps may be nil.
func NewAuthHandler(authService service.AuthService, sweeps SweepTasks, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sweeps: sweeps, logger: logger}
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type LoginRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role" binding:"required,oneof=trainer admin"`
}

// Login godoc
// @Summary Log in a trainer or admin
// @Description Authenticates a user for the requested role and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} gin.H "token and user"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials or role)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if user.IsTrainer() && h.sweeps != nil {
		h.sweeps.Start(user.ID)
	}
	h.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	respondOK(c, http.StatusOK, gin.H{
		"token": token,
		"user":  MapUserToResponse(user),
	})
}

// Logout stops the trainer's background cleanup. Tokens are stateless and
// simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	role, _ := getUserRoleFromContext(c)
	if role == domain.RoleTrainer && h.sweeps != nil {
		h.sweeps.Stop(userID)
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me echoes the identity carried by the token.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, _ := getUserRoleFromContext(c)
	respondOK(c, http.StatusOK, gin.H{"userId": userID, "role": role})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
