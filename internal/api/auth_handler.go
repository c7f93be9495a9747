package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username"` // Defaults to email when omitted
	Name     string `json:"name"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// MemberResponse excludes sensitive info like the password hash.
type MemberResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token  string         `json:"token"`
	Member MemberResponse `json:"member"`
}

// --- Handler Methods ---

// Register creates a member account and signs it in.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, member, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrMemberAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:  token,
		Member: MapMemberToResponse(member),
	})
}

// Login authenticates by email or username and returns a JWT.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, member, err := h.authService.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:  token,
		Member: MapMemberToResponse(member),
	})
}

// ChangePassword verifies the current password and stores a new one.
// POST /api/v1/members/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), memberID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrPasswordMismatch) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to change password.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MapMemberToResponse converts a domain Member to a MemberResponse DTO.
func MapMemberToResponse(member *domain.Member) MemberResponse {
	if member == nil {
		return MemberResponse{}
	}
	return MemberResponse{
		ID:        member.ID.Hex(),
		Username:  member.Username,
		Name:      member.Name,
		Email:     member.Email,
		CreatedAt: member.CreatedAt,
	}
}
