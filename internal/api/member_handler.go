package api

import (
	"errors"
	"fmt"
	"net/http"

	"movekind/member-api/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler serves the member's own profile and personalization answers.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- Handler Methods ---

// GetProfile returns the authenticated member's profile.
// GET /api/v1/members/me
func (h *MemberHandler) GetProfile(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	profile, err := h.memberService.GetProfile(c.Request.Context(), memberID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile writes the profile fields back.
// PUT /api/v1/members/me
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	var req service.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	if err := h.memberService.UpdateProfile(c.Request.Context(), memberID, req); err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetPersonalization returns the onboarding questionnaire answers.
// GET /api/v1/members/me/personalization
func (h *MemberHandler) GetPersonalization(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	personalization, err := h.memberService.GetPersonalization(c.Request.Context(), memberID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, personalization)
}

// UpdatePersonalization stores the questionnaire answers.
// PUT /api/v1/members/me/personalization
func (h *MemberHandler) UpdatePersonalization(c *gin.Context) {
	var req service.Personalization
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	if err := h.memberService.UpdatePersonalization(c.Request.Context(), memberID, req); err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *MemberHandler) abortWithServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMemberNotFound) {
		abortWithError(c, http.StatusUnauthorized, "Member no longer exists.")
		return
	}
	abortWithError(c, http.StatusInternalServerError, "Failed to process member request.")
}
