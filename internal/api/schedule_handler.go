package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"movekind/member-api/internal/schedule"
	"movekind/member-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler exposes the member's schedule block collection.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	memberService   service.MemberService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService, memberService service.MemberService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		memberService:   memberService,
	}
}

// --- Request/Response Structs ---

type CreateScheduleRequest struct {
	StartTime string  `json:"startTime" binding:"required"`
	Title     *string `json:"title"`
	WorkoutID *string `json:"workoutId"`
}

type UpdateScheduleRequest struct {
	StartTime *string `json:"startTime"`
	Title     *string `json:"title"`
	WorkoutID *string `json:"workoutId"`
}

// --- Handler Methods ---

// List returns the schedule ordered by start time.
// GET /api/v1/schedule?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ScheduleHandler) List(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	// An unparsable range bound just means that bound is not applied.
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		if d, ok := schedule.ParseDate(raw); ok {
			from = &d
		}
	}
	if raw := c.Query("to"); raw != "" {
		if d, ok := schedule.ParseDate(raw); ok {
			to = &d
		}
	}

	entries, err := h.scheduleService.List(c.Request.Context(), memberID, from, to)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Member returns the member's identity together with their full schedule.
// GET /api/v1/schedule/member
func (h *ScheduleHandler) Member(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), memberID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	entries, err := h.scheduleService.List(c.Request.Context(), memberID, nil, nil)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member":   MapMemberToResponse(member),
		"schedule": entries,
	})
}

// Create adds a schedule item.
// POST /api/v1/schedule
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	startTime, ok := schedule.ParseTime(req.StartTime)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "startTime is not a valid date-time")
		return
	}

	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	entry, err := h.scheduleService.Create(c.Request.Context(), memberID, startTime, req.Title, req.WorkoutID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Update applies a partial update to one schedule item.
// PUT /api/v1/schedule/:key
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	// An unparsable start time leaves the stored value unchanged, like any
	// other omitted field of a partial update.
	var startTime *time.Time
	if req.StartTime != nil {
		if t, ok := schedule.ParseTime(*req.StartTime); ok {
			startTime = &t
		}
	}

	err = h.scheduleService.Update(c.Request.Context(), memberID, c.Param("key"), startTime, req.Title, req.WorkoutID)
	if err != nil {
		if errors.Is(err, service.ErrScheduleItemNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Delete removes one schedule item; deleting an unknown key also succeeds.
// DELETE /api/v1/schedule/:key
func (h *ScheduleHandler) Delete(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), memberID, c.Param("key")); err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Repair rewrites legacy start time encodings in place.
// POST /api/v1/schedule/repair
func (h *ScheduleHandler) Repair(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	changed, err := h.scheduleService.Repair(c.Request.Context(), memberID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// abortWithServiceError maps schedule service failures to HTTP statuses. A
// missing member record means the token no longer names anyone.
func (h *ScheduleHandler) abortWithServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMemberNotFound) {
		abortWithError(c, http.StatusUnauthorized, "Member no longer exists.")
		return
	}
	abortWithError(c, http.StatusInternalServerError, "Failed to process schedule request.")
}
