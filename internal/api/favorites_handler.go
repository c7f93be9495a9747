package api

import (
	"errors"
	"net/http"

	"movekind/member-api/internal/service"

	"github.com/gin-gonic/gin"
)

// FavoritesHandler maintains the member's favorited workouts.
type FavoritesHandler struct {
	favoritesService service.FavoritesService
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(favoritesService service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favoritesService: favoritesService}
}

// --- Handler Methods ---

// List returns the favorited workouts with resolved media URLs.
// GET /api/v1/favorites
func (h *FavoritesHandler) List(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	workouts, err := h.favoritesService.List(c.Request.Context(), memberID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workouts)
}

// ListKeys returns only the favorited workout content keys.
// GET /api/v1/favorites/ids
func (h *FavoritesHandler) ListKeys(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	keys, err := h.favoritesService.ListKeys(c.Request.Context(), memberID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}

	c.JSON(http.StatusOK, keys)
}

// Add favorites a workout. Favoriting it twice also succeeds.
// POST /api/v1/favorites/:workoutId
func (h *FavoritesHandler) Add(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	workout, err := h.favoritesService.Add(c.Request.Context(), memberID, c.Param("workoutId"))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorited": true, "key": workout.Key})
}

// Remove unfavorites a workout; removing an absent favorite also succeeds.
// DELETE /api/v1/favorites/:workoutId
func (h *FavoritesHandler) Remove(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	if _, err := h.favoritesService.Remove(c.Request.Context(), memberID, c.Param("workoutId")); err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Toggle flips the favorite relation and reports its new state.
// POST /api/v1/favorites/:workoutId/toggle
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	memberID, err := currentMemberID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member from token.")
		return
	}

	favorited, workout, err := h.favoritesService.Toggle(c.Request.Context(), memberID, c.Param("workoutId"))
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited, "key": workout.Key})
}

func (h *FavoritesHandler) abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWorkoutID):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMemberNotFound):
		abortWithError(c, http.StatusUnauthorized, "Member no longer exists.")
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process favorites request.")
	}
}
