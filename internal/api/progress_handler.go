package api

import (
	"net/http"

	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler exposes monthly progress, points, completion marks and the dashboard.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- Request/Response Structs ---

// TargetRequest takes any integer; out of range values are clamped.
type TargetRequest struct {
	Target *int `json:"target" binding:"required"`
}

type FinishRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// --- Handler Methods ---

// GetProgress godoc
// @Summary Progress of a month with points and trophy
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} service.Overview
// @Failure 400 {object} gin.H "Bad month"
// @Router /progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	overview, err := h.progressService.Overview(c.Request.Context(), userID, c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// SetTarget godoc
// @Summary Set this month's session target
// @Description The target is clamped to 1..60; done never exceeds it.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TargetRequest true "Target"
// @Success 200 {object} service.Overview
// @Router /progress/target [put]
func (h *ProgressHandler) SetTarget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	overview, err := h.progressService.SetTarget(c.Request.Context(), userID, *req.Target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// FinishSession godoc
// @Summary Record a finished session
// @Description Adds one done session to this month (up to the target) and awards 50 points.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FinishRequest true "Session"
// @Success 200 {object} service.FinishResult
// @Failure 404 {object} gin.H "Plan or session not found"
// @Router /progress/finish [post]
func (h *ProgressHandler) FinishSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req FinishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	res, err := h.progressService.FinishSession(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetMarks godoc
// @Summary Done flags of a session's items
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param day query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} service.MarksView
// @Router /sessions/{sessionId}/marks [get]
func (h *ProgressHandler) GetMarks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, err := h.progressService.Marks(c.Request.Context(), userID, c.Param("sessionId"), c.Query("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleMark godoc
// @Summary Flip today's done flag of one item
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param index path int true "Item position"
// @Success 200 {object} service.MarksView
// @Failure 400 {object} gin.H "Index out of range"
// @Router /sessions/{sessionId}/marks/{index}/toggle [post]
func (h *ProgressHandler) ToggleMark(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	view, err := h.progressService.ToggleMark(c.Request.Context(), userID, c.Param("sessionId"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ResetMarks godoc
// @Summary Clear today's done flags of a session
// @Tags Progress
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 204 "Cleared"
// @Router /sessions/{sessionId}/marks [delete]
func (h *ProgressHandler) ResetMarks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.progressService.ResetMarks(c.Request.Context(), userID, c.Param("sessionId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard godoc
// @Summary Home screen data
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /dashboard [get]
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	d, err := h.progressService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
