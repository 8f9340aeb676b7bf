package api

import (
	"net/http"
	"strconv"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler generates, stores and edits the user's monthly plan.
type PlanHandler struct {
	planService service.PlanService
	exercises   *ExerciseHandler
}

func NewPlanHandler(planService service.PlanService, exercises *ExerciseHandler) *PlanHandler {
	return &PlanHandler{planService: planService, exercises: exercises}
}

// --- Request/Response Structs ---

type GeneratePlanRequest struct {
	Goal      domain.Goal `json:"goal" binding:"required"`
	Groups    []string    `json:"groups" binding:"required,min=1"`
	Frequency float64     `json:"frequency" binding:"required"`
}

// SavePlanRequest either carries a previewed plan to store as is, or the inputs to
// generate a fresh one.
type SavePlanRequest struct {
	Plan      *domain.UserPlan `json:"plan"`
	Goal      domain.Goal      `json:"goal"`
	Groups    []string         `json:"groups"`
	Frequency float64          `json:"frequency"`
}

type SwapRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

// itemIndex reads the :index path parameter, aborting with 400 when it is not a number.
func itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "index must be a number")
		return 0, false
	}
	return index, true
}

// --- Handler Methods ---

// PreviewPlan godoc
// @Summary Generate a plan without saving it
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GeneratePlanRequest true "Goal, muscle groups and weekly frequency"
// @Success 200 {object} domain.UserPlan
// @Failure 400 {object} gin.H "Invalid goal, group or frequency"
// @Router /plans/preview [post]
func (h *PlanHandler) PreviewPlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.Preview(c.Request.Context(), req.Goal, req.Groups, req.Frequency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// SavePlan godoc
// @Summary Save the user's plan, replacing the previous one
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SavePlanRequest true "A previewed plan, or generation inputs"
// @Success 201 {object} domain.UserPlan
// @Failure 400 {object} gin.H "Invalid plan"
// @Router /plans [post]
func (h *PlanHandler) SavePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	var (
		plan *domain.UserPlan
		err  error
	)
	if req.Plan != nil {
		plan, err = h.planService.Save(ctx, userID, *req.Plan)
	} else {
		plan, err = h.planService.GenerateAndSave(ctx, userID, req.Goal, req.Groups, req.Frequency)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// CurrentPlan godoc
// @Summary Get the user's saved plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserPlan
// @Failure 404 {object} gin.H "No plan saved yet"
// @Router /plans/current [get]
func (h *PlanHandler) CurrentPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.Current(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Alternatives godoc
// @Summary List replacements for one plan item
// @Description Exercises sharing at least one primary muscle with the current one.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param index path int true "Item position"
// @Success 200 {array} ExerciseResponse
// @Failure 404 {object} gin.H "Plan or session not found"
// @Router /plans/current/sessions/{sessionId}/items/{index}/alternatives [get]
func (h *PlanHandler) Alternatives(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	pool, err := h.planService.Alternatives(ctx, userID, c.Param("sessionId"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.exercises.mapExercises(ctx, pool))
}

// SwapExercise godoc
// @Summary Replace the exercise of one plan item
// @Description Sets, reps and rest are kept.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param index path int true "Item position"
// @Param body body SwapRequest true "Replacement exercise"
// @Success 200 {object} domain.UserPlan
// @Failure 400 {object} gin.H "Replacement not allowed"
// @Router /plans/current/sessions/{sessionId}/items/{index} [put]
func (h *PlanHandler) SwapExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.Swap(c.Request.Context(), userID, c.Param("sessionId"), index, req.ExerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
