package api

import (
	"context"
	"net/http"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the exercise catalog and its admin operations.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

type FreeWeightDTO struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// ExerciseRequest is the body of the admin create and update calls.
// Images are absolute URLs or object keys returned by the upload URL call.
type ExerciseRequest struct {
	ID             string         `json:"id"`
	Name           string         `json:"name" binding:"required"`
	PrimaryMuscles []string       `json:"primaryMuscles" binding:"required,min=1"`
	MachineImage   string         `json:"machineImage"`
	FreeWeight     *FreeWeightDTO `json:"freeWeight"`
	Tips           string         `json:"tips"`
}

func (r ExerciseRequest) toDomain() domain.Exercise {
	ex := domain.Exercise{
		ID:             r.ID,
		Name:           r.Name,
		PrimaryMuscles: r.PrimaryMuscles,
		MachineImage:   r.MachineImage,
		Tips:           r.Tips,
	}
	if r.FreeWeight != nil {
		ex.FreeWeight = &domain.FreeWeightAlternative{Name: r.FreeWeight.Name, Image: r.FreeWeight.Image}
	}
	return ex
}

// ExerciseResponse carries resolved image URLs; Image is the one to show first.
type ExerciseResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	PrimaryMuscles []string       `json:"primaryMuscles"`
	Image          string         `json:"image,omitempty"`
	MachineImage   string         `json:"machineImage,omitempty"`
	FreeWeight     *FreeWeightDTO `json:"freeWeight,omitempty"`
	Tips           string         `json:"tips,omitempty"`
	Builtin        bool           `json:"builtin"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ImageUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

func (h *ExerciseHandler) mapExercise(ctx context.Context, ex *domain.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		ID:             ex.ID,
		Name:           ex.Name,
		PrimaryMuscles: ex.PrimaryMuscles,
		Image:          h.exerciseService.ResolveImage(ctx, ex.DisplayImage()),
		MachineImage:   h.exerciseService.ResolveImage(ctx, ex.MachineImage),
		Tips:           ex.Tips,
		Builtin:        ex.Builtin,
	}
	if ex.FreeWeight != nil {
		resp.FreeWeight = &FreeWeightDTO{
			Name:  ex.FreeWeight.Name,
			Image: h.exerciseService.ResolveImage(ctx, ex.FreeWeight.Image),
		}
	}
	if !ex.UpdatedAt.IsZero() {
		updated := ex.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func (h *ExerciseHandler) mapExercises(ctx context.Context, exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = h.mapExercise(ctx, &exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List or search the exercise catalog
// @Description Case-insensitive match of q against the name or any primary muscle, in catalog order.
// @Tags Exercises
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} ExerciseResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	ctx := c.Request.Context()
	exercises, err := h.exerciseService.Search(ctx, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.mapExercises(ctx, exercises))
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not Found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	ctx := c.Request.Context()
	ex, err := h.exerciseService.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.mapExercise(ctx, ex))
}

// CreateExercise godoc
// @Summary Create a custom exercise
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 409 {object} gin.H "Conflict (id already used)"
// @Router /admin/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	ex, err := h.exerciseService.Create(ctx, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.mapExercise(ctx, ex))
}

// UpdateExercise godoc
// @Summary Update a custom exercise
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not Found"
// @Failure 409 {object} gin.H "Conflict (built-in exercise)"
// @Router /admin/exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	ex, err := h.exerciseService.Update(ctx, c.Param("id"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.mapExercise(ctx, ex))
}

// DeleteExercise godoc
// @Summary Delete a custom exercise
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not Found"
// @Failure 409 {object} gin.H "Conflict (built-in exercise)"
// @Router /admin/exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	if err := h.exerciseService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImageUploadURL godoc
// @Summary Presign an image upload for a custom exercise
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param body body ImageUploadRequest true "Image content type"
// @Success 200 {object} ImageUploadResponse
// @Failure 400 {object} gin.H "Not an image content type"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /admin/exercises/{id}/image-upload-url [post]
func (h *ExerciseHandler) ImageUploadURL(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	uploadURL, key, err := h.exerciseService.ImageUploadURL(c.Request.Context(), c.Param("id"), req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageUploadResponse{UploadURL: uploadURL, ObjectKey: key})
}
