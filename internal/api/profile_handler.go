package api

import (
	"net/http"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request/Response Structs ---

type ProfileResponse struct {
	User   UserResponse  `json:"user"`
	Avatar domain.Avatar `json:"avatar"`
	BMI    *float64      `json:"bmi,omitempty"`
}

type AvatarRequest struct {
	AvatarID string `json:"avatarId" binding:"required"`
}

// MeasurementsRequest clears a value when it is omitted or null.
type MeasurementsRequest struct {
	WeightKg *float64 `json:"weightKg"`
	HeightCm *float64 `json:"heightCm"`
}

func mapProfile(p *service.Profile) ProfileResponse {
	return ProfileResponse{
		User:   MapUserToResponse(p.User),
		Avatar: p.Avatar,
		BMI:    p.BMI,
	}
}

// --- Handler Methods ---

// Me godoc
// @Summary Current user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(profile))
}

// SetAvatar godoc
// @Summary Choose an avatar
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AvatarRequest true "Avatar"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Unknown avatar"
// @Router /me/avatar [put]
func (h *ProfileHandler) SetAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.SetAvatar(c.Request.Context(), userID, req.AvatarID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(profile))
}

// SetMeasurements godoc
// @Summary Store weight and height
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MeasurementsRequest true "Weight (kg) and height (cm)"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Values must be positive"
// @Router /me/measurements [put]
func (h *ProfileHandler) SetMeasurements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req MeasurementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.SetMeasurements(c.Request.Context(), userID, req.WeightKg, req.HeightCm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(profile))
}
