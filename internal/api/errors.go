package api

import (
	"errors"
	"net/http"

	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errorStatuses = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		service.ErrMissingCredentials,
		service.ErrInvalidUserID,
		service.ErrInvalidGoal,
		service.ErrUnknownMuscleGroup,
		service.ErrNoMuscleGroups,
		service.ErrInvalidFrequency,
		service.ErrInvalidPlan,
		service.ErrInvalidSwap,
		service.ErrItemOutOfRange,
		service.ErrMarkOutOfRange,
		service.ErrInvalidMonth,
		service.ErrInvalidDay,
		service.ErrUnknownAvatar,
		service.ErrInvalidMeasurement,
		service.ErrInvalidExercise,
		service.ErrInvalidContentType,
	}},
	{http.StatusUnauthorized, []error{
		service.ErrAuthenticationFailed,
	}},
	{http.StatusNotFound, []error{
		service.ErrUserNotFound,
		service.ErrExerciseNotFound,
		service.ErrPlanNotFound,
		service.ErrSessionNotFound,
	}},
	{http.StatusConflict, []error{
		service.ErrUserAlreadyExists,
		service.ErrExerciseExists,
		service.ErrBuiltinExercise,
	}},
	{http.StatusServiceUnavailable, []error{
		service.ErrStorageDisabled,
	}},
}

// statusFor maps service errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	for _, group := range errorStatuses {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Internal errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("route", c.FullPath()).Errorln("request failed")
		abortWithError(c, status, "An unexpected error occurred")
		return
	}
	abortWithError(c, status, err.Error())
}

// currentUserID aborts with 401 when the token carried no user id.
func currentUserID(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return userID, true
}
