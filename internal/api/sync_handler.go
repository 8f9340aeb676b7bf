package api

import (
	"net/http"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SyncHandler lets clients trigger and observe the remote state mirror.
type SyncHandler struct {
	syncService service.SyncService
}

func NewSyncHandler(syncService service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

type SyncStatusResponse struct {
	Status domain.SyncStatus `json:"status"`
	Error  string            `json:"error,omitempty"`
}

// Pull godoc
// @Summary Merge the remote snapshot into local state
// @Description Failures are reported in the body with status "error". When the remote cannot be read or a local read fails, nothing is written. A local write failure can leave the snapshot partly applied; the next pull completes it.
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SyncStatusResponse
// @Router /sync/pull [post]
func (h *SyncHandler) Pull(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	status, err := h.syncService.Pull(c.Request.Context(), userID)
	resp := SyncStatusResponse{Status: status}
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Warnln("remote pull failed")
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary Remote sync status of the user
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SyncStatusResponse
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SyncStatusResponse{Status: h.syncService.Status(userID)})
}
