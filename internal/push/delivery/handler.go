package delivery

import (
	"errors"
	"net/http"

	"sansynapse-backend/internal/push/dto"
	"sansynapse-backend/internal/push/usecase"

	"github.com/gin-gonic/gin"
)

// PushHandler handles push-dispatch HTTP requests
type PushHandler struct {
	dispatcher *usecase.Dispatcher
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(dispatcher *usecase.Dispatcher) *PushHandler {
	return &PushHandler{
		dispatcher: dispatcher,
	}
}

// Dispatch delivers one notification to its recipient's device
// POST /api/notifications/dispatch
func (h *PushHandler) Dispatch(c *gin.Context) {
	var req dto.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), req.Notification())
	if err != nil {
		if errors.Is(err, usecase.ErrMissingUserID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.Skipped {
		c.JSON(http.StatusOK, gin.H{"skipped": true})
		return
	}
	if !result.OK {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "raw": result.Raw})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "raw": result.Raw})
}
