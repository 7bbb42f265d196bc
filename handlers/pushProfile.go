package handlers

import (
	"errors"
	"net/http"

	"lovebug/services/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PushProfileHandler exposes the device-token and preference endpoints the
// client apps call after install or from their settings screen.
type PushProfileHandler struct {
	Service notification.NotificationService
}

func NewPushProfileHandler(svc notification.NotificationService) *PushProfileHandler {
	return &PushProfileHandler{Service: svc}
}

// UpdatePushTokenHandler registers or replaces a profile's FCM token.
func (h *PushProfileHandler) UpdatePushTokenHandler(c *gin.Context) {
	logger := getLogger(c)
	profileID := c.Param("id")

	var req struct {
		FCMToken string `json:"fcmToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Service.RegisterPushToken(c.Request.Context(), profileID, req.FCMToken); err != nil {
		h.writeProfileError(c, profileID, err)
		return
	}

	logger.Info("Push token updated", zap.String("profileID", profileID))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateNotificationPrefsHandler replaces a profile's per-category toggles.
func (h *PushProfileHandler) UpdateNotificationPrefsHandler(c *gin.Context) {
	logger := getLogger(c)
	profileID := c.Param("id")

	var req struct {
		Preferences map[string]bool `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Preferences == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferences is required"})
		return
	}

	if err := h.Service.UpdateNotificationPrefs(c.Request.Context(), profileID, req.Preferences); err != nil {
		h.writeProfileError(c, profileID, err)
		return
	}

	logger.Info("Notification preferences updated", zap.String("profileID", profileID))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPushProfileHandler returns whether a token is registered plus the toggles.
func (h *PushProfileHandler) GetPushProfileHandler(c *gin.Context) {
	profileID := c.Param("id")

	pushProfile, err := h.Service.GetPushProfile(c.Request.Context(), profileID)
	if err != nil {
		h.writeProfileError(c, profileID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hasToken":    pushProfile.FCMToken != "",
		"preferences": pushProfile.Preferences,
	})
}

func (h *PushProfileHandler) writeProfileError(c *gin.Context, profileID string, err error) {
	logger := getLogger(c)

	var validationErr notification.ValidationError
	var notFoundErr notification.ProfileNotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		logger.Error("Push profile operation failed",
			zap.String("profileID", profileID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
