package handlers

import (
	"errors"
	"net/http"

	"lovebug/models"
	"lovebug/services/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the push dispatch endpoint.
type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// SendPushNotificationHandler triggers a single push dispatch.
func (h *NotificationHandler) SendPushNotificationHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.PushNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid push request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	outcome, err := h.Service.SendPushNotification(c.Request.Context(), req)
	if err != nil {
		h.writeDispatchError(c, req, err)
		return
	}

	if outcome.Skipped {
		// A preference skip is a valid no-op, reported as HTTP 200.
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"reason":  outcome.SkipReason,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": outcome.MessageID,
		"message":   "Notification sent successfully",
	})
}

// writeDispatchError maps the service error taxonomy onto HTTP statuses.
func (h *NotificationHandler) writeDispatchError(c *gin.Context, req models.PushNotificationRequest, err error) {
	logger := getLogger(c)

	var validationErr notification.ValidationError
	var notFoundErr notification.ProfileNotFoundError
	var noTokenErr notification.NoPushTokenError
	var configErr notification.ConfigError
	var signingErr notification.SigningError
	var dispatchErr notification.DispatchError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.As(err, &noTokenErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User has no push token"})
	case errors.As(err, &configErr):
		logger.Error("Push configuration error",
			zap.String("recipient", req.RecipientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Push configuration error", "details": configErr.Reason})
	case errors.As(err, &signingErr):
		logger.Error("Assertion signing failed",
			zap.String("recipient", req.RecipientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authorize with push gateway"})
	case errors.As(err, &dispatchErr):
		logger.Error("Push gateway rejected message",
			zap.String("recipient", req.RecipientID),
			zap.String("kind", string(req.Kind)),
			zap.String("detail", dispatchErr.Detail))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification", "details": dispatchErr.Detail})
	default:
		logger.Error("Push dispatch failed",
			zap.String("recipient", req.RecipientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
