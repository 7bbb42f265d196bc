package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the handler functions the route registration wires up.
type HandlerBundle struct {
	// Notification endpoints.
	SendPushNotificationHandler gin.HandlerFunc

	// Push profile endpoints.
	UpdatePushTokenHandler         gin.HandlerFunc
	UpdateNotificationPrefsHandler gin.HandlerFunc
	GetPushProfileHandler          gin.HandlerFunc
}
