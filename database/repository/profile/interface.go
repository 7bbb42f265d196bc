package profileRepo

import (
	"lovebug/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ProfileRepository defines data access methods for dating-app profiles,
// restricted to the push-notification slice of the document.
type ProfileRepository interface {
	// GetByIDWithProjection retrieves a profile by its unique ID using a
	// projection. Pass nil for projection to retrieve the full document.
	// Returns (nil, nil) when no profile exists.
	GetByIDWithProjection(id string, projection bson.M) (*models.Profile, error)
	// UpdateFCMToken registers or replaces the profile's device token.
	UpdateFCMToken(id, token string) error
	// UpdateNotificationPrefs replaces the per-category notification toggles.
	UpdateNotificationPrefs(id string, prefs map[string]bool) error
}
