package models

import "time"

// Profile is the slice of the dating-app profile document this service reads
// and writes: the registered device token and the per-category notification
// toggles. Everything else on the profile belongs to other components.
type Profile struct {
	ID                string          `bson:"id" json:"id"`
	FCMToken          string          `bson:"fcm_token,omitempty" json:"fcmToken,omitempty"`
	NotificationPrefs map[string]bool `bson:"notification_prefs,omitempty" json:"notificationPrefs,omitempty"`
	CreatedAt         time.Time       `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         time.Time       `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// PushProfile is the resolver's snapshot of a recipient: just enough to
// decide whether and where to send. Cached in Redis between dispatches.
type PushProfile struct {
	FCMToken    string          `json:"fcmToken,omitempty"`
	Preferences map[string]bool `json:"preferences,omitempty"`
}
