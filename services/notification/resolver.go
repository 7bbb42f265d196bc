package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"lovebug/models"
	"lovebug/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// pushProfileProjection restricts the profile lookup to the fields the
// dispatch path needs.
var pushProfileProjection = bson.M{
	"id":                 1,
	"fcm_token":          1,
	"notification_prefs": 1,
}

// resolvePushProfile fetches the recipient's device token and notification
// toggles, consulting the Redis snapshot before hitting the profile store.
func (s *DefaultNotificationService) resolvePushProfile(ctx context.Context, recipientID string) (*models.PushProfile, error) {
	cacheKey := utils.PushProfileCachePrefix + recipientID
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached models.PushProfile
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	profile, err := s.Profiles.GetByIDWithProjection(recipientID, pushProfileProjection)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipient %s: %w", recipientID, err)
	}
	if profile == nil {
		return nil, ProfileNotFoundError{RecipientID: recipientID}
	}

	pushProfile := &models.PushProfile{
		FCMToken:    profile.FCMToken,
		Preferences: profile.NotificationPrefs,
	}
	if s.Cache != nil {
		if raw, err := json.Marshal(pushProfile); err == nil {
			s.Cache.Set(ctx, cacheKey, raw, utils.PushProfileCacheTTL)
		}
	}
	return pushProfile, nil
}

// invalidatePushProfile drops the cached snapshot after a token or
// preferences write.
func (s *DefaultNotificationService) invalidatePushProfile(ctx context.Context, recipientID string) {
	if s.Cache != nil {
		s.Cache.Del(ctx, utils.PushProfileCachePrefix+recipientID)
	}
}

// preferenceDisabled reports whether the recipient has explicitly switched
// off the category gating this kind. Clear signals bypass preferences
// entirely; kinds without a category are never gated. An absent toggle means
// enabled.
func preferenceDisabled(kind models.NotificationKind, prefs map[string]bool) bool {
	if kind.IsClear() {
		return false
	}
	category := kind.PreferenceCategory()
	if category == "" {
		return false
	}
	enabled, ok := prefs[category]
	return ok && !enabled
}
