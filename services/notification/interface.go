package notification

import (
	"context"
	"errors"

	profileRepo "lovebug/database/repository/profile"
	"lovebug/models"
	"lovebug/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// SkipReasonPreference is reported when the recipient disabled the category.
const SkipReasonPreference = "disabled by preference"

// NotificationService defines the push dispatch operations.
type NotificationService interface {
	// SendPushNotification resolves the recipient, builds the platform
	// payload, and dispatches it through the push gateway. A preference skip
	// is a valid no-op outcome, not an error.
	SendPushNotification(ctx context.Context, req models.PushNotificationRequest) (*models.DispatchOutcome, error)
	// RegisterPushToken registers or replaces the profile's device token.
	RegisterPushToken(ctx context.Context, profileID, token string) error
	// UpdateNotificationPrefs replaces the per-category notification toggles.
	UpdateNotificationPrefs(ctx context.Context, profileID string, prefs map[string]bool) error
	// GetPushProfile returns the recipient's push token and toggles.
	GetPushProfile(ctx context.Context, profileID string) (*models.PushProfile, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Profiles   profileRepo.ProfileRepository
	Tokens     *TokenManager
	Dispatcher Dispatcher
	Builder    *PayloadBuilder
	Cache      *redis.Client
}

// SendPushNotification runs the dispatch path in strict sequence: resolve the
// recipient, check preferences, mint a bearer token, build the payload, send.
func (s *DefaultNotificationService) SendPushNotification(ctx context.Context, req models.PushNotificationRequest) (*models.DispatchOutcome, error) {
	logger := utils.GetLogger().Sugar()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	pushProfile, err := s.resolvePushProfile(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if pushProfile.FCMToken == "" {
		return nil, NoPushTokenError{RecipientID: req.RecipientID}
	}

	if preferenceDisabled(req.Kind, pushProfile.Preferences) {
		logger.Infow("push skipped by recipient preference",
			"recipient", req.RecipientID, "kind", req.Kind)
		return &models.DispatchOutcome{Skipped: true, SkipReason: SkipReasonPreference}, nil
	}

	// Tag the send so clients and clear signals can reference it later.
	if req.Attributes == nil {
		req.Attributes = map[string]interface{}{}
	}
	if _, ok := req.Attributes["notification_id"]; !ok {
		req.Attributes["notification_id"] = uuid.New().String()
	}

	accessToken, err := s.Tokens.AccessToken(ctx)
	if err != nil {
		logger.Errorw("failed to obtain messaging access token",
			"recipient", req.RecipientID, "kind", req.Kind, "error", err)
		return nil, err
	}

	msg := s.Builder.Build(pushProfile.FCMToken, req)
	result, err := s.Dispatcher.Send(ctx, accessToken, msg)
	if err != nil {
		logger.Errorw("push dispatch failed",
			"recipient", req.RecipientID, "kind", req.Kind, "error", err)
		return nil, err
	}
	if !result.Success {
		logger.Errorw("push gateway rejected message",
			"recipient", req.RecipientID, "kind", req.Kind, "detail", result.ErrorDetail)
		return nil, DispatchError{Detail: result.ErrorDetail}
	}

	logger.Infow("push dispatched",
		"recipient", req.RecipientID, "kind", req.Kind, "messageId", result.ProviderMessageID)
	return &models.DispatchOutcome{MessageID: result.ProviderMessageID}, nil
}

// validateRequest enforces the inbound contract. Title and body are required
// unless the kind is a clear signal, where they are ignored.
func validateRequest(req models.PushNotificationRequest) error {
	if req.RecipientID == "" {
		return ValidationError{Reason: "recipientId is required"}
	}
	if req.Kind == "" {
		return ValidationError{Reason: "kind is required"}
	}
	if !req.Kind.IsClear() && (req.Title == "" || req.Body == "") {
		return ValidationError{Reason: "title and body are required"}
	}
	return nil
}

// RegisterPushToken registers or replaces the profile's device token and
// drops the cached snapshot.
func (s *DefaultNotificationService) RegisterPushToken(ctx context.Context, profileID, token string) error {
	if token == "" {
		return ValidationError{Reason: "fcmToken is required"}
	}
	if err := s.Profiles.UpdateFCMToken(profileID, token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ProfileNotFoundError{RecipientID: profileID}
		}
		return err
	}
	s.invalidatePushProfile(ctx, profileID)
	return nil
}

// UpdateNotificationPrefs replaces the per-category toggles and drops the
// cached snapshot.
func (s *DefaultNotificationService) UpdateNotificationPrefs(ctx context.Context, profileID string, prefs map[string]bool) error {
	if err := s.Profiles.UpdateNotificationPrefs(profileID, prefs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ProfileNotFoundError{RecipientID: profileID}
		}
		return err
	}
	s.invalidatePushProfile(ctx, profileID)
	return nil
}

// GetPushProfile returns the recipient's push token and toggles.
func (s *DefaultNotificationService) GetPushProfile(ctx context.Context, profileID string) (*models.PushProfile, error) {
	return s.resolvePushProfile(ctx, profileID)
}
