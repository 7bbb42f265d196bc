package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lovebug/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfileRepo) GetByIDWithProjection(id string, _ bson.M) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateFCMToken(id, token string) error {
	p, ok := f.profiles[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.FCMToken = token
	return nil
}

func (f *fakeProfileRepo) UpdateNotificationPrefs(id string, prefs map[string]bool) error {
	p, ok := f.profiles[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.NotificationPrefs = prefs
	return nil
}

type fakeDispatcher struct {
	calls     int
	lastToken string
	lastMsg   *Message
	result    *models.DispatchResult
	err       error
}

func (f *fakeDispatcher) Send(_ context.Context, accessToken string, msg *Message) (*models.DispatchResult, error) {
	f.calls++
	f.lastToken = accessToken
	f.lastMsg = msg
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.DispatchResult{Success: true, ProviderMessageID: "projects/test-project/messages/m1"}, nil
}

type serviceFixture struct {
	svc        *DefaultNotificationService
	repo       *fakeProfileRepo
	dispatcher *fakeDispatcher
	tokenHits  *int
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	_, pemKey := generateTestKey(t)

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok", "expires_in": 3600})
	}))
	t.Cleanup(srv.Close)

	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	dispatcher := &fakeDispatcher{}
	svc := &DefaultNotificationService{
		Profiles:   repo,
		Tokens:     newTestTokenManager(pemKey, srv.URL, nil),
		Dispatcher: dispatcher,
		Builder:    newTestBuilder(),
	}
	return &serviceFixture{svc: svc, repo: repo, dispatcher: dispatcher, tokenHits: &hits}
}

func TestSendPushNotificationSucceeds(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{
		ID:                "u1",
		FCMToken:          "device-tok",
		NotificationPrefs: map[string]bool{"messages": true},
	}

	outcome, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "u1",
		Kind:        models.KindNewMessage,
		Title:       "Hi",
		Body:        "hey there",
		Attributes:  map[string]interface{}{"matchId": "m1"},
	})
	require.NoError(t, err)

	assert.False(t, outcome.Skipped)
	assert.Equal(t, "projects/test-project/messages/m1", outcome.MessageID)
	assert.Equal(t, 1, f.dispatcher.calls)
	assert.Equal(t, "tok", f.dispatcher.lastToken)
	assert.Equal(t, "device-tok", f.dispatcher.lastMsg.Token)
	assert.Equal(t, "m1", f.dispatcher.lastMsg.Data["matchId"])
	assert.NotEmpty(t, f.dispatcher.lastMsg.Data["notification_id"])
}

func TestSendPushNotificationSkippedByPreference(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{
		ID:                "u1",
		FCMToken:          "device-tok",
		NotificationPrefs: map[string]bool{"messages": false},
	}

	outcome, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "u1",
		Kind:        models.KindNewMessage,
		Title:       "Hi",
		Body:        "hey there",
	})
	require.NoError(t, err)

	assert.True(t, outcome.Skipped)
	assert.Equal(t, SkipReasonPreference, outcome.SkipReason)
	assert.Equal(t, 0, f.dispatcher.calls, "no dispatch may happen after a preference skip")
	assert.Equal(t, 0, *f.tokenHits, "no token exchange may happen after a preference skip")
}

func TestSendPushNotificationAbsentPreferenceMeansEnabled(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{
		ID:       "u1",
		FCMToken: "device-tok",
	}

	outcome, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "u1",
		Kind:        models.KindNewMatch,
		Title:       "New match!",
		Body:        "You matched",
	})
	require.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, 1, f.dispatcher.calls)
}

func TestSendPushNotificationNoToken(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{ID: "u1"}

	_, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "u1",
		Kind:        models.KindNewMessage,
		Title:       "Hi",
		Body:        "hey",
	})
	require.Error(t, err)
	assert.IsType(t, NoPushTokenError{}, err)
	assert.Equal(t, 0, *f.tokenHits, "resolution must short-circuit before the token exchange")
	assert.Equal(t, 0, f.dispatcher.calls)
}

func TestSendPushNotificationUnknownRecipient(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "ghost",
		Kind:        models.KindNewMessage,
		Title:       "Hi",
		Body:        "hey",
	})
	require.Error(t, err)
	assert.IsType(t, ProfileNotFoundError{}, err)
}

func TestSendPushNotificationValidation(t *testing.T) {
	f := newServiceFixture(t)

	cases := []models.PushNotificationRequest{
		{Kind: models.KindNewMessage, Title: "Hi", Body: "hey"},
		{RecipientID: "u1", Title: "Hi", Body: "hey"},
		{RecipientID: "u1", Kind: models.KindNewMessage, Body: "hey"},
		{RecipientID: "u1", Kind: models.KindNewMessage, Title: "Hi"},
	}
	for _, req := range cases {
		_, err := f.svc.SendPushNotification(context.Background(), req)
		assert.IsType(t, ValidationError{}, err)
	}
}

func TestSendPushNotificationClearNeedsNoTitle(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{
		ID:       "u1",
		FCMToken: "device-tok",
		// Clear signals bypass preferences, even explicit false.
		NotificationPrefs: map[string]bool{"messages": false},
	}

	outcome, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "u1",
		Kind:        models.KindClear,
		Attributes:  map[string]interface{}{"notification_id": "n9"},
	})
	require.NoError(t, err)

	assert.False(t, outcome.Skipped)
	require.Equal(t, 1, f.dispatcher.calls)
	assert.Nil(t, f.dispatcher.lastMsg.Notification, "clear sends are data-only")
}

func TestSendPushNotificationGatewayRejection(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{ID: "u1", FCMToken: "device-tok"}
	f.dispatcher.result = &models.DispatchResult{Success: false, ErrorDetail: "quota exceeded"}

	_, err := f.svc.SendPushNotification(context.Background(), models.PushNotificationRequest{
		RecipientID: "u1",
		Kind:        models.KindNewMessage,
		Title:       "Hi",
		Body:        "hey",
	})
	require.Error(t, err)

	var dispatchErr DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, "quota exceeded", dispatchErr.Detail)
}

func TestRegisterPushToken(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{ID: "u1"}

	require.NoError(t, f.svc.RegisterPushToken(context.Background(), "u1", "new-tok"))
	assert.Equal(t, "new-tok", f.repo.profiles["u1"].FCMToken)

	err := f.svc.RegisterPushToken(context.Background(), "ghost", "tok")
	assert.IsType(t, ProfileNotFoundError{}, err)

	err = f.svc.RegisterPushToken(context.Background(), "u1", "")
	assert.IsType(t, ValidationError{}, err)
}

func TestUpdateNotificationPrefs(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.profiles["u1"] = &models.Profile{ID: "u1"}

	prefs := map[string]bool{"matches": false, "messages": true}
	require.NoError(t, f.svc.UpdateNotificationPrefs(context.Background(), "u1", prefs))
	assert.Equal(t, prefs, f.repo.profiles["u1"].NotificationPrefs)

	err := f.svc.UpdateNotificationPrefs(context.Background(), "ghost", prefs)
	assert.IsType(t, ProfileNotFoundError{}, err)
}
