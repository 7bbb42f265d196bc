package notification

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lovebug/models"
)

// Message is the FCM v1 message envelope for a single device token.
type Message struct {
	Token        string            `json:"token"`
	Notification *Notification     `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *AndroidConfig    `json:"android,omitempty"`
	APNS         *APNSConfig       `json:"apns,omitempty"`
}

// Notification is the cross-platform visible alert block.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image,omitempty"`
}

// AndroidConfig carries the Android-specific delivery options.
type AndroidConfig struct {
	Priority     string               `json:"priority,omitempty"`
	Notification *AndroidNotification `json:"notification,omitempty"`
}

// AndroidNotification carries the Android-specific alert options.
type AndroidNotification struct {
	Icon                 string `json:"icon,omitempty"`
	Color                string `json:"color,omitempty"`
	Sound                string `json:"sound,omitempty"`
	ChannelID            string `json:"channel_id,omitempty"`
	NotificationPriority string `json:"notification_priority,omitempty"`
	Visibility           string `json:"visibility,omitempty"`
}

// APNSConfig carries the APNs-specific headers and payload. The payload is a
// free-form JSON object holding the "aps" dictionary plus any custom keys the
// iOS client reads from the payload root.
type APNSConfig struct {
	Headers map[string]string      `json:"headers,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// PayloadBuilder converts a notification request into the platform-correct
// FCM v1 message. The channel and category identifiers must match what the
// mobile clients registered on install.
type PayloadBuilder struct {
	CallChannelID    string
	DefaultChannelID string
	IOSCallCategory  string
}

// Attribute keys the call payloads fold into the APNs payload root so the
// iOS client can drive its call UI without unpacking the data map.
var callAttributeKeys = []string{"call_id", "caller_id", "caller_name", "call_type", "match_id"}

// Build creates the gateway message for the request. The notification kind is
// always injected into the data map under "type" so the receiving client can
// dispatch on it.
func (b *PayloadBuilder) Build(token string, req models.PushNotificationRequest) *Message {
	data := StringifyAttributes(req.Attributes)
	data["type"] = string(req.Kind)

	switch {
	case req.Kind.IsClear():
		return b.clearMessage(token, data)
	case req.Kind.IsCall():
		return b.callMessage(token, req, data)
	default:
		return b.standardMessage(token, req, data)
	}
}

// clearMessage builds a data-only send instructing the client to dismiss a
// previously delivered alert. No notification block on any platform.
func (b *PayloadBuilder) clearMessage(token string, data map[string]string) *Message {
	apnsPayload := map[string]interface{}{
		"aps": map[string]interface{}{
			"content-available": 1,
			"mutable-content":   0,
		},
	}
	for k, v := range data {
		if k == "aps" {
			continue
		}
		apnsPayload[k] = v
	}

	return &Message{
		Token: token,
		Data:  data,
		Android: &AndroidConfig{
			Priority: "high",
		},
		APNS: &APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "5",
				"apns-push-type": "background",
			},
			Payload: apnsPayload,
		},
	}
}

// callMessage builds a call-signaling send. Call alerts always announce the
// caller: when a usable caller_name attribute is present it overrides the
// caller-supplied title and body.
func (b *PayloadBuilder) callMessage(token string, req models.PushNotificationRequest, data map[string]string) *Message {
	title, body := req.Title, req.Body
	if caller := strings.TrimSpace(data["caller_name"]); caller != "" && !strings.Contains(strings.ToLower(caller), "unknown") {
		title = caller + " is calling you"
		body = title
	}

	aps := map[string]interface{}{
		"alert": map[string]interface{}{
			"title": title,
			"body":  body,
		},
		"sound":           "call_ringtone.wav",
		"badge":           1,
		"category":        b.IOSCallCategory,
		"mutable-content": 1,
	}
	apnsPayload := map[string]interface{}{
		"aps":    aps,
		"action": "incoming_call",
	}
	for _, k := range callAttributeKeys {
		if v, ok := data[k]; ok {
			apnsPayload[k] = v
		}
	}

	notification := &Notification{Title: title, Body: body}
	if img := data["caller_image"]; img != "" {
		notification.Image = img
	}

	return &Message{
		Token:        token,
		Notification: notification,
		Data:         data,
		Android: &AndroidConfig{
			Priority: "high",
			Notification: &AndroidNotification{
				Icon:                 "ic_call",
				Color:                "#4CAF50",
				Sound:                "call_ringtone",
				ChannelID:            b.CallChannelID,
				NotificationPriority: "PRIORITY_MAX",
				Visibility:           "public",
			},
		},
		APNS: &APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: apnsPayload,
		},
	}
}

// standardMessage builds the default alert send.
func (b *PayloadBuilder) standardMessage(token string, req models.PushNotificationRequest, data map[string]string) *Message {
	return &Message{
		Token:        token,
		Notification: &Notification{Title: req.Title, Body: req.Body},
		Data:         data,
		Android: &AndroidConfig{
			Priority: "normal",
			Notification: &AndroidNotification{
				Icon:                 "ic_notification",
				Color:                "#FF6B6B",
				Sound:                "default",
				ChannelID:            b.DefaultChannelID,
				NotificationPriority: "PRIORITY_DEFAULT",
				Visibility:           "public",
			},
		},
		APNS: &APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: map[string]interface{}{
				"aps": map[string]interface{}{
					"alert": map[string]interface{}{
						"title": req.Title,
						"body":  req.Body,
					},
					"sound":           "default",
					"badge":           1,
					"mutable-content": 0,
				},
			},
		},
	}
}

// StringifyAttributes coerces every attribute value to a string; the push
// gateway rejects non-string values in the data block. Nil coerces to "".
func StringifyAttributes(attrs map[string]interface{}) map[string]string {
	data := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		data[k] = stringifyValue(v)
	}
	return data
}

func stringifyValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
