package models

// NotificationKind identifies what a push notification is about. The client
// apps dispatch on this value, so the set is closed and shared with them.
type NotificationKind string

const (
	KindNewMatch         NotificationKind = "new_match"
	KindNewMessage       NotificationKind = "new_message"
	KindNewLike          NotificationKind = "new_like"
	KindStoryReply       NotificationKind = "story_reply"
	KindAccountSuspended NotificationKind = "account_suspended"
	KindAdminMessage     NotificationKind = "admin_message"
	KindIncomingCall     NotificationKind = "incoming_call"
	KindMissedCall       NotificationKind = "missed_call"
	KindCallEnded        NotificationKind = "call_ended"
	KindCallRejected     NotificationKind = "call_rejected"
	KindClear            NotificationKind = "clear_notification"
)

// IsCall reports whether the kind is call signaling (elevated priority,
// call UI hints on the client).
func (k NotificationKind) IsCall() bool {
	switch k {
	case KindIncomingCall, KindMissedCall, KindCallEnded, KindCallRejected:
		return true
	}
	return false
}

// IsClear reports whether the kind is a silent clear signal (data-only,
// instructs the client to dismiss an already-delivered alert).
func (k NotificationKind) IsClear() bool {
	return k == KindClear
}

// PreferenceCategory returns the per-user notification toggle that gates this
// kind, or "" when the kind is not gated (call signaling, admin cleanup).
// An absent toggle on the profile means enabled; only an explicit false blocks.
func (k NotificationKind) PreferenceCategory() string {
	switch k {
	case KindNewMatch:
		return "matches"
	case KindNewMessage:
		return "messages"
	case KindNewLike:
		return "likes"
	case KindStoryReply:
		return "stories"
	case KindAccountSuspended, KindAdminMessage:
		return "admin"
	}
	return ""
}

// PushNotificationRequest is the inbound contract other backend components
// use to trigger a push. Title and body are required unless Kind is
// clear_notification, where they are ignored.
type PushNotificationRequest struct {
	RecipientID string                 `json:"recipientId"`
	Kind        NotificationKind       `json:"kind"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	Attributes  map[string]interface{} `json:"attributes"`
}

// DispatchResult classifies the push gateway's answer to a single send.
type DispatchResult struct {
	Success           bool   `json:"success"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
	ErrorDetail       string `json:"errorDetail,omitempty"`
}

// DispatchOutcome is what the notification service reports back to the
// handler: either a completed dispatch or a deliberate skip.
type DispatchOutcome struct {
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skipReason,omitempty"`
	MessageID  string `json:"messageId,omitempty"`
}
