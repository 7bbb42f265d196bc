package notification

import "fmt"

// ValidationError signals a malformed dispatch request.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid notification request: " + e.Reason
}

// ProfileNotFoundError signals that the recipient has no profile.
type ProfileNotFoundError struct {
	RecipientID string
}

func (e ProfileNotFoundError) Error() string {
	return "no profile found for recipient " + e.RecipientID
}

// NoPushTokenError signals that the recipient's profile has no registered
// device token, so there is nothing to send to.
type NoPushTokenError struct {
	RecipientID string
}

func (e NoPushTokenError) Error() string {
	return "recipient " + e.RecipientID + " has no registered push token"
}

// ConfigError signals missing or broken deployment configuration
// (credentials, project id, token endpoint).
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "push configuration error: " + e.Reason
}

// SigningError signals that the service-account key could not be imported or
// the assertion signature could not be computed. A bad key means no valid
// token can ever be produced with this credential.
type SigningError struct {
	Err error
}

func (e SigningError) Error() string {
	return fmt.Sprintf("assertion signing failed: %v", e.Err)
}

func (e SigningError) Unwrap() error {
	return e.Err
}

// DispatchError signals that the push gateway rejected the send.
type DispatchError struct {
	Status int
	Detail string
}

func (e DispatchError) Error() string {
	if e.Status == 0 {
		return "push gateway rejected message: " + e.Detail
	}
	return fmt.Sprintf("push gateway returned %d: %s", e.Status, e.Detail)
}
