package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lovebug/models"
)

// Dispatcher delivers a built message to the push gateway.
type Dispatcher interface {
	Send(ctx context.Context, accessToken string, msg *Message) (*models.DispatchResult, error)
}

// FCMClient dispatches messages through the FCM v1 HTTP API. Transient
// failures (network errors, gateway 5xx) are retried a bounded number of
// times with doubling backoff; 4xx responses are terminal immediately since
// they indicate an invalid token or malformed payload.
type FCMClient struct {
	Endpoint    string
	ProjectID   string
	HTTPClient  *http.Client
	MaxAttempts int
	Backoff     time.Duration
}

type sendRequest struct {
	Message *Message `json:"message"`
}

type sendResponse struct {
	Name string `json:"name"`
}

func (c *FCMClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *FCMClient) maxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return 3
}

func (c *FCMClient) backoff() time.Duration {
	if c.Backoff > 0 {
		return c.Backoff
	}
	return 200 * time.Millisecond
}

// Send posts the message to the gateway and classifies the response.
func (c *FCMClient) Send(ctx context.Context, accessToken string, msg *Message) (*models.DispatchResult, error) {
	if c.ProjectID == "" {
		return nil, ConfigError{Reason: "firebase project id is not configured"}
	}

	body, err := json.Marshal(sendRequest{Message: msg})
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway payload: %w", err)
	}
	sendURL := fmt.Sprintf("%s/v1/projects/%s/messages:send", strings.TrimSuffix(c.Endpoint, "/"), c.ProjectID)

	var lastErr error
	var lastResult *models.DispatchResult
	delay := c.backoff()
	for attempt := 1; attempt <= c.maxAttempts(); attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build gateway request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient().Do(req)
		if err != nil {
			lastErr = fmt.Errorf("gateway request failed: %w", err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read gateway response: %w", readErr)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var parsed sendResponse
			if err := json.Unmarshal(respBody, &parsed); err != nil {
				return nil, fmt.Errorf("malformed gateway response: %w", err)
			}
			return &models.DispatchResult{
				Success:           true,
				ProviderMessageID: parsed.Name,
			}, nil
		}

		if resp.StatusCode >= 500 {
			lastResult = &models.DispatchResult{
				Success:     false,
				ErrorDetail: strings.TrimSpace(string(respBody)),
			}
			continue
		}

		return &models.DispatchResult{
			Success:     false,
			ErrorDetail: strings.TrimSpace(string(respBody)),
		}, nil
	}

	if lastResult != nil {
		return lastResult, nil
	}
	return nil, lastErr
}
