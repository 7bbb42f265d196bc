package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
)

// assertionLifetime is the validity window encoded in the assertion's exp claim.
const assertionLifetime = time.Hour

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// ServiceAccountCredential holds the long-lived signing identity authorized
// for the messaging scope. Treated as a secret; never mutated.
type ServiceAccountCredential struct {
	ClientEmail   string
	PrivateKeyPEM string
}

// AccessToken is a bearer token obtained by exchanging a signed assertion.
type AccessToken struct {
	Value  string
	Expiry time.Time
}

// TokenManager mints short-lived bearer tokens for the push-messaging scope.
// It signs a JWT assertion with the service-account key, exchanges it at the
// OAuth token endpoint, and caches the result until close to expiry so that
// concurrent dispatches do not hammer the token endpoint.
type TokenManager struct {
	Credential   ServiceAccountCredential
	TokenURL     string
	Scope        string
	SafetyMargin time.Duration
	HTTPClient   *http.Client
	Now          func() time.Time

	mu     sync.Mutex
	cached AccessToken
}

func (m *TokenManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *TokenManager) httpClient() *http.Client {
	if m.HTTPClient != nil {
		return m.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (m *TokenManager) safetyMargin() time.Duration {
	if m.SafetyMargin > 0 {
		return m.SafetyMargin
	}
	return time.Minute
}

// BuildAssertion mints the signed JWT used to request an access token.
// Claims are iss/scope/aud/iat/exp with exp fixed at one hour after iat;
// header and claims are base64url-encoded and signed with RS256 over
// "header.claims".
func (m *TokenManager) BuildAssertion(now time.Time) (string, error) {
	if m.Credential.ClientEmail == "" || m.Credential.PrivateKeyPEM == "" {
		return "", ConfigError{Reason: "service account credential is not configured"}
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(m.Credential.PrivateKeyPEM))
	if err != nil {
		return "", SigningError{Err: fmt.Errorf("failed to parse private key: %w", err)}
	}

	claims := jwt.MapClaims{
		"iss":   m.Credential.ClientEmail,
		"scope": m.Scope,
		"aud":   m.TokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", SigningError{Err: err}
	}
	return signed, nil
}

// AccessToken returns a bearer token for the messaging scope, reusing the
// cached one until it is within the safety margin of expiry.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.cached.Value != "" && now.Before(m.cached.Expiry.Add(-m.safetyMargin())) {
		return m.cached.Value, nil
	}

	assertion, err := m.BuildAssertion(now)
	if err != nil {
		return "", err
	}

	token, err := m.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}
	m.cached = token
	return token.Value, nil
}

// exchange trades the signed assertion for an access token at the OAuth
// token endpoint.
func (m *TokenManager) exchange(ctx context.Context, assertion string) (AccessToken, error) {
	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return AccessToken{}, fmt.Errorf("token endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AccessToken{}, ConfigError{
			Reason: fmt.Sprintf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return AccessToken{}, ConfigError{Reason: fmt.Sprintf("malformed token response: %v", err)}
	}
	if payload.AccessToken == "" {
		return AccessToken{}, ConfigError{Reason: "token response contains no access_token"}
	}

	expiresIn := payload.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = int(assertionLifetime / time.Second)
	}
	return AccessToken{
		Value:  payload.AccessToken,
		Expiry: m.now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}
