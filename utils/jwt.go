package utils

import (
	"errors"
	"time"

	"lovebug/config"

	"github.com/golang-jwt/jwt"
)

func serviceSecret() []byte {
	return []byte(config.AppConfig.ServiceJWTSecret)
}

// GenerateServiceToken creates a signed JWT for service-to-service calls.
// The subject names the calling component (e.g. "chat-backend").
func GenerateServiceToken(subject string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(serviceSecret())
}

// ValidateServiceToken parses and validates a token string and returns the token if valid.
func ValidateServiceToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return serviceSecret(), nil
	})
}

// ExtractCallerFromToken extracts the subject (calling service) from a valid
// token string. It returns the extracted subject or an error if validation fails.
func ExtractCallerFromToken(tokenString string) (string, error) {
	token, err := ValidateServiceToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
