package utils

import (
	"errors"
	"time"

	"gymbook/config"
	"gymbook/models"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT for the subscriber with the given role.
// Production tokens come from the account service; this mirrors its claims.
func GenerateToken(subject string, role models.Role, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	if len(secretKey()) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ActorFromToken extracts subject and role from a valid token.
func ActorFromToken(tokenString string) (models.Actor, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}

	role := models.RoleClient
	if r, _ := claims["role"].(string); r == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}
	return models.Actor{ID: sub, Role: role}, nil
}
