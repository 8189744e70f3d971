package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken создает access токен для пользователя с коротким сроком действия.
func GenerateAccessToken(userID uint, email, role string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["email"] = email
	claims["role"] = role
	claims["exp"] = time.Now().Add(15 * time.Minute).Unix() // Access-токен действует 15 минут
	secret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(secret))
}

// GenerateRefreshToken создает refresh токен для пользователя с более длительным сроком действия.
func GenerateRefreshToken(userID uint) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["exp"] = time.Now().Add(7 * 24 * time.Hour).Unix() // Refresh-токен действует 7 дней
	refreshSecret := os.Getenv("JWT_REFRESH_SECRET")
	return token.SignedString([]byte(refreshSecret))
}

// GenerateStateToken создает короткоживущий state-токен для OAuth-редиректа,
// чтобы callback мог определить пользователя без сессии.
func GenerateStateToken(userID uint) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["exp"] = time.Now().Add(10 * time.Minute).Unix()
	secret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(secret))
}

// parseWithSecret разбирает и валидирует HS256-токен
func parseWithSecret(tokenStr, secret string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

// ParseAccessToken валидирует access/state токен (общий секрет JWT_SECRET)
func ParseAccessToken(tokenStr string) (jwt.MapClaims, error) {
	return parseWithSecret(tokenStr, os.Getenv("JWT_SECRET"))
}

// ParseRefreshToken валидирует refresh токен
func ParseRefreshToken(tokenStr string) (jwt.MapClaims, error) {
	return parseWithSecret(tokenStr, os.Getenv("JWT_REFRESH_SECRET"))
}

// UserIDFromClaims достает user_id из MapClaims (jwt хранит числа как float64)
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(idFloat), true
}
