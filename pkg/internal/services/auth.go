package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"git.entraide.dev/community/pkg/internal/models"
)

const tokenIssuer = "entraide"

func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password: %v", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, raw string) bool {
	if len(hashed) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}

func getTokenSecret() []byte {
	return []byte(viper.GetString("security.jwt_secret"))
}

func getTokenTTL() time.Duration {
	if ttl := viper.GetDuration("security.token_ttl"); ttl > 0 {
		return ttl
	}
	return 72 * time.Hour
}

func NewUserToken(user models.User) (string, error) {
	now := Clock.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Subject:   strconv.Itoa(int(user.ID)),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(getTokenTTL())),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getTokenSecret())
}

// ParseUserToken validates the token and returns the id of the user it was issued to.
func ParseUserToken(raw string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return getTokenSecret(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(Clock.Now),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid token: %v", err)
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid token subject")
	}
	return uint(id), nil
}
