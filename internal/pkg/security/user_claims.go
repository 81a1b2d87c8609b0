package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const JWTExpirationTime = time.Hour * 24

type UserClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
