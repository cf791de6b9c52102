package auth

import (
	"time"

	"github.com/jobdeck/job-board/internal/middleware"

	jwt "github.com/dgrijalva/jwt-go"
)

const tokenLifetime = 30 * 24 * time.Hour

// SignToken issues the bearer token handed out at registration and login.
func SignToken(jwtKey []byte, userID, role string) (string, error) {
	claims := middleware.UserJWT{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).UTC().Unix(),
			IssuedAt:  time.Now().UTC().Unix(),
			Issuer:    "job-board",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}
