package utils

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JWT Secret Key
var JwtKey = []byte("your_secret_key") // This will be loaded from .env

// CookieSecure marks the auth cookie Secure; enabled behind TLS.
var CookieSecure = false

// TokenCookieName is the HTTP-only cookie carrying the signed token.
const TokenCookieName = "access_token"

const tokenTTL = 24 * time.Hour

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

// GenerateJWT generates a JWT token for a user
func GenerateJWT(userID string) (string, error) {
	expirationTime := time.Now().Add(tokenTTL)
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// SetTokenCookie attaches the signed token as an HTTP-only cookie
func SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires the auth cookie
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
