package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// UserLoader resolves the authenticated user record; the role claim is
// never trusted from the token alone
type UserLoader interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth verifies the cookie-carried JWT, loads the user record and
// attaches it to the request context
func Auth(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(utils.TokenCookieName)
			if err != nil {
				http.Error(w, "Unauthorized: no token provided", http.StatusUnauthorized)
				return
			}

			claims := &utils.Claims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				return utils.JwtKey, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized: invalid or expired token", http.StatusUnauthorized)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			loadCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			user, err := users.ByID(loadCtx, userID)
			cancel()
			if err != nil {
				http.Error(w, "Database error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin ensures that the authenticated user has admin privileges
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(UserContextKey).(*models.User)
		if !ok || user.Role != "admin" {
			http.Error(w, "Forbidden: Admins only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom extracts the authenticated user from the request context
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}
