package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/utils"
)

// mockUserLoader is a mock implementation of UserLoader.
type mockUserLoader struct {
	byIDFn func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

func (m *mockUserLoader) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_NoCookie(t *testing.T) {
	called := false
	handler := Auth(&mockUserLoader{})(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/carts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuth_InvalidToken(t *testing.T) {
	called := false
	handler := Auth(&mockUserLoader{})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/carts", nil)
	req.AddCookie(&http.Cookie{Name: utils.TokenCookieName, Value: "not-a-jwt"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuth_ValidTokenLoadsUser(t *testing.T) {
	userID := primitive.NewObjectID()
	users := &mockUserLoader{
		byIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			assert.Equal(t, userID, id)
			return &models.User{ID: id, Username: "jordan", Role: "customer"}, nil
		},
	}

	var seen *models.User
	handler := Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := utils.GenerateJWT(userID.Hex())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/carts", nil)
	req.AddCookie(&http.Cookie{Name: utils.TokenCookieName, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "jordan", seen.Username)
}

func TestAuth_UnknownUser(t *testing.T) {
	called := false
	handler := Auth(&mockUserLoader{})(okHandler(&called))

	token, err := utils.GenerateJWT(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/carts", nil)
	req.AddCookie(&http.Cookie{Name: utils.TokenCookieName, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, called)
}

func TestAdmin_RejectsCustomer(t *testing.T) {
	called := false
	handler := Admin(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	ctx := context.WithValue(req.Context(), UserContextKey, &models.User{Role: "customer"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestAdmin_AllowsAdmin(t *testing.T) {
	called := false
	handler := Admin(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	ctx := context.WithValue(req.Context(), UserContextKey, &models.User{Role: "admin"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
