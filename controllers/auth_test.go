package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/models"
)

// mockUserStore is a mock implementation of UserStore.
type mockUserStore struct {
	insertFn        func(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	byEmailFn       func(ctx context.Context, email string) (*models.User, error)
	usernameTakenFn func(ctx context.Context, username string) (bool, error)
	emailTakenFn    func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserStore) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, user)
	}
	return primitive.NewObjectID(), nil
}

func (m *mockUserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.byEmailFn != nil {
		return m.byEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	if m.usernameTakenFn != nil {
		return m.usernameTakenFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	if m.emailTakenFn != nil {
		return m.emailTakenFn(ctx, email)
	}
	return false, nil
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthController_Signup_HashesPassword(t *testing.T) {
	var stored *models.User
	users := &mockUserStore{
		insertFn: func(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
			stored = user
			return primitive.NewObjectID(), nil
		},
	}
	ac := NewAuthController(users)

	rec := httptest.NewRecorder()
	ac.Signup(rec, postJSON("/api/auth/signup", `{"username":"jordan","email":"jordan@example.com","password":"hunter22"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter22", stored.Password, "the plaintext password must never be stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
	assert.Equal(t, "customer", stored.Role)

	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=")
}

func TestAuthController_Signup_ShortPassword(t *testing.T) {
	ac := NewAuthController(&mockUserStore{})

	rec := httptest.NewRecorder()
	ac.Signup(rec, postJSON("/api/auth/signup", `{"username":"jordan","email":"jordan@example.com","password":"abc"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthController_Signup_InvalidEmail(t *testing.T) {
	ac := NewAuthController(&mockUserStore{})

	rec := httptest.NewRecorder()
	ac.Signup(rec, postJSON("/api/auth/signup", `{"username":"jordan","email":"not-an-email","password":"hunter22"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthController_Signup_UsernameTaken(t *testing.T) {
	users := &mockUserStore{
		usernameTakenFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	ac := NewAuthController(users)

	rec := httptest.NewRecorder()
	ac.Signup(rec, postJSON("/api/auth/signup", `{"username":"jordan","email":"jordan@example.com","password":"hunter22"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already taken")
}

func TestAuthController_Login_UnknownEmail(t *testing.T) {
	ac := NewAuthController(&mockUserStore{})

	rec := httptest.NewRecorder()
	ac.Login(rec, postJSON("/api/auth/login", `{"email":"jordan@example.com","password":"hunter22"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email or password incorrect")
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserStore{
		byEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: primitive.NewObjectID(), Email: email, Password: string(hashed)}, nil
		},
	}
	ac := NewAuthController(users)

	rec := httptest.NewRecorder()
	ac.Login(rec, postJSON("/api/auth/login", `{"email":"jordan@example.com","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email or password incorrect")
}

func TestAuthController_Login_Success(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserStore{
		byEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: primitive.NewObjectID(), Username: "jordan", Email: email, Password: string(hashed)}, nil
		},
	}
	ac := NewAuthController(users)

	rec := httptest.NewRecorder()
	ac.Login(rec, postJSON("/api/auth/login", `{"email":"jordan@example.com","password":"hunter22"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "access_token=")
	assert.NotContains(t, rec.Body.String(), "hunter22")
}

func TestAuthController_Logout_ClearsCookie(t *testing.T) {
	ac := NewAuthController(&mockUserStore{})

	rec := httptest.NewRecorder()
	ac.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}
