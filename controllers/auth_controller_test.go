package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func authTestServer(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupTestDB(t)
	ctl := NewAuthController(db, "")

	r := gin.New()
	r.POST("/api/auth/register", ctl.Register)
	r.POST("/api/auth/login", ctl.Login)
	r.POST("/api/auth/logingoogle", ctl.GoogleLogin)
	return db, r
}

func TestRegisterAndLogin(t *testing.T) {
	_, r := authTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "alice@example.com",
		"password": "hunter22",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, r := authTestServer(t)

	body := gin.H{"email": "bob@example.com", "password": "hunter22", "name": "Bob"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	_, r := authTestServer(t)

	for _, body := range []gin.H{
		{"email": "not-an-email", "password": "hunter22", "name": "X"},
		{"email": "x@example.com", "password": "short", "name": "X"},
		{"email": "x@example.com", "password": "hunter22"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGoogleLoginRejectsBadToken(t *testing.T) {
	_, r := authTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/logingoogle", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/logingoogle", gin.H{
		"id_token": "not-a-real-google-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	_, r := authTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "carol@example.com", "password": "hunter22", "name": "Carol",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "carol@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
