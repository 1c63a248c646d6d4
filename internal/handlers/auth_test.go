package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

func authRouter(db *gorm.DB) *gin.Engine {
	h := NewAuthHandler(db)
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	w := performJSON(t, r, http.MethodPost, "/register",
		gin.H{"username": "gamer", "email": "gamer@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "token")

	w = performJSON(t, r, http.MethodPost, "/login",
		gin.H{"username": "gamer", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "token")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	w := performJSON(t, r, http.MethodPost, "/register",
		gin.H{"username": "gamer", "email": "gamer@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Same username, different email
	w = performJSON(t, r, http.MethodPost, "/register",
		gin.H{"username": "gamer", "email": "other@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Same email, different username
	w = performJSON(t, r, http.MethodPost, "/register",
		gin.H{"username": "other", "email": "gamer@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing username", gin.H{"email": "a@example.com", "password": "hunter22"}},
		{"bad email", gin.H{"username": "gamer", "email": "nope", "password": "hunter22"}},
		{"short password", gin.H{"username": "gamer", "email": "a@example.com", "password": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(t, r, http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username: "gamer",
		Email:    "gamer@example.com",
		Password: string(hash),
	}).Error)

	r := authRouter(db)

	w := performJSON(t, r, http.MethodPost, "/login",
		gin.H{"username": "gamer", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(t, r, http.MethodPost, "/login",
		gin.H{"username": "nobody", "password": "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
