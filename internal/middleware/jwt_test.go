package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/moodlestats/moodle-stats-api/internal/models"
	"github.com/moodlestats/moodle-stats-api/internal/service"
)

type fakePanelRepo struct {
	user *models.PanelUser
}

func (f *fakePanelRepo) FindByUsername(ctx context.Context, username string) (*models.PanelUser, error) {
	if f.user == nil || f.user.Username != username {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

func (f *fakePanelRepo) UpdateLastLogin(context.Context, int64, time.Time) error {
	return nil
}

func jwtTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakePanelRepo{user: &models.PanelUser{ID: 42, Username: "operator", PasswordHash: string(hash), Active: true}}
	authSvc := service.NewAuthService(repo, nil, zap.NewNop(), service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})

	resp, err := authSvc.Login(context.Background(), models.LoginRequest{Username: "operator", Password: "s3cret"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(JWT(authSvc))
	r.GET("/ping", func(c *gin.Context) {
		claims, ok := c.Get(ContextUserKey)
		require.True(t, ok)
		typed, ok := claims.(*models.JWTClaims)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"uid": typed.UserID})
	})
	return r, resp.AccessToken
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	r, token := jwtTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	r, _ := jwtTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	r, token := jwtTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Token "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareInvalidToken(t *testing.T) {
	r, _ := jwtTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
