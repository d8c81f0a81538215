package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/ticketing/internal/helpers"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

type mockUserRepo struct {
	GetUserFunc func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func (m *mockUserRepo) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, models.ErrUserNotFound
}

func signToken(t *testing.T, subject, role string, ttl time.Duration) string {
	t.Helper()
	claims := helpers.CustomClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func setupRouter(repo *mockUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.Use(RequestID())
	auth := AuthMiddleware(helpers.NewHMACValidator(testSecret), services.NewUserService(repo), logger)
	r.GET("/me", auth, func(c *gin.Context) {
		claims := c.MustGet(ContextKeyUser).(*helpers.EnhancedClaims)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID, "role": claims.Role})
	})
	r.GET("/admin", auth, RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("token without profile", func(t *testing.T) {
		r := setupRouter(&mockUserRepo{})
		w := get(r, "/me", signToken(t, userID.Hex(), "", time.Hour))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.Hex(), body["id"])
		assert.Equal(t, models.RoleUser, body["role"])
	})

	t.Run("profile role wins", func(t *testing.T) {
		r := setupRouter(&mockUserRepo{
			GetUserFunc: func(_ context.Context, id primitive.ObjectID) (*models.User, error) {
				return &models.User{ID: id, Name: "Door Staff", Email: "door@example.com", Role: models.RoleStaff}, nil
			},
		})
		w := get(r, "/me", signToken(t, userID.Hex(), models.RoleUser, time.Hour))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, models.RoleStaff, body["role"])
	})

	t.Run("cookie fallback", func(t *testing.T) {
		r := setupRouter(&mockUserRepo{})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, userID.Hex(), "", time.Hour)})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	rejected := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not.a.jwt"},
		{"expired token", signToken(t, userID.Hex(), "", -time.Minute)},
		{"subject not an object id", signToken(t, "user-123", "", time.Hour)},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&mockUserRepo{})
			w := get(r, "/me", tc.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: userID.Hex(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)

		w := get(setupRouter(&mockUserRepo{}), "/me", signed)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	userID := primitive.NewObjectID()

	w := get(setupRouter(&mockUserRepo{}), "/admin", signToken(t, userID.Hex(), models.RoleUser, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(setupRouter(&mockUserRepo{}), "/admin", signToken(t, userID.Hex(), models.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := setupRouter(&mockUserRepo{})

	w := get(r, "/me", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
