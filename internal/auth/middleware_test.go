package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"username": GetUsername(c),
			"is_admin": IsAdmin(c),
		})
	})

	return r
}

func request(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := newRouter(AuthMiddleware())

	assert.Equal(t, http.StatusUnauthorized, request(t, r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(t, r, "garbage").Code)

	token, err := GenerateJWT("user-123", "alice", false)
	require.NoError(t, err)

	w := request(t, r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestAdminAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := newRouter(AdminAuthMiddleware())

	userToken, err := GenerateJWT("user-123", "alice", false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(t, r, userToken).Code)

	adminToken, err := GenerateJWT("admin", "root", true)
	require.NoError(t, err)

	w := request(t, r, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_admin":true`)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := newRouter(OptionalAuthMiddleware())

	w := request(t, r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}
