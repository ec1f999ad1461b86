package credential

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieKeys_SaveGetClear(t *testing.T) {
	keys := NewCookieKeys("test-session-secret", false)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/editor/api-key", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, keys.Save(rec, req, "AIza-client"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.NotContains(t, cookies[0].Value, "AIza-client")

	next := httptest.NewRequest(http.MethodPost, "/api/v1/editor/generate", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	assert.Equal(t, "AIza-client", keys.Get(next))

	cleared := httptest.NewRecorder()
	require.NoError(t, keys.Clear(cleared, next))
	assert.Equal(t, -1, cleared.Result().Cookies()[0].MaxAge)
}

func TestCookieKeys_RejectsForeignSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	require.NoError(t, NewCookieKeys("secret-a", false).Save(rec, req, "AIza-client"))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}

	assert.Empty(t, NewCookieKeys("secret-b", false).Get(next))
}
