package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestCookieManager_Set(t *testing.T) {
	m := NewCookie("", "example.com", true)
	assert.Equal(t, "token", m.Name)

	c, w := newTestContext(httptest.NewRequest(http.MethodPost, "/", nil))
	m.Set(c, "abc", time.Now().Add(24*time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "token", ck.Name)
	assert.Equal(t, "abc", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.InDelta(t, 24*60*60, ck.MaxAge, 5)
}

func TestCookieManager_Clear(t *testing.T) {
	m := NewCookie("token", "", false)
	c, w := newTestContext(httptest.NewRequest(http.MethodGet, "/", nil))
	m.Clear(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestCookieManager_Token(t *testing.T) {
	m := NewCookie("token", "", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	c, _ := newTestContext(req)
	assert.Equal(t, "from-cookie", m.Token(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	c, _ = newTestContext(req)
	assert.Equal(t, "from-header", m.Token(c))

	c, _ = newTestContext(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, m.Token(c))
}
