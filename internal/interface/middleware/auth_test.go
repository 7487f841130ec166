package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/job-portal/pkg/helpers"
)

type stubDenylist struct {
	revoked map[string]bool
	err     error
}

func (s *stubDenylist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], s.err
}

func newAuthEngine(jwt *helpers.JWTManager, dl *stubDenylist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cookies := helpers.NewCookie("token", "", false)
	var auth gin.HandlerFunc
	if dl == nil {
		auth = Auth(jwt, cookies, nil, nil)
	} else {
		auth = Auth(jwt, cookies, dl, nil)
	}
	r.GET("/me", auth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(CtxUserIDKey), "jti": c.GetString(CtxTokenIDKey)})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_AcceptsValidCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "job-portal")
	tok, jti, _, err := jwt.GenerateToken("user-1")
	require.NoError(t, err)

	w := get(newAuthEngine(jwt, &stubDenylist{revoked: map[string]bool{}}), tok)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["uid"])
	assert.Equal(t, jti, body["jti"])
}

func TestAuth_Rejects(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "job-portal")
	tok, jti, _, err := jwt.GenerateToken("user-1")
	require.NoError(t, err)
	expired, _, _, err := helpers.NewJWTManager("secret", -time.Minute, "job-portal").GenerateToken("user-1")
	require.NoError(t, err)

	cases := []struct {
		name  string
		token string
		dl    *stubDenylist
	}{
		{"missing token", "", nil},
		{"garbage token", "abc", nil},
		{"expired token", expired, nil},
		{"revoked token", tok, &stubDenylist{revoked: map[string]bool{jti: true}}},
		{"denylist unavailable", tok, &stubDenylist{revoked: map[string]bool{}, err: errors.New("redis down")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(newAuthEngine(jwt, tc.dl), tc.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "User not authenticated", body["message"])
		})
	}
}
