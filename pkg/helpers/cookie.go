package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Manager writes the session cookie
type Manager struct {
	Name   string
	Domain string
	Secure bool
}

func NewCookie(name, domain string, secure bool) *Manager {
	if name == "" {
		name = "token"
	}
	return &Manager{Name: name, Domain: domain, Secure: secure}
}

// Set stores token as an HTTP-only, SameSite=Lax cookie living until exp.
func (m *Manager) Set(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// Clear expires the session cookie immediately.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

// Token returns the session token from the cookie or a Bearer header.
func (m *Manager) Token(c *gin.Context) string {
	if v, err := c.Cookie(m.Name); err == nil && v != "" {
		return v
	}
	const prefix = "Bearer "
	if h := c.GetHeader("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
