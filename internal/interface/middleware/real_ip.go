package middleware

import (
	"net"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// CtxRealIPKey holds the client address used for rate limit keys.
const CtxRealIPKey = "real_ip"

// ParseTrustedProxies accepts IPs and CIDRs, the same notation as
// gin.Engine.SetTrustedProxies.
func ParseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				return nil, errors.Errorf("invalid trusted proxy %q", e)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			e += "/" + strconv.Itoa(bits)
		}
		_, n, err := net.ParseCIDR(e)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy %q", e)
		}
		out = append(out, n)
	}
	return out, nil
}

// RealIP resolves the client address. Proxy headers (CF-Connecting-IP, then
// X-Forwarded-For walked from the right) are only honoured when the socket
// peer is one of trusted; otherwise the peer address is used as-is.
func RealIP(trusted []*net.IPNet) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, resolveClientIP(c, trusted))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context, trusted []*net.IPNet) string {
	peer := c.RemoteIP()
	if !isTrusted(net.ParseIP(peer), trusted) {
		return peer
	}
	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
		return ip.String()
	}
	hops := strings.Split(c.GetHeader("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			break
		}
		if !isTrusted(ip, trusted) {
			return ip.String()
		}
	}
	return peer
}

func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
