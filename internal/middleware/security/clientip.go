package security

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPExtractor resolves the real client IP, honoring forwarding
// headers only when the direct peer is a trusted proxy. Trusting
// X-Forwarded-For from arbitrary peers would let clients spoof their
// identity past the rate limiter.
type ClientIPExtractor struct {
	trustedProxies []*net.IPNet
}

// NewClientIPExtractor trusts the RFC 1918 ranges and loopback by
// default, which covers typical reverse proxy deployments.
func NewClientIPExtractor() *ClientIPExtractor {
	e := &ClientIPExtractor{}
	for _, cidr := range []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"::1/128",
	} {
		_, network, err := net.ParseCIDR(cidr)
		if err == nil {
			e.trustedProxies = append(e.trustedProxies, network)
		}
	}
	return e
}

// AddTrustedProxy adds a CIDR range whose forwarding headers are trusted.
func (e *ClientIPExtractor) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return err
	}
	e.trustedProxies = append(e.trustedProxies, network)
	return nil
}

// ExtractClientIP returns the best available client IP for the request.
func (e *ClientIPExtractor) ExtractClientIP(r *http.Request) string {
	direct := remoteIP(r)

	if !e.isTrustedProxy(direct) {
		return direct
	}

	// X-Forwarded-For holds the original client first, proxies after.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		candidate := strings.TrimSpace(parts[0])
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if net.ParseIP(realIP) != nil {
			return realIP
		}
	}

	return direct
}

func (e *ClientIPExtractor) isTrustedProxy(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range e.trustedProxies {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
