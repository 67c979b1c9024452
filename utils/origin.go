package utils

import (
	"net/http"
	"net/netip"
	"net/url"
	"strings"
)

// IsLocalOrigin reports whether origin points at this machine or the LAN:
// localhost, private and link-local addresses, .local names and single-label
// hosts. Public origins are rejected.
func IsLocalOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	hostname := strings.ToLower(parsed.Hostname())

	switch {
	case hostname == "localhost", strings.HasSuffix(hostname, ".local"):
		return true
	}
	if addr, err := netip.ParseAddr(hostname); err == nil {
		return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
	}
	return !strings.Contains(hostname, ".")
}

// CheckOrigin accepts same-origin requests, requests without an Origin header
// and local origins. It is the websocket upgrade check for the live view.
func CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if parsed, err := url.Parse(origin); err == nil && strings.EqualFold(parsed.Host, r.Host) {
		return true
	}
	return IsLocalOrigin(origin)
}
