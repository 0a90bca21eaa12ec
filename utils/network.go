package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// socketIOPath is the websocket endpoint of the server's push channel
const socketIOPath = "/socket.io/"

// PushURL derives the push channel websocket URL from the server's HTTP base URL
func PushURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", base, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme %q", base, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", base)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + socketIOPath
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// IsLocalServer reports whether the server URL points at this machine
func IsLocalServer(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
