package utils

import (
	"strings"
)

// BuildCollectorURL joins the collector base URL with an endpoint path,
// tolerating trailing slashes and websocket schemes.
func BuildCollectorURL(baseURL, path string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u = strings.Replace(u, "wss://", "https://", 1)
	u = strings.Replace(u, "ws://", "http://", 1)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u + path
}
