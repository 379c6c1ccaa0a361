package instance

import (
	"os"
	"strings"
)

// EnvInstanceID overrides the detected instance name.
const EnvInstanceID = "STOREFRONT_INSTANCE_ID"

// ID names the running API process in logs. It prefers an explicit
// STOREFRONT_INSTANCE_ID, then the platform dyno name, then the hostname.
func ID() string {
	for _, key := range []string{EnvInstanceID, "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
