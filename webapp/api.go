package webapp

import (
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// configValue reads a field of window.docstudioConfig
func configValue(key string) string {
	if !app.IsClient {
		return ""
	}
	config := app.Window().Get("docstudioConfig")
	if !config.Truthy() {
		return ""
	}
	value := config.Get(key)
	if !value.Truthy() {
		return ""
	}
	return value.String()
}

// GetAPIBaseURL returns the configured API base URL
// It reads from window.docstudioConfig.apiURL if available,
// otherwise falls back to the page origin
func GetAPIBaseURL() string {
	if url := configValue("apiURL"); url != "" {
		return strings.TrimSuffix(url, "/")
	}
	if !app.IsClient {
		return "" // Server-side rendering - use relative URLs
	}
	return app.Window().Get("location").Get("origin").String()
}

// GetFailurePolicy returns the configured render failure policy
func GetFailurePolicy() string {
	return configValue("renderFailurePolicy")
}

// BuildAPIURL constructs a full API URL from a path
func BuildAPIURL(path string) string {
	return GetAPIBaseURL() + path
}
