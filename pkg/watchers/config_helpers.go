package watchers

import "strings"

// ConfigString returns the trimmed string value for key from watch.Config or a fallback.
func ConfigString(w Watch, key, fallback string) string {
	if w.Config != nil {
		if raw, ok := w.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigEndpointKey       = "endpoint"
	ConfigStatusKey         = "status"
	ConfigPublishedStateKey = "published_state"
)
