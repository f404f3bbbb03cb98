// Package device classifies user-agent strings into coarse device labels
// shown in the session list.
package device

import "strings"

// Info returns a human-readable device label for a user-agent string.
// Mobile indicators take precedence over desktop browser names, since
// mobile browsers advertise both.
func Info(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	if containsAny(userAgent, "Mobile", "Android", "iPhone", "iPad") {
		switch {
		case strings.Contains(userAgent, "iPhone"):
			return "iPhone"
		case strings.Contains(userAgent, "iPad"):
			return "iPad"
		case strings.Contains(userAgent, "Android"):
			return "Android Device"
		default:
			return "Mobile Device"
		}
	}

	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome Browser"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox Browser"
	case strings.Contains(userAgent, "Safari"):
		return "Safari Browser"
	case strings.Contains(userAgent, "Edge"):
		return "Edge Browser"
	}

	return "Desktop Browser"
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
