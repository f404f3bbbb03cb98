package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sauron136/custos/pkg/device"
)

func TestInfo(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{
			name:      "empty user agent",
			userAgent: "",
			want:      "Unknown Device",
		},
		{
			name:      "iphone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1",
			want:      "iPhone",
		},
		{
			name:      "ipad",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148 Safari/604.1",
			want:      "iPad",
		},
		{
			name:      "android",
			userAgent: "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36",
			want:      "Android Device",
		},
		{
			name:      "generic mobile",
			userAgent: "Opera/9.80 (J2ME/MIDP; Opera Mini) Mobile",
			want:      "Mobile Device",
		},
		{
			name:      "chrome desktop",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36",
			want:      "Chrome Browser",
		},
		{
			name:      "firefox desktop",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			want:      "Firefox Browser",
		},
		{
			name:      "safari desktop",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15",
			want:      "Safari Browser",
		},
		{
			name:      "unrecognized desktop",
			userAgent: "curl/8.4.0",
			want:      "Desktop Browser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, device.Info(tt.userAgent))
		})
	}
}

// Mobile indicators outrank desktop browser names: an Android Chrome UA
// is an Android device, not a Chrome browser.
func TestInfo_MobileOutranksBrowser(t *testing.T) {
	ua := "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36"
	assert.Equal(t, "Android Device", device.Info(ua))
}
