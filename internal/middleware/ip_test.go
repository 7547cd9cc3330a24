package middleware

import (
	"net/http"
	"testing"
)

func TestGetProxyClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "direct connection",
			remote:   "203.0.113.9:4242",
			expected: "203.0.113.9",
		},
		{
			name:     "proxy header wins over remote addr",
			headers:  map[string]string{"CF-Connecting-IP": "198.51.100.7"},
			remote:   "192.168.0.1:999",
			expected: "198.51.100.7",
		},
		{
			name: "first entry of a forwarded chain",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.9, 198.51.100.7",
			},
			remote:   "192.168.0.1:999",
			expected: "203.0.113.9",
		},
		{
			name: "malformed header falls through to the next",
			headers: map[string]string{
				"CF-Connecting-IP": "not-an-ip",
				"X-Forwarded-For":  "203.0.113.9",
			},
			remote:   "192.168.0.1:999",
			expected: "203.0.113.9",
		},
		{
			name:     "private IP in header is a spoofing attempt",
			headers:  map[string]string{"CF-Connecting-IP": "10.0.0.55"},
			remote:   "203.0.113.9:999",
			expected: "203.0.113.9",
		},
		{
			name:     "invalid remote addr",
			remote:   "500.500.600.500",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, _ := http.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote

			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getProxyClientIP(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
