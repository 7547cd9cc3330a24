package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

type CSP struct {
	isProd          bool
	cspHeaderString string
}

func NewCSP(isProd bool) *CSP {
	allowedStyleSources := []string{"https://fonts.googleapis.com"}
	allowedFontSources := []string{"https://fonts.gstatic.com"}
	allowedFrameSources := []string{"https://www.youtube-nocookie.com", "https://www.youtube.com"}

	styleSources := strings.Join(allowedStyleSources, " ")
	fontSources := strings.Join(allowedFontSources, " ")
	frameSources := strings.Join(allowedFrameSources, " ")

	cspHeader := "default-src 'self'; " +
		"script-src 'self'; " +
		fmt.Sprintf("style-src 'self' 'unsafe-inline' %s; ", styleSources) +
		"img-src 'self' data: https:; " +
		fmt.Sprintf("font-src 'self' %s; ", fontSources) +
		fmt.Sprintf("frame-src %s; ", frameSources) +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"

	return &CSP{
		isProd:          isProd,
		cspHeaderString: cspHeader,
	}
}

func (c *CSP) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Security-Policy", c.cspHeaderString)

			if c.isProd {
				w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
			}

			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}
