package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions returns the security header policy for a JSON API.
func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	}
}

// Secure returns a middleware that adds the headers described by opts.
func Secure(opts secure.Options) func(http.Handler) http.Handler {
	return secure.New(opts).Handler
}
