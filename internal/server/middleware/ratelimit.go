package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// PublicSubmitLimit returns an HTTP middleware that limits requests per IP
// address to the specified number per minute. Applied to the public contact
// and message submission endpoints to blunt form spam.
func PublicSubmitLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}
