package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

func SecureHeaders(production bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	}).Handler
}

// RateLimit allows limit requests per minute per client IP.
func RateLimit(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

// RateLimitByActor keys on the authenticated employee, falling back to the
// client IP. It must run after AuthRequired.
func RateLimitByActor(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(actorKeyFunc),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

func actorKeyFunc(r *http.Request) (string, error) {
	if actor, ok := ActorFrom(r.Context()); ok {
		return "employee:" + strconv.FormatInt(actor.EmployeeID, 10), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	response.TooManyRequests(w, "Too many requests, slow down")
}
