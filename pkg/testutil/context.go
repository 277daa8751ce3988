package testutil

import (
	"net/http"
	"time"

	"zonegate/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped clock, standing in for the
// requesttime middleware so handlers see a deterministic time in tests.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
