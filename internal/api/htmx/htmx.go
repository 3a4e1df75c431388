package htmx

import (
	"net/http"
	"strings"
)

const (
	RequestHeader    = "HX-Request"
	CurrentURLHeader = "HX-Current-URL"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// CurrentURL returns the URL of the page that issued an htmx request, or "".
func CurrentURL(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(CurrentURLHeader))
}
