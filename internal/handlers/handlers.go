package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

// wantsJSON mirrors the content negotiation used across the handlers:
// JSON only when the client asks for it and not for HTML.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
