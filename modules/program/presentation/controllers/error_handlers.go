package controllers

import "net/http"

// NotFound is the router-level fallback for unmatched paths.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, ensureRequestID(r), "PROGRAM_ROUTE_NOT_FOUND", "no such route")
	})
}

// MethodNotAllowed answers matched paths hit with the wrong verb.
func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, ensureRequestID(r), "PROGRAM_METHOD_NOT_ALLOWED", "method not allowed for this route")
	})
}
