// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/models"
	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns a handler intended to be registered as the
// router's MethodNotAllowed handler via [chi.Mux.MethodNotAllowed].
//
// Instead of chi's default 405 it answers 404 when the requested method is
// not registered for the matched route, hiding the route from callers that
// use an unsupported method. Only exact (non-parameterised) patterns are
// compared against the request path.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var foundRoute chi.Route
		for _, route := range router.Routes() {
			if route.Pattern == r.URL.Path {
				foundRoute = route
				break
			}
		}

		if _, ok := foundRoute.Handlers[r.Method]; !ok {
			utils.WriteJSON(w, models.ErrorResponse{Error: http.StatusText(http.StatusNotFound)}, http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
