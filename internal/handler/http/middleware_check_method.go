// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is the MethodNotAllowed handler of router: a request for a
// known path with an unregistered method gets 404 instead of chi's 405.
func CheckHTTPMethod(router chi.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.NewRouteContext()
		if router.Match(rctx, r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	}
}
