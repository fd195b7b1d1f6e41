// ABOUTME: Middleware chaining utility for composing HTTP middleware
// ABOUTME: Applies middleware in declaration order and adapts it for chi routers

package middleware

import "net/http"

// Middleware wraps a handler function.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain applies middleware functions to a handler in order.
// The first middleware in the list is the outermost (executes first).
// Example: Chain(handler, logging, auth) applies as: logging(auth(handler))
func Chain(h http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Handler adapts a handler-func middleware to the func(http.Handler) http.Handler
// shape used by chi's Router.Use.
func Handler(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}
