package server

import (
	"net/http"
	"strings"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally, so path patterns support {wildcard}
// segments readable via [http.Request.PathValue].
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	routes      map[string]map[string]http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		routes:      map[string]map[string]http.Handler{},
	}
}

// Use adds [Middleware] to the router's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// Multiple methods can share a path; unregistered methods get a 405.
// Middleware wraps the per-path dispatcher, so register middleware with
// [BasicRouter.Use] before any routes.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	methods, exists := r.routes[path]
	if !exists {
		methods = map[string]http.Handler{}
		r.routes[path] = methods

		dispatcher := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if h, ok := methods[strings.ToUpper(req.Method)]; ok {
				h.ServeHTTP(w, req)
				return
			}
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		})

		r.mux.Handle(path, r.Apply(dispatcher))
	}

	methods[strings.ToUpper(method)] = handler
}

// Handler registers a custom [Handler] implementation under all of its routes.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
