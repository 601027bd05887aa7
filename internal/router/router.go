package router

import (
	"strings"

	"github.com/Brownie44l1/minihttp/internal/method"
	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
	"github.com/Brownie44l1/minihttp/internal/server"
)

// HandlerFunc answers a request matched by a route
type HandlerFunc func(req *request.Request) *response.Response

// Route represents a single route
type Route struct {
	Method  method.Method
	Path    string
	Handler HandlerFunc
}

// Router dispatches parsed requests by method and path. Paths match exactly,
// except patterns ending in "/*" which match everything under their prefix.
// Router satisfies server.Handler; bad requests go to the embedded
// DefaultHandler unless BadRequest is set.
type Router struct {
	server.DefaultHandler

	routes []*Route

	// NotFound answers requests no route matched. A bare 404 is sent when nil.
	NotFound HandlerFunc
	// BadRequest replaces the default bad request behaviour when set.
	BadRequest func(err request.ParseError) *response.Response
}

// New creates a new router
func New() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

// Handle registers a new route
func (r *Router) Handle(m method.Method, path string, handler HandlerFunc) {
	r.routes = append(r.routes, &Route{
		Method:  m,
		Path:    path,
		Handler: handler,
	})
}

// GET is a shortcut for Handle(method.GET, ...)
func (r *Router) GET(path string, handler HandlerFunc) {
	r.Handle(method.GET, path, handler)
}

// POST is a shortcut for Handle(method.POST, ...)
func (r *Router) POST(path string, handler HandlerFunc) {
	r.Handle(method.POST, path, handler)
}

// PUT is a shortcut for Handle(method.PUT, ...)
func (r *Router) PUT(path string, handler HandlerFunc) {
	r.Handle(method.PUT, path, handler)
}

// DELETE is a shortcut for Handle(method.DELETE, ...)
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.Handle(method.DELETE, path, handler)
}

// PATCH is a shortcut for Handle(method.PATCH, ...)
func (r *Router) PATCH(path string, handler HandlerFunc) {
	r.Handle(method.PATCH, path, handler)
}

// Match finds the first route registered for the method whose pattern
// matches path.
func (r *Router) Match(m method.Method, path string) (*Route, bool) {
	for _, route := range r.routes {
		if route.Method != m {
			continue
		}

		if matchPath(route.Path, path) {
			return route, true
		}
	}

	return nil, false
}

// HandleRequest implements server.Handler
func (r *Router) HandleRequest(req *request.Request) *response.Response {
	route, found := r.Match(req.Method(), req.Path())
	if !found {
		if r.NotFound != nil {
			return r.NotFound(req)
		}

		return response.Empty(response.StatusNotFound)
	}

	return route.Handler(req)
}

// HandleBadRequest implements server.Handler
func (r *Router) HandleBadRequest(err request.ParseError) *response.Response {
	if r.BadRequest != nil {
		return r.BadRequest(err)
	}

	return r.DefaultHandler.HandleBadRequest(err)
}

// matchPath checks if a request path matches a route pattern
func matchPath(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}

	return pattern == path
}
