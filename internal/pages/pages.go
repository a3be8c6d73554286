// Package pages maps routes to page render entry points.
package pages

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"finitefield.org/hanko-community/internal/styles"
)

var (
	ErrDuplicateRoute = errors.New("pages: route already registered")
	ErrInvalidRoute   = errors.New("pages: invalid route")
)

// Page is a routable page. Render must be pure: the same request context
// always yields the same markup.
type Page struct {
	Route       string
	Title       string
	Render      func() templ.Component
	Stylesheets []*styles.Module
}

// Registry holds the site's pages keyed by route.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]Page
}

func NewRegistry() *Registry {
	return &Registry{pages: map[string]Page{}}
}

// Register adds p. Routes must be absolute, clean and unique.
func (r *Registry) Register(p Page) error {
	route, err := normalizeRoute(p.Route)
	if err != nil {
		return err
	}
	if p.Render == nil {
		return fmt.Errorf("pages: %s has no render function", route)
	}
	p.Route = route

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[route]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, route)
	}
	r.pages[route] = p
	return nil
}

// Lookup returns the page registered at route.
func (r *Registry) Lookup(route string) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[route]
	return p, ok
}

// Pages lists registered pages sorted by route.
func (r *Registry) Pages() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Page, 0, len(r.pages))
	for _, p := range r.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

// Stylesheets collects the CSS modules of every page, for the asset server.
func (r *Registry) Stylesheets() []*styles.Module {
	var out []*styles.Module
	for _, p := range r.Pages() {
		out = append(out, p.Stylesheets...)
	}
	return out
}

// Mount registers a GET handler per page on router.
func (r *Registry) Mount(router chi.Router) {
	for _, p := range r.Pages() {
		router.Get(p.Route, Handler(p))
	}
}

// Handler renders p with templ.
func Handler(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		templ.Handler(p.Render()).ServeHTTP(w, req)
	}
}

func normalizeRoute(route string) (string, error) {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") || strings.ContainsAny(route, "?#*{} ") || strings.Contains(route, "//") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoute, route)
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route, nil
}
