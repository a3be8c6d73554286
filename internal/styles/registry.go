package styles

import (
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
)

// AssetPrefix is the URL path stylesheets are served under.
const AssetPrefix = "/assets/css/"

// Registry serves the stylesheets of every registered module.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Module
	byFile map[string]*Module
}

func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]*Module{},
		byFile: map[string]*Module{},
	}
}

// Register adds modules. Registering the same module twice is a no-op; a
// different stylesheet under an existing name is an error.
func (r *Registry) Register(mods ...*Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range mods {
		if m == nil {
			continue
		}
		if prev, ok := r.byName[m.name]; ok {
			if prev.hash != m.hash {
				return fmt.Errorf("styles: module %q registered twice with different content", m.name)
			}
			continue
		}
		r.byName[m.name] = m
		r.byFile[m.Filename()] = m
	}
	return nil
}

// Lookup finds a module by the file name it is served under.
func (r *Registry) Lookup(filename string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byFile[filename]
	return m, ok
}

// Modules returns the registered modules sorted by name.
func (r *Registry) Modules() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Module, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ServeHTTP serves a stylesheet by its base name. File names carry the
// content hash, so responses are cacheable forever.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m, ok := r.Lookup(path.Base(req.URL.Path))
	if !ok {
		http.NotFound(w, req)
		return
	}
	etag := `"` + m.hash + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Vary", "Accept-Encoding")
	if inm := req.Header.Get("If-None-Match"); inm != "" && strings.Contains(inm, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(m.css)
}
