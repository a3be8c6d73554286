// Package theme provides the page chrome shared by every page: the document
// head, navbar, announcement bar and footer.
package theme

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"finitefield.org/hanko-community/internal/i18n"
	"finitefield.org/hanko-community/internal/middleware"
	"finitefield.org/hanko-community/internal/site"
	"finitefield.org/hanko-community/internal/styles"
	"finitefield.org/hanko-community/locales"
)

//go:embed theme.module.css
var themeCSS []byte

//go:embed static
var static embed.FS

// Styles is the theme's own stylesheet module.
var Styles = styles.MustNew("theme", themeCSS)

// StaticFS returns the theme's static files (logo, icons) rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}

// LogoHref is the URL of the brand logo, relative to the static mount.
const LogoHref = "/assets/static/img/logo.svg"

// Theme bundles what the layout needs besides the page itself.
type Theme struct {
	Site      *site.Config
	I18n      *i18n.Bundle
	Analytics Analytics
}

// New builds a theme. A nil site config falls back to site.Default().
func New(cfg *site.Config, bundle *i18n.Bundle) (*Theme, error) {
	if bundle == nil {
		return nil, fmt.Errorf("theme: i18n bundle is required")
	}
	if cfg == nil {
		cfg = site.Default()
	}
	return &Theme{Site: cfg, I18n: bundle}, nil
}

var defaultTheme = sync.OnceValue(func() *Theme {
	bundle, err := i18n.LoadFS(locales.FS, "en", []string{"en", "ja"})
	if err != nil {
		panic(fmt.Sprintf("theme: embedded locales: %v", err))
	}
	return &Theme{Site: site.Default(), I18n: bundle}
})

// Default returns the theme built from the embedded site config and locales.
func Default() *Theme { return defaultTheme() }

type ctxKey struct{}

// WithTheme stores t in ctx for Layout to pick up.
func WithTheme(ctx context.Context, t *Theme) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the theme stored by WithTheme, or Default().
func FromContext(ctx context.Context) *Theme {
	if t, ok := ctx.Value(ctxKey{}).(*Theme); ok && t != nil {
		return t
	}
	return Default()
}

// Middleware injects t into every request context.
func Middleware(t *Theme) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithTheme(r.Context(), t)))
		})
	}
}

// T translates key in the language resolved for ctx.
func (t *Theme) T(ctx context.Context, key string) string {
	return t.I18n.T(t.Lang(ctx), key)
}

// Lang is the request language, or the bundle fallback outside a request.
func (t *Theme) Lang(ctx context.Context) string {
	if lang := middleware.LangFromContext(ctx); lang != "" {
		return lang
	}
	return t.I18n.Fallback()
}
