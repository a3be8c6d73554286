package middleware

import (
	"net/http"
	"strings"
	"time"

	"finitefield.org/hanko-community/internal/i18n"
)

const localeCookieName = "hl"

// Locale resolves the preferred language and stores it in the request context.
// Precedence: ?hl= query (persisted to the `hl` cookie), the `hl` cookie, then
// Accept-Language. Unsupported values are ignored. secure marks the cookie
// HTTPS-only.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("hl"))); q != "" && bundle.IsSupported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     localeCookieName,
					Value:    q,
					Path:     "/",
					Secure:   secure,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(365 * 24 * time.Hour),
				})
			}
			if lang == "" {
				if c, err := r.Cookie(localeCookieName); err == nil {
					if v := strings.ToLower(c.Value); bundle.IsSupported(v) {
						lang = v
					}
				}
			}
			if lang == "" {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

// Lang returns the language resolved for r, or "en" when Locale did not run.
func Lang(r *http.Request) string {
	if v := LangFromContext(r.Context()); v != "" {
		return v
	}
	return "en"
}
