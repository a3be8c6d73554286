package middleware

import (
	"context"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyLang        ctxKey = "lang"
	ctxKeyRequestInfo ctxKey = "request_info"
)

// WithLang stores the resolved page language.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKeyLang, lang)
}

// LangFromContext returns the resolved language or "" when Locale did not run.
func LangFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyLang).(string)
	return v
}
