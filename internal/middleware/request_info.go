package middleware

import (
	"context"
	"net/http"
)

// RequestInfo holds lightweight request metadata exposed to the layout.
type RequestInfo struct {
	Path   string
	Method string
}

// RequestInfoMiddleware annotates the context with the current request path.
func RequestInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestInfo(r.Context(), RequestInfo{Path: r.URL.Path, Method: r.Method})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithRequestInfo stores request metadata, mainly for rendering outside a
// live request (tests, the render command).
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKeyRequestInfo, &info)
}

// RequestInfoFromContext returns the request metadata stored by RequestInfoMiddleware.
func RequestInfoFromContext(ctx context.Context) (*RequestInfo, bool) {
	info, ok := ctx.Value(ctxKeyRequestInfo).(*RequestInfo)
	return info, ok && info != nil
}

// RequestPathFromContext returns the request path or empty string when unavailable.
func RequestPathFromContext(ctx context.Context) string {
	if info, ok := RequestInfoFromContext(ctx); ok {
		return info.Path
	}
	return ""
}
