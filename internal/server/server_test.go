package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"finitefield.org/hanko-community/internal/pages"
	"finitefield.org/hanko-community/internal/pages/forum"
	"finitefield.org/hanko-community/internal/theme"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	srv, err := New(Config{Addr: "127.0.0.1:0", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parseHTML(t *testing.T, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestHealthzOK(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestForumPageEndToEnd(t *testing.T) {
	rec := get(t, newTestServer(t), "/forum", "Accept-Language", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
	require.Equal(t, "en", rec.Header().Get("Content-Language"))

	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, forum.LayoutOptions().Title+" | Hanko Community", doc.Find("head title").Text())
	require.Equal(t, "Welcome to the Forum", doc.Find("main h1").Text())

	sections := doc.Find("main ." + forum.Styles.Class("section"))
	require.Equal(t, 3, sections.Length())
	require.Equal(t, "Feedback", sections.Eq(1).Find("h2").Text())
	require.Equal(t, "Share your thoughts and suggestions for improvement.", sections.Eq(1).Find("p").Text())
	require.Equal(t, "/forum", doc.Find(`nav a[aria-current="page"]`).AttrOr("href", ""))
}

func TestForumPageLocalizedChrome(t *testing.T) {
	rec := get(t, newTestServer(t), "/forum?hl=ja")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, "ja", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "フォーラム", doc.Find(`nav a[href="/forum"]`).Text())
	require.Equal(t, "Welcome to the Forum", doc.Find("main h1").Text(), "page copy is fixed")
}

func TestChromeLinksResolve(t *testing.T) {
	h := newTestServer(t)
	doc := parseHTML(t, get(t, h, "/forum").Body.Bytes())

	links := doc.Find(`nav a[href^="/"], footer a[href^="/"]`)
	require.Positive(t, links.Length())
	links.Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		rec := get(t, h, href)
		require.Contains(t, []int{http.StatusOK, http.StatusFound}, rec.Code, href)
		if rec.Code == http.StatusFound {
			require.Equal(t, http.StatusOK, get(t, h, rec.Header().Get("Location")).Code, href)
		}
	})
}

func TestRootRedirectsToForum(t *testing.T) {
	rec := get(t, newTestServer(t), "/")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/forum", rec.Header().Get("Location"))
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	rec := get(t, newTestServer(t), "/forum/threads/42")
	require.Equal(t, http.StatusNotFound, rec.Code)

	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Page Not Found", doc.Find("main h1").Text())
	require.Equal(t, "/forum", doc.Find(`nav a[aria-current="page"]`).AttrOr("href", ""))
}

func TestStylesheetsAreServed(t *testing.T) {
	h := newTestServer(t)

	for _, href := range []string{forum.Styles.Href(), theme.Styles.Href()} {
		rec := get(t, h, href)
		require.Equal(t, http.StatusOK, rec.Code, href)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/css")
		require.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	}
	rec := get(t, h, forum.Styles.Href())
	require.Contains(t, rec.Body.String(), "."+forum.Styles.Class("forumContainer"))

	rec = get(t, h, theme.LogoHref)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rec = get(t, h, theme.LogoHref, "If-None-Match", etag)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestNewToleratesRepeatedStylesheets(t *testing.T) {
	reg := pages.NewRegistry()
	p := forum.Page()
	p.Stylesheets = append(p.Stylesheets, theme.Styles, nil)
	require.NoError(t, reg.Register(p))

	_, err := New(Config{Pages: reg})
	require.NoError(t, err, "registering the same module twice is allowed")
}

func TestH2CWrapsHandler(t *testing.T) {
	srv, err := New(Config{H2C: true})
	require.NoError(t, err)

	rec := get(t, srv.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv, err := New(Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
