package theme

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-community/internal/middleware"
	"finitefield.org/hanko-community/internal/site"
	"finitefield.org/hanko-community/internal/styles"
)

func textComponent(value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p id=\"child\">"+templ.EscapeString(value)+"</p>")
		return err
	})
}

func renderLayout(t *testing.T, ctx context.Context, opts LayoutOptions, child templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	err := Layout(opts).Render(templ.WithChildren(ctx, child), &buf)
	require.NoError(t, err)
	return parseHTML(t, buf.Bytes())
}

func parseHTML(t *testing.T, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	ctx := middleware.WithRequestInfo(context.Background(), middleware.RequestInfo{Path: "/forum"})
	doc := renderLayout(t, ctx, LayoutOptions{Title: "Forum"}, textComponent("hello <world>"))

	require.Equal(t, "Forum | Hanko Community", doc.Find("head title").Text())
	_, marked := doc.Find("body").Attr("data-layout-title")
	require.False(t, marked)
	require.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "hello <world>", doc.Find("main#main > p#child").Text())
	require.Equal(t, "https://community.hanko-field.app/forum", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	require.Equal(t, Styles.Href(), doc.Find(`link[rel="stylesheet"]`).First().AttrOr("href", ""))
	require.Equal(t, 3, doc.Find(`script[type="application/ld+json"]`).Length())
}

func TestLayoutHighlightsActiveNavItem(t *testing.T) {
	t.Parallel()

	ctx := middleware.WithRequestInfo(context.Background(), middleware.RequestInfo{Path: "/forum"})
	doc := renderLayout(t, ctx, LayoutOptions{Title: "Forum"}, templ.NopComponent)

	active := doc.Find(`nav a[aria-current="page"]`)
	require.Equal(t, 1, active.Length())
	require.Equal(t, "/forum", active.AttrOr("href", ""))
	require.Equal(t, "Forum", active.Text())
	require.Contains(t, active.AttrOr("class", ""), Styles.Class("navLinkActive"))

	ext := doc.Find(`nav a[href^="https://"]`)
	require.Equal(t, 1, ext.Length())
	require.Equal(t, 0, ext.Filter("[aria-current]").Length())
	require.Equal(t, "noopener noreferrer", ext.AttrOr("rel", ""))
}

func TestLayoutTranslatesChrome(t *testing.T) {
	t.Parallel()

	ctx := middleware.WithLang(context.Background(), "ja")
	doc := renderLayout(t, ctx, LayoutOptions{Title: "Forum"}, templ.NopComponent)

	require.Equal(t, "ja", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "フォーラム", doc.Find(`nav a[href="/forum"]`).Text())
	require.Contains(t, doc.Find("footer").Text(), "コミュニティ")
}

func TestLayoutAnnouncementAndFooter(t *testing.T) {
	t.Parallel()

	doc := renderLayout(t, context.Background(), LayoutOptions{}, templ.NopComponent)

	require.Equal(t, "Hanko Community", doc.Find("head title").Text())
	bar := doc.Find(`div[role="banner"]`)
	require.Equal(t, 1, bar.Length())
	require.Equal(t, "forum-launch", bar.AttrOr("data-announcement-id", ""))
	require.Equal(t, "forum", bar.Find("strong").Text())

	ext := doc.Find(`footer a[href^="https://"]`)
	require.Equal(t, 1, ext.Length())
	require.Equal(t, "_blank", ext.AttrOr("target", ""))
	require.Equal(t, "Go", doc.Find("footer em").Text())

	noFooter := renderLayout(t, context.Background(), LayoutOptions{NoFooter: true}, templ.NopComponent)
	require.Equal(t, 0, noFooter.Find("footer").Length())
}

func TestLayoutUsesThemeFromContext(t *testing.T) {
	t.Parallel()

	cfg, err := site.Parse([]byte("title: Other Site\n"))
	require.NoError(t, err)
	th, err := New(cfg, Default().I18n)
	require.NoError(t, err)

	page := styles.MustNew("page", []byte(".box{}"))
	doc := renderLayout(t, WithTheme(context.Background(), th), LayoutOptions{Title: "Forum", Stylesheets: []*styles.Module{page}}, templ.NopComponent)
	require.Equal(t, "Forum | Other Site", doc.Find("head title").Text())
	require.Equal(t, 0, doc.Find(`div[role="banner"]`).Length())
	require.Equal(t, 1, doc.Find(`link[href="`+page.Href()+`"]`).Length())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestLayoutPropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	err := Layout(LayoutOptions{Title: "Forum"}).Render(context.Background(), failingWriter{})
	require.EqualError(t, err, "closed")
}

func TestNotFoundHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NotFoundHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Page Not Found", doc.Find("main h1").Text())
	require.Equal(t, "Page Not Found | Hanko Community", doc.Find("head title").Text())
	require.Equal(t, "noindex", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
}

func TestLayoutWritesShareCards(t *testing.T) {
	t.Parallel()

	doc := renderLayout(t, context.Background(), LayoutOptions{Title: "Forum"}, templ.NopComponent)

	logo := "https://community.hanko-field.app" + LogoHref
	require.Equal(t, "index, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
	require.Equal(t, logo, doc.Find(`meta[property="og:image"]`).AttrOr("content", ""))
	require.Equal(t, "summary", doc.Find(`meta[name="twitter:card"]`).AttrOr("content", ""))
	require.Equal(t, logo, doc.Find(`meta[name="twitter:image"]`).AttrOr("content", ""))
	require.Equal(t, "Hanko Community", doc.Find(`meta[property="og:site_name"]`).AttrOr("content", ""))
}

func TestNewRequiresBundle(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil)
	require.Error(t, err)
}

func TestLayoutAnalytics(t *testing.T) {
	t.Parallel()

	th, err := New(nil, Default().I18n)
	require.NoError(t, err)
	th.Analytics = Analytics{GA4MeasurementID: "G-ABC123", GTMContainerID: "GTM-XYZ9"}
	require.True(t, th.Analytics.Enabled())

	doc := renderLayout(t, WithTheme(context.Background(), th), LayoutOptions{Title: "Forum"}, templ.NopComponent)
	require.Equal(t, 1, doc.Find(`script[src="https://www.googletagmanager.com/gtag/js?id=G-ABC123"]`).Length())
	require.Contains(t, doc.Find("head").Text(), "GTM-XYZ9")

	bad := Analytics{GA4MeasurementID: "G-1');alert(1);//"}
	require.False(t, bad.Enabled())
	th.Analytics = bad
	doc = renderLayout(t, WithTheme(context.Background(), th), LayoutOptions{Title: "Forum"}, templ.NopComponent)
	require.Equal(t, 0, doc.Find(`script[src^="https://www.googletagmanager.com"]`).Length())
}
