package forum

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-community/internal/middleware"
)

func render(t *testing.T) []byte {
	t.Helper()

	ctx := middleware.WithRequestInfo(context.Background(), middleware.RequestInfo{Path: Route})
	var buf bytes.Buffer
	require.NoError(t, Forum().Render(ctx, &buf))
	return buf.Bytes()
}

func parse(t *testing.T, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestLayoutIsConfiguredWithForumTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Forum", LayoutOptions().Title)

	doc := parse(t, render(t))
	require.Equal(t, LayoutOptions().Title+" | Hanko Community", doc.Find("head title").Text())
	require.Equal(t, "Forum | Hanko Community", doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
}

func TestRendersThreeSectionsInOrder(t *testing.T) {
	t.Parallel()

	doc := parse(t, render(t))
	container := doc.Find("main ." + Styles.Class("forumContainer"))
	require.Equal(t, 1, container.Length())

	blocks := container.Find("." + Styles.Class("forumSections") + " > ." + Styles.Class("section"))
	require.Equal(t, 3, blocks.Length())

	want := []Section{
		{"General Discussion", "Talk about any topic related to our project."},
		{"Feedback", "Share your thoughts and suggestions for improvement."},
		{"Support", "Get help with any issues or questions you may have."},
	}
	require.Equal(t, want, Sections())
	blocks.Each(func(i int, s *goquery.Selection) {
		require.Equal(t, 1, s.Find("h2").Length(), "section %d", i)
		require.Equal(t, 1, s.Find("p").Length(), "section %d", i)
		require.Equal(t, want[i].Title, s.Find("h2").Text())
		require.Equal(t, want[i].Description, s.Find("p").Text())
	})
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	first := render(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, string(first), string(render(t)))
	}
}

func TestWelcomeAndFeedbackSection(t *testing.T) {
	t.Parallel()

	doc := parse(t, render(t))
	require.Equal(t, "Welcome to the Forum", doc.Find("main h1").Text())
	require.Equal(t, Intro, doc.Find("main h1").Next().Text())

	second := doc.Find("main ." + Styles.Class("section")).Eq(1)
	require.Equal(t, "Feedback", second.Find("h2").Text())
	require.Equal(t, "Share your thoughts and suggestions for improvement.", second.Find("p").Text())
}

func TestStylesDeclareSemanticClasses(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"forumContainer", "forumSections", "section"}, Styles.Names())
	doc := parse(t, render(t))
	require.Equal(t, 1, doc.Find(`link[href="`+Styles.Href()+`"]`).Length())
}

func TestSectionsReturnsCopy(t *testing.T) {
	t.Parallel()

	s := Sections()
	s[0].Title = "changed"
	require.Equal(t, "General Discussion", Sections()[0].Title)
}

func TestPage(t *testing.T) {
	t.Parallel()

	p := Page()
	require.Equal(t, "/forum", p.Route)
	require.Equal(t, Title, p.Title)
	require.NotNil(t, p.Render)
}
