package pages

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"finitefield.org/hanko-community/internal/styles"
)

func staticPage(route, body string) Page {
	return Page{
		Route: route,
		Title: body,
		Render: func() templ.Component {
			return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
				_, err := io.WriteString(w, body)
				return err
			})
		},
	}
}

func TestRegisterValidatesRoutes(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(staticPage("/forum/", "forum")))
	_, ok := reg.Lookup("/forum")
	require.True(t, ok, "trailing slash is trimmed")

	require.ErrorIs(t, reg.Register(staticPage("/forum", "again")), ErrDuplicateRoute)
	for _, bad := range []string{"", "forum", "/a//b", "/x?y", "/{id}"} {
		require.ErrorIs(t, reg.Register(staticPage(bad, "bad")), ErrInvalidRoute, bad)
	}
	require.Error(t, reg.Register(Page{Route: "/nil"}))
}

func TestPagesAreSortedAndMounted(t *testing.T) {
	t.Parallel()

	css := styles.MustNew("docs", []byte(".doc{}"))
	reg := NewRegistry()
	require.NoError(t, reg.Register(staticPage("/forum", "forum")))
	docs := staticPage("/docs", "docs")
	docs.Stylesheets = []*styles.Module{css}
	require.NoError(t, reg.Register(docs))

	list := reg.Pages()
	require.Len(t, list, 2)
	require.Equal(t, "/docs", list[0].Route)
	require.Equal(t, []*styles.Module{css}, reg.Stylesheets())

	r := chi.NewRouter()
	reg.Mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forum", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "forum", rec.Body.String())
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
