package styles

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `/* .ignored in comments */
.card { padding: 0.5rem; background: url(img/bg.png); }
.card > .title, .card:hover { color: red; }
@media (max-width: 996px) {
  .card { padding: .25rem; }
}
@import url("base.css");
`

func TestNewScopesClassSelectors(t *testing.T) {
	t.Parallel()

	m, err := New("sample", []byte(sample))
	require.NoError(t, err)

	require.Equal(t, []string{"card", "title"}, m.Names())
	require.Equal(t, "card_"+m.Hash(), m.Class("card"))
	require.Equal(t, "", m.Class("missing"))
	require.Len(t, m.Hash(), hashLen)

	css := string(m.CSS())
	require.Contains(t, css, ".card_"+m.Hash()+" > .title_"+m.Hash())
	require.Contains(t, css, "url(img/bg.png)", "declarations must stay untouched")
	require.Contains(t, css, "padding: .25rem", "values must stay untouched")
	require.Contains(t, css, "/* .ignored in comments */")
	require.Contains(t, css, "@media (max-width: 996px)")
	require.Contains(t, css, `@import url("base.css");`)
	require.NotContains(t, m.Classes(), "ignored")
}

func TestNewLeavesQuotedSelectorValuesAlone(t *testing.T) {
	t.Parallel()

	m, err := New("links", []byte(`.link a[href$=".pdf"] { color: red; }
.link[data-ext='.zip'], a.download::after { content: ".x"; }
#main.wide > .link { margin: 0; }`))
	require.NoError(t, err)

	require.Equal(t, []string{"download", "link", "wide"}, m.Names())
	css := string(m.CSS())
	require.Contains(t, css, `.link_`+m.Hash()+` a[href$=".pdf"]`)
	require.Contains(t, css, `.link_`+m.Hash()+`[data-ext='.zip'], a.download_`+m.Hash()+`::after`)
	require.Contains(t, css, `content: ".x";`)
	require.Contains(t, css, `#main.wide_`+m.Hash()+` > .link_`+m.Hash())
}

func TestNewRejectsUnterminatedInput(t *testing.T) {
	t.Parallel()

	_, err := New("broken", []byte(`.a[title="open] { color: red; }`))
	require.Error(t, err)

	_, err = New("broken", []byte(".a { color: red; } /* never closed"))
	require.Error(t, err)
}

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a := MustNew("sample", []byte(sample))
	b := MustNew("sample", []byte(sample))
	require.Equal(t, a.Classes(), b.Classes())
	require.Equal(t, a.Filename(), b.Filename())

	c := MustNew("sample", []byte(sample+"\n.extra{}"))
	require.NotEqual(t, a.Hash(), c.Hash())
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := New("plain", []byte("body { margin: 0; }"))
	require.ErrorIs(t, err, ErrNoClasses)

	_, err = New("../escape", []byte(".a{}"))
	require.Error(t, err)
}

func TestNilModuleLookup(t *testing.T) {
	t.Parallel()

	var m *Module
	require.Equal(t, "", m.Class("anything"))
}

func TestRegistryServesStylesheets(t *testing.T) {
	t.Parallel()

	m := MustNew("sample", []byte(sample))
	reg := NewRegistry()
	require.NoError(t, reg.Register(m, m))
	require.Error(t, reg.Register(MustNew("sample", []byte(".other{}"))))
	require.Len(t, reg.Modules(), 1)

	rec := httptest.NewRecorder()
	reg.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, m.Href(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(m.Href(), AssetPrefix))
	require.Equal(t, string(m.CSS()), rec.Body.String())

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	req := httptest.NewRequest(http.MethodGet, m.Href(), nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	reg.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	reg.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, AssetPrefix+"nope.css", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
