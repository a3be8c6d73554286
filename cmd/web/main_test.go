package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HANKO_WEB_CONFIG_PATH", t.TempDir())
	t.Setenv("HANKO_WEB_LOG_LEVEL", "error")
	t.Chdir(t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderForum(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "render", "/forum")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.Equal(t, "Forum | Hanko Community", doc.Find("head title").Text())
	require.Equal(t, "Welcome to the Forum", doc.Find("main h1").Text())
	require.Equal(t, 3, doc.Find("main h2").Length())
}

func TestRenderDefaultsToForum(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "render")
	require.NoError(t, err)
	require.Contains(t, out, "Welcome to the Forum")
}

func TestRenderUsesSiteConfigFlag(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Staging Community\n"), 0o600))

	out, err := execute(t, "render", "--site-config", path, "/forum")
	require.NoError(t, err)
	require.Contains(t, out, "<title>Forum | Staging Community</title>")
}

func TestRenderFailsForUnknownRoute(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "render", "/nowhere")
	require.ErrorContains(t, err, "status 404")
}

func TestBadSiteConfigFails(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tagline: no title\n"), 0o600))

	_, err := execute(t, "render", "--site-config", path)
	require.Error(t, err)
}

func TestProdEnvSecuresLocaleCookie(t *testing.T) {
	for env, secure := range map[string]bool{"prod": true, "dev": false} {
		t.Run(env, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv("HANKO_WEB_ENV", env)

			cmd := newRootCmd()
			require.NoError(t, cmd.ParseFlags(nil))
			a, err := build(cmd)
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			a.srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forum?hl=ja", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			require.Equal(t, secure, cookies[0].Secure)
		})
	}
}
