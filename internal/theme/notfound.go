package theme

import (
	"net/http"

	"github.com/a-h/templ"
)

// NotFoundHandler serves NotFound with a 404 status.
func NotFoundHandler() http.Handler {
	return templ.Handler(NotFound(), templ.WithStatus(http.StatusNotFound))
}
