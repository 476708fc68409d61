package pages_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"

	"github.com/patrickward/codepane/internal/assert"
	"github.com/patrickward/codepane/internal/pages"
)

func TestNotFound_RendersCard(t *testing.T) {
	t.Parallel()

	html, err := templ.ToGoHTML(context.Background(), pages.NotFound())
	assert.Nil(t, err)
	assert.Contains(t, string(html), "<h1>404 Page Not Found</h1>")
	assert.Contains(t, string(html), "Did you forget to add the page to the router?")
	assert.Contains(t, string(html), `class="icon icon-alert"`)
}

func TestNotFound_AlwaysTheSame(t *testing.T) {
	t.Parallel()

	first, err := templ.ToGoHTML(context.Background(), pages.NotFound())
	assert.Nil(t, err)
	second, err := templ.ToGoHTML(context.Background(), pages.NotFound())
	assert.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestNotFound_Handler(t *testing.T) {
	t.Parallel()

	handler := templ.Handler(pages.NotFound(), templ.WithStatus(http.StatusNotFound))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, rec.Code, http.StatusNotFound)
	assert.Contains(t, rec.Body.String(), "404 Page Not Found")
}
