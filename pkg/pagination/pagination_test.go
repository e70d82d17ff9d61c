package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := parseQuery(t, "")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParseClampsOutOfRange(t *testing.T) {
	p := parseQuery(t, "page=-3&limit=0")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = parseQuery(t, "limit=9999")
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestParseOffset(t *testing.T) {
	p := parseQuery(t, "page=3&limit=10")
	assert.Equal(t, 20, p.Offset)
}

func TestPages(t *testing.T) {
	p := Params{Page: 1, Limit: 20}
	assert.Equal(t, 0, p.Pages(0))
	assert.Equal(t, 1, p.Pages(20))
	assert.Equal(t, 2, p.Pages(21))
	assert.Equal(t, 5, p.Pages(100))
}
