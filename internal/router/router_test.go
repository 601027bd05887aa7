package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/minihttp/internal/method"
	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
	"github.com/Brownie44l1/minihttp/internal/server"
)

func parse(t *testing.T, line string) *request.Request {
	t.Helper()

	req, err := request.Parse([]byte(line))
	require.NoError(t, err)
	return req
}

func text(body string) HandlerFunc {
	return func(*request.Request) *response.Response {
		return response.Text(response.StatusOK, body)
	}
}

func newTestRouter() *Router {
	r := New()
	r.Log = server.NullLogger{}

	r.GET("/home", text("get home"))
	r.POST("/home", text("post home"))
	r.GET("/static/*", func(req *request.Request) *response.Response {
		return response.Text(response.StatusOK, "static "+req.Path())
	})
	r.PUT("/items", text("put"))
	r.DELETE("/items", text("delete"))
	r.PATCH("/items", text("patch"))
	r.Handle(method.OPTIONS, "*", text("options"))

	return r
}

func TestRouting(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		line string
		code response.StatusCode
		body string
	}{
		{"GET /home HTTP/1.1\r\n", response.StatusOK, "get home"},
		{"POST /home HTTP/1.1\r\n", response.StatusOK, "post home"},
		{"GET /home?x=1 HTTP/1.1\r\n", response.StatusOK, "get home"},
		{"GET /static/css/site.css HTTP/1.1\r\n", response.StatusOK, "static /static/css/site.css"},
		{"GET /static HTTP/1.1\r\n", response.StatusOK, "static /static"},
		{"GET /staticfile HTTP/1.1\r\n", response.StatusNotFound, ""},
		{"PUT /items HTTP/1.1\r\n", response.StatusOK, "put"},
		{"DELETE /items HTTP/1.1\r\n", response.StatusOK, "delete"},
		{"PATCH /items HTTP/1.1\r\n", response.StatusOK, "patch"},
		{"OPTIONS * HTTP/1.1\r\n", response.StatusOK, "options"},
		{"DELETE /home HTTP/1.1\r\n", response.StatusNotFound, ""},
		{"GET /missing HTTP/1.1\r\n", response.StatusNotFound, ""},
	}

	for _, tt := range tests {
		resp := r.HandleRequest(parse(t, tt.line))
		require.NotNil(t, resp, tt.line)
		assert.Equal(t, tt.code, resp.StatusCode, tt.line)
		assert.Equal(t, tt.body, string(resp.Body), tt.line)
	}
}

func TestFirstMatchWins(t *testing.T) {
	r := New()
	r.GET("/a/*", text("wildcard"))
	r.GET("/a/b", text("exact"))

	resp := r.HandleRequest(parse(t, "GET /a/b HTTP/1.1\r\n"))
	assert.Equal(t, "wildcard", string(resp.Body))
}

func TestCustomNotFound(t *testing.T) {
	r := newTestRouter()
	r.NotFound = func(req *request.Request) *response.Response {
		return response.Text(response.StatusNotFound, "no route for "+req.Path())
	}

	resp := r.HandleRequest(parse(t, "GET /nowhere HTTP/1.1\r\n"))
	assert.Equal(t, response.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "no route for /nowhere", string(resp.Body))
}

func TestBadRequest(t *testing.T) {
	r := newTestRouter()

	resp := r.HandleBadRequest(request.ErrInvalidMethod)
	assert.Equal(t, response.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, resp.Body)

	r.BadRequest = func(err request.ParseError) *response.Response {
		return response.Text(response.StatusBadRequest, err.Error())
	}
	resp = r.HandleBadRequest(request.ErrInvalidMethod)
	assert.Equal(t, "Invalid Method", string(resp.Body))
}

func TestRouterIsHandler(t *testing.T) {
	var _ server.Handler = New()
}
