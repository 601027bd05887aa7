package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

func newObservedLogger(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapLogger(zap.New(core)), logs
}

func mustParse(t *testing.T, line string) *request.Request {
	t.Helper()

	req, err := request.Parse([]byte(line))
	require.NoError(t, err)
	return req
}

func TestDefaultHandleRequest(t *testing.T) {
	h := DefaultHandler{Log: NullLogger{}}

	resp := h.HandleRequest(mustParse(t, "GET / HTTP/1.1\r\n"))
	require.NotNil(t, resp)
	assert.Equal(t, response.StatusOK, resp.StatusCode)
	assert.Equal(t, placeholderBody, string(resp.Body))
}

func TestDefaultHandleBadRequest(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)
	h := DefaultHandler{Log: log}

	resp := h.HandleBadRequest(request.ErrInvalidMethod)
	require.NotNil(t, resp)
	assert.Equal(t, response.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, resp.Body)

	entries := logs.FilterMessage("failed to parse a request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Invalid Method", entries[0].ContextMap()["error"])
}

func TestDefaultHandlerWithoutLogger(t *testing.T) {
	resp := DefaultHandler{}.HandleBadRequest(request.ErrInvalidRequest)
	assert.Equal(t, response.StatusBadRequest, resp.StatusCode)
}

type notFoundHandler struct {
	DefaultHandler
}

func (notFoundHandler) HandleRequest(*request.Request) *response.Response {
	return response.Empty(response.StatusNotFound)
}

func TestEmbeddedDefaultsCanBeOverridden(t *testing.T) {
	var h Handler = notFoundHandler{DefaultHandler{Log: NullLogger{}}}

	resp := h.HandleRequest(mustParse(t, "GET /missing HTTP/1.1\r\n"))
	assert.Equal(t, response.StatusNotFound, resp.StatusCode)

	resp = h.HandleBadRequest(request.ErrInvalidProtocol)
	assert.Equal(t, response.StatusBadRequest, resp.StatusCode)
}

func TestHandlerFuncs(t *testing.T) {
	h := HandlerFuncs{
		DefaultHandler: DefaultHandler{Log: NullLogger{}},
		Request: func(req *request.Request) *response.Response {
			return response.Text(response.StatusOK, req.Path())
		},
	}

	resp := h.HandleRequest(mustParse(t, "GET /echo HTTP/1.1\r\n"))
	assert.Equal(t, "/echo", string(resp.Body))

	resp = h.HandleBadRequest(request.ErrInvalidEncoding)
	assert.Equal(t, response.StatusBadRequest, resp.StatusCode)

	h.BadRequest = func(request.ParseError) *response.Response {
		return response.Empty(response.StatusInternalServerError)
	}
	resp = h.HandleBadRequest(request.ErrInvalidEncoding)
	assert.Equal(t, response.StatusInternalServerError, resp.StatusCode)
}

func TestHandlingDoesNotMutateRequest(t *testing.T) {
	req := mustParse(t, "GET /search?a=1&a=2 HTTP/1.1\r\n")
	before := req.String()
	queryBefore := req.Query().Map()

	resp := HandlerFuncs{Request: func(r *request.Request) *response.Response {
		v, _ := r.Query().Get("a")
		vals := v.Strings()
		vals[0] = "mutated"
		return response.Text(response.StatusOK, r.Path())
	}}.HandleRequest(req)
	require.NoError(t, resp.Send(&discard{}))

	assert.Equal(t, before, req.String())
	assert.Equal(t, queryBefore, req.Query().Map())
}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}
