package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFuncs{Request: func(req *request.Request) *response.Response {
				order = append(order, name)
				return next.HandleRequest(req)
			}}
		}
	}

	h := Chain(DefaultHandler{Log: NullLogger{}}, tag("first"), tag("second"))
	h.HandleRequest(mustParse(t, "GET / HTTP/1.1\r\n"))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestLoggingMiddleware(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)
	h := Chain(DefaultHandler{Log: NullLogger{}}, LoggingMiddleware(log))

	resp := h.HandleRequest(mustParse(t, "POST /items HTTP/1.1\r\n"))
	assert.Equal(t, response.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("request handled").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "POST", ctx["method"])
	assert.Equal(t, "/items", ctx["path"])
	assert.EqualValues(t, 200, ctx["status"])

	resp = h.HandleBadRequest(request.ErrInvalidProtocol)
	assert.Equal(t, response.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, logs.FilterMessage("bad request handled").Len())
}

func TestRecoveryMiddleware(t *testing.T) {
	log, logs := newObservedLogger(zapcore.ErrorLevel)
	panicking := HandlerFuncs{
		Request: func(*request.Request) *response.Response {
			panic("boom")
		},
		BadRequest: func(request.ParseError) *response.Response {
			panic("boom")
		},
	}

	h := Chain(panicking, RecoveryMiddleware(log))

	resp := h.HandleRequest(mustParse(t, "GET /panic HTTP/1.1\r\n"))
	require.NotNil(t, resp)
	assert.Equal(t, response.StatusInternalServerError, resp.StatusCode)

	resp = h.HandleBadRequest(request.ErrInvalidRequest)
	require.NotNil(t, resp)
	assert.Equal(t, response.StatusInternalServerError, resp.StatusCode)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
	assert.Equal(t, "/panic", entries[0].ContextMap()["path"])
}
