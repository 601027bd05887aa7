package server

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

// Middleware wraps a Handler with extra behaviour.
type Middleware func(next Handler) Handler

// Chain wraps h so that the first middleware is the outermost one.
func Chain(h Handler, middleware ...Middleware) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}

	return h
}

// LoggingMiddleware logs all requests
func LoggingMiddleware(logger Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFuncs{
			Request: func(req *request.Request) *response.Response {
				start := time.Now()
				resp := next.HandleRequest(req)

				fields := []Field{
					String("method", req.Method().String()),
					String("path", req.Path()),
					Any("duration_ms", time.Since(start).Milliseconds()),
				}
				if resp != nil {
					fields = append(fields, Any("status", int(resp.StatusCode)))
				}
				logger.Info("request handled", fields...)

				return resp
			},
			BadRequest: func(err request.ParseError) *response.Response {
				resp := next.HandleBadRequest(err)

				fields := []Field{Err(err)}
				if resp != nil {
					fields = append(fields, Any("status", int(resp.StatusCode)))
				}
				logger.Info("bad request handled", fields...)

				return resp
			},
		}
	}
}

// RecoveryMiddleware turns a panicking handler into a 500 response.
func RecoveryMiddleware(logger Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFuncs{
			Request: func(req *request.Request) (resp *response.Response) {
				defer recoverInto(logger, &resp, String("path", req.Path()))
				return next.HandleRequest(req)
			},
			BadRequest: func(err request.ParseError) (resp *response.Response) {
				defer recoverInto(logger, &resp, Err(err))
				return next.HandleBadRequest(err)
			},
		}
	}
}

func recoverInto(logger Logger, resp **response.Response, fields ...Field) {
	r := recover()
	if r == nil {
		return
	}

	fields = append(fields,
		Any("panic", fmt.Sprint(r)),
		String("stack", string(debug.Stack())),
	)
	logger.Error("panic recovered", fields...)

	*resp = internalServerError()
}

func internalServerError() *response.Response {
	return response.Text(response.StatusInternalServerError, response.StatusInternalServerError.ReasonPhrase())
}
