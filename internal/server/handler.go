package server

import (
	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

// Handler turns the outcome of parsing a request line into a response. It is
// the only thing the server knows about the application.
type Handler interface {
	// HandleRequest answers a request that parsed successfully.
	HandleRequest(req *request.Request) *response.Response
	// HandleBadRequest answers a connection whose bytes didn't parse.
	HandleBadRequest(err request.ParseError) *response.Response
}

const placeholderBody = "<h1>IT WORKS</h1>"

// DefaultHandler provides the default behaviour for both Handler methods.
// Embed it and override whichever method the application cares about.
type DefaultHandler struct {
	// Log receives bad request reports. The package-wide default logger is
	// used when it's nil.
	Log Logger
}

func (h DefaultHandler) HandleRequest(*request.Request) *response.Response {
	return response.Text(response.StatusOK, placeholderBody)
}

func (h DefaultHandler) HandleBadRequest(err request.ParseError) *response.Response {
	h.logger().Error("failed to parse a request", Err(err))
	return response.Empty(response.StatusBadRequest)
}

func (h DefaultHandler) logger() Logger {
	if h.Log != nil {
		return h.Log
	}

	return defaultLogger()
}

// HandlerFuncs adapts plain functions to Handler. A nil func falls back to
// DefaultHandler.
type HandlerFuncs struct {
	DefaultHandler

	Request    func(req *request.Request) *response.Response
	BadRequest func(err request.ParseError) *response.Response
}

func (h HandlerFuncs) HandleRequest(req *request.Request) *response.Response {
	if h.Request == nil {
		return h.DefaultHandler.HandleRequest(req)
	}

	return h.Request(req)
}

func (h HandlerFuncs) HandleBadRequest(err request.ParseError) *response.Response {
	if h.BadRequest == nil {
		return h.DefaultHandler.HandleBadRequest(err)
	}

	return h.BadRequest(err)
}
