package server

import (
	"io"
	"net"
	"time"

	"github.com/dchest/uniuri"
	"github.com/pkg/errors"

	"github.com/Brownie44l1/minihttp/internal/request"
	"github.com/Brownie44l1/minihttp/internal/response"
)

const connIDLength = 12

// serveConn handles the single request a connection carries, then closes it.
func (s *Server) serveConn(conn net.Conn, handler Handler) {
	defer conn.Close()

	start := time.Now()
	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	connFields := []Field{
		String("conn_id", uniuri.NewLen(connIDLength)),
		String("remote", conn.RemoteAddr().String()),
	}

	if s.cfg.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	req, err := request.FromReader(conn, buf)

	var resp *response.Response
	var perr request.ParseError
	switch {
	case err == nil:
		resp = s.handleRequest(handler, req)
	case errors.As(err, &perr):
		s.metrics.RecordParseError(perr.Kind())
		s.logger.Debug("failed to parse a request", append(connFields, Err(err))...)
		resp = s.handleBadRequest(handler, perr)
	case errors.Is(err, io.EOF):
		s.logger.Debug("connection closed before sending a request", connFields...)
		return
	default:
		s.logger.Error("failed to read from connection",
			append(connFields, Err(errors.Wrap(err, "read request")))...)
		return
	}

	if s.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}

	if err := resp.Send(conn); err != nil {
		s.logger.Error("failed to send a response",
			append(connFields, Err(errors.Wrap(err, "send response")))...)
		return
	}

	s.metrics.RecordRequest(resp.StatusCode, time.Since(start))
}

// A handler that panics or returns no response gets a 500 in its place.
func (s *Server) handleRequest(handler Handler, req *request.Request) (resp *response.Response) {
	defer recoverInto(s.logger, &resp, String("path", req.Path()))

	if r := handler.HandleRequest(req); r != nil {
		return r
	}

	s.logger.Warn("handler returned no response", String("path", req.Path()))
	return internalServerError()
}

func (s *Server) handleBadRequest(handler Handler, err request.ParseError) (resp *response.Response) {
	defer recoverInto(s.logger, &resp, Err(err))

	if r := handler.HandleBadRequest(err); r != nil {
		return r
	}

	s.logger.Warn("bad request handler returned no response", Err(err))
	return internalServerError()
}
