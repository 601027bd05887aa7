package request

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/uf"

	"github.com/Brownie44l1/minihttp/internal/method"
	"github.com/Brownie44l1/minihttp/internal/query"
)

// Request is a parsed request line. It is never modified after Parse and
// holds its own copies of every string, so the buffer it was parsed from may
// be reused right away.
type Request struct {
	method   method.Method
	path     string
	rawQuery string
	hasQuery bool
	query    query.QueryString
}

// Parse reads the request line out of data. Only the request line is
// inspected; anything following its CRLF is ignored. data must hold just the
// bytes that were actually read, not the whole capacity of a read buffer.
//
// GET /search?name=abc&sort=1 HTTP/1.1
func Parse(data []byte) (*Request, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	// data is only borrowed for the duration of the call; everything
	// stored in the Request is cloned below.
	line := uf.B2S(data)

	methodToken, line, ok := nextWord(line)
	if !ok {
		return nil, ErrInvalidRequest
	}

	target, line, ok := nextWord(line)
	if !ok {
		return nil, ErrInvalidRequest
	}

	protocol, _, ok := nextWord(line)
	if !ok {
		return nil, ErrInvalidRequest
	}

	if protocol != protocolHTTP11 {
		return nil, ErrInvalidProtocol
	}

	m, err := method.Parse(methodToken)
	if err != nil {
		var merr *method.Error
		if errors.As(err, &merr) {
			return nil, ErrInvalidMethod
		}

		return nil, err
	}

	target = strings.Clone(target)
	path, rawQuery, hasQuery := splitTarget(target)

	req := &Request{
		method:   m,
		path:     path,
		rawQuery: rawQuery,
		hasQuery: hasQuery,
	}

	if hasQuery {
		req.query = query.Parse(rawQuery)
	}

	return req, nil
}

func (r *Request) Method() method.Method {
	return r.method
}

func (r *Request) Path() string {
	return r.path
}

// QueryString returns the raw query component and whether the target had a
// '?' at all.
func (r *Request) QueryString() (string, bool) {
	return r.rawQuery, r.hasQuery
}

// Query returns the parsed query parameters. It is empty when the target
// carried no query component.
func (r *Request) Query() query.QueryString {
	return r.query
}

func (r *Request) String() string {
	target := r.path
	if r.hasQuery {
		target += "?" + r.rawQuery
	}

	return r.method.String() + " " + target + " " + protocolHTTP11
}

// FromReader reads into buf until the request line is complete, buf is full
// or the reader fails, then parses the bytes that arrived. Read failures with
// nothing read are returned as they are; they never look like a ParseError.
// Data read before an error, io.EOF included, is still parsed.
func FromReader(reader io.Reader, buf []byte) (*Request, error) {
	filled := 0

	for filled < len(buf) && !bytes.Contains(buf[:filled], crlf) {
		n, err := reader.Read(buf[filled:])
		filled += n
		if err != nil {
			if filled == 0 {
				return nil, err
			}
			break
		}
		if n == 0 {
			if filled == 0 {
				return nil, io.ErrNoProgress
			}
			break
		}
	}

	return Parse(buf[:filled])
}
