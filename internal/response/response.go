package response

import (
	"errors"
	"io"
	"strconv"
)

var ErrAlreadySent = errors.New("response already sent")

// Response is built by a handler and consumed by Send. A nil Body is sent as
// an empty one.
type Response struct {
	StatusCode StatusCode
	Body       []byte

	sent bool
}

func New(code StatusCode, body []byte) *Response {
	return &Response{
		StatusCode: code,
		Body:       body,
	}
}

// Text is a shorthand for a response with a string body.
func Text(code StatusCode, body string) *Response {
	return New(code, []byte(body))
}

// Empty creates a response without a body.
func Empty(code StatusCode) *Response {
	return New(code, nil)
}

// Bytes renders the wire form of the response:
//
//	HTTP/1.1 <code> <reason> \r\n\r\n<body>
//
// No headers are emitted.
func (r *Response) Bytes() []byte {
	reason := r.StatusCode.ReasonPhrase()

	buf := make([]byte, 0, len("HTTP/1.1 000  \r\n\r\n")+len(reason)+len(r.Body))
	buf = append(buf, "HTTP/1.1 "...)
	buf = strconv.AppendUint(buf, uint64(r.StatusCode), 10)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	buf = append(buf, " \r\n\r\n"...)
	buf = append(buf, r.Body...)

	return buf
}

// Send writes the response to w in a single Write call. The error from w is
// returned unmodified. A response can be sent only once.
func (r *Response) Send(w io.Writer) error {
	if r.sent {
		return ErrAlreadySent
	}

	if _, err := w.Write(r.Bytes()); err != nil {
		return err
	}

	r.sent = true
	return nil
}

// Sent reports whether Send already succeeded.
func (r *Response) Sent() bool {
	return r.sent
}
