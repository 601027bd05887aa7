package response

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithBody(t *testing.T) {
	buf := &bytes.Buffer{}

	err := Text(StatusOK, "hi").Send(buf)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 Ok \r\n\r\nhi", buf.String())
}

func TestSendWithoutBody(t *testing.T) {
	buf := &bytes.Buffer{}

	err := Empty(StatusNotFound).Send(buf)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 404 Not Found \r\n\r\n", buf.String())
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		code StatusCode
		want string
	}{
		{StatusOK, "HTTP/1.1 200 Ok \r\n\r\n"},
		{StatusBadRequest, "HTTP/1.1 400 Bad Request \r\n\r\n"},
		{StatusNotFound, "HTTP/1.1 404 Not Found \r\n\r\n"},
		{StatusInternalServerError, "HTTP/1.1 500 Internal Server Error \r\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, string(Empty(tt.code).Bytes()))
		})
	}
}

func TestEmptyBodyEqualsNoBody(t *testing.T) {
	assert.Equal(t, Empty(StatusOK).Bytes(), New(StatusOK, []byte{}).Bytes())
}

func TestSendOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	resp := Text(StatusOK, "once")

	require.NoError(t, resp.Send(buf))
	assert.True(t, resp.Sent())

	err := resp.Send(buf)
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.Equal(t, "HTTP/1.1 200 Ok \r\n\r\nonce", buf.String())
}

func TestSendPropagatesWriteError(t *testing.T) {
	boom := errors.New("broken pipe")
	resp := Text(StatusOK, "hi")

	err := resp.Send(failingWriter{err: boom})
	assert.Same(t, boom, err)
	assert.False(t, resp.Sent())
}

func TestSingleWrite(t *testing.T) {
	w := &countingWriter{}

	require.NoError(t, Text(StatusBadRequest, "body").Send(w))
	assert.Equal(t, 1, w.calls)
}

func TestReasonPhrase(t *testing.T) {
	assert.Equal(t, "Unknown Status", StatusCode(299).ReasonPhrase())
	assert.True(t, StatusNotFound.IsClientError())
	assert.False(t, StatusOK.IsClientError())
	assert.True(t, StatusInternalServerError.IsServerError())
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}
