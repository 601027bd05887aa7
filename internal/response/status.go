package response

import "strconv"

// StatusCode is one of the status codes this server ever answers with.
type StatusCode uint16

const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

// ReasonPhrase returns the fixed text sent after the numeric code.
func (code StatusCode) ReasonPhrase() string {
	switch code {
	case StatusOK:
		return "Ok"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Unknown Status"
	}
}

// String returns the numeric code, e.g. "404".
func (code StatusCode) String() string {
	return strconv.Itoa(int(code))
}

// IsClientError returns true for 4xx status codes
func (code StatusCode) IsClientError() bool {
	return code >= 400 && code < 500
}

// IsServerError returns true for 5xx status codes
func (code StatusCode) IsServerError() bool {
	return code >= 500 && code < 600
}
