package request

// ParseError is the reason a buffer couldn't be turned into a Request.
type ParseError uint8

const (
	// ErrInvalidRequest means the request line lacks one of its
	// space-delimited tokens.
	ErrInvalidRequest ParseError = iota + 1
	// ErrInvalidEncoding means the buffer isn't valid UTF-8.
	ErrInvalidEncoding
	// ErrInvalidProtocol means the version token is anything but HTTP/1.1.
	ErrInvalidProtocol
	// ErrInvalidMethod means the method token isn't a supported verb.
	ErrInvalidMethod
)

var parseErrorMessages = [...]string{
	ErrInvalidRequest:  "Invalid Request",
	ErrInvalidEncoding: "Invalid Encoding",
	ErrInvalidProtocol: "Invalid Protocol",
	ErrInvalidMethod:   "Invalid Method",
}

func (e ParseError) Error() string {
	if e == 0 || int(e) >= len(parseErrorMessages) {
		return "Unknown Parse Error"
	}

	return parseErrorMessages[e]
}

// Kind is a short label for the error, suitable for metric labels.
func (e ParseError) Kind() string {
	switch e {
	case ErrInvalidRequest:
		return "request"
	case ErrInvalidEncoding:
		return "encoding"
	case ErrInvalidProtocol:
		return "protocol"
	case ErrInvalidMethod:
		return "method"
	default:
		return "unknown"
	}
}
