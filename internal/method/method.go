package method

import "fmt"

type Method uint8

const (
	Unknown Method = iota
	GET
	PUT
	POST
	PATCH
	DELETE
	HEAD
	OPTIONS
	TRACE
	CONNECT
)

// List contains every supported method in declaration order. Unknown is not included.
var List = []Method{GET, PUT, POST, PATCH, DELETE, HEAD, OPTIONS, TRACE, CONNECT}

var names = [...]string{
	Unknown: "UNKNOWN",
	GET:     "GET",
	PUT:     "PUT",
	POST:    "POST",
	PATCH:   "PATCH",
	DELETE:  "DELETE",
	HEAD:    "HEAD",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
	CONNECT: "CONNECT",
}

func (m Method) String() string {
	if int(m) >= len(names) {
		return names[Unknown]
	}

	return names[m]
}

// Error is returned by Parse for any token that isn't one of the supported methods.
type Error struct {
	Token string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unrecognized method %q", e.Token)
}

// Parse matches the token exactly. Lowercase or padded tokens are rejected.
func Parse(token string) (Method, error) {
	switch len(token) {
	case 3:
		if token == "GET" {
			return GET, nil
		} else if token == "PUT" {
			return PUT, nil
		}
	case 4:
		if token == "POST" {
			return POST, nil
		} else if token == "HEAD" {
			return HEAD, nil
		}
	case 5:
		if token == "PATCH" {
			return PATCH, nil
		} else if token == "TRACE" {
			return TRACE, nil
		}
	case 6:
		if token == "DELETE" {
			return DELETE, nil
		}
	case 7:
		if token == "OPTIONS" {
			return OPTIONS, nil
		} else if token == "CONNECT" {
			return CONNECT, nil
		}
	}

	return Unknown, &Error{Token: token}
}
