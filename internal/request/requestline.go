package request

const protocolHTTP11 = "HTTP/1.1"

var crlf = []byte("\r\n")

// nextWord returns the text up to the first ' ' or '\r' and everything after
// that delimiter. Both delimiters are single ASCII bytes, so slicing around
// them never splits a multi-byte UTF-8 sequence.
func nextWord(s string) (word, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\r' {
			return s[:i], s[i+1:], true
		}
	}

	return "", "", false
}

// splitTarget splits the request target on the first '?'.
func splitTarget(target string) (path, query string, hasQuery bool) {
	for i := 0; i < len(target); i++ {
		if target[i] == '?' {
			return target[:i], target[i+1:], true
		}
	}

	return target, "", false
}
