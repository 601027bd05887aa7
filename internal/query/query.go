package query

import (
	"sort"
	"strings"
)

// Value is either Single or Multiple.
type Value interface {
	// Strings returns the values in the order they appeared.
	Strings() []string
}

// Single is a key that occurred exactly once.
type Single string

func (s Single) Strings() []string {
	return []string{string(s)}
}

// Multiple holds every value of a repeated key, first occurrence at index 0.
type Multiple []string

func (m Multiple) Strings() []string {
	return append([]string(nil), m...)
}

// QueryString is the parsed form of a URI query component. Values are kept
// exactly as received: no percent-decoding and no '+' to space conversion.
type QueryString struct {
	data map[string]Value
}

// Parse splits raw (the part after '?', without it) into key/value pairs.
// An empty raw string yields a single empty key with an empty value.
func Parse(raw string) QueryString {
	data := make(map[string]Value)

	for _, fragment := range strings.Split(raw, "&") {
		key, value := fragment, ""
		if i := strings.IndexByte(fragment, '='); i != -1 {
			key, value = fragment[:i], fragment[i+1:]
		}

		switch existing := data[key].(type) {
		case nil:
			data[key] = Single(value)
		case Single:
			data[key] = Multiple{string(existing), value}
		case Multiple:
			data[key] = append(existing, value)
		}
	}

	return QueryString{data: data}
}

// Get looks the key up by exact match.
func (q QueryString) Get(key string) (Value, bool) {
	v, found := q.data[key]
	if m, ok := v.(Multiple); ok {
		v = Multiple(m.Strings())
	}

	return v, found
}

func (q QueryString) Len() int {
	return len(q.data)
}

// Keys returns all the keys in sorted order.
func (q QueryString) Keys() []string {
	keys := make([]string, 0, len(q.data))
	for k := range q.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Map returns a copy of the query flattened into string slices.
func (q QueryString) Map() map[string][]string {
	m := make(map[string][]string, len(q.data))
	for k, v := range q.data {
		m[k] = v.Strings()
	}

	return m
}
