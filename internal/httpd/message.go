// Package httpd is a minimal HTTP/1.1 server layer: a TCP accept loop, an
// incremental request framer, and a replier. Requests are exposed as byte
// slices into the connection's receive buffer; nothing is copied per token.
package httpd

import (
	"bytes"
	"fmt"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

const (
	// MaxHeaders is the maximum number of header fields per request.
	MaxHeaders = 32

	// MaxHeaderSize bounds the request line plus all header fields.
	MaxHeaderSize = 2048
)

// HeaderField is one key/value pair of a request, as slices into the receive
// buffer.
type HeaderField struct {
	Key   []byte
	Value []byte
}

// Message is one parsed HTTP request.
type Message struct {
	Method   []byte
	URI      []byte
	Protocol []byte
	Headers  []HeaderField
	Body     []byte
}

// MatchURI reports whether the request URI starts with prefix.
func (m *Message) MatchURI(prefix string) bool {
	return len(m.URI) >= len(prefix) && string(m.URI[:len(prefix)]) == prefix
}

// MatchVerb reports whether tok equals verb exactly.
func MatchVerb(tok []byte, verb string) bool {
	return string(tok) == verb
}

// HeaderValue returns the value of the first header field named key, or nil.
func (m *Message) HeaderValue(key string) []byte {
	for _, h := range m.Headers {
		if string(h.Key) == key {
			return h.Value
		}
	}
	return nil
}

// GetVar extracts the query variable name from uri. It returns the first
// matching value, "" when the variable is absent, ErrInvalidArgument when
// the URI has no query part, and ErrRuntime when the value is empty or does
// not fit in maxLen-1 bytes.
func GetVar(uri []byte, name string, maxLen int) (string, error) {
	q := bytes.IndexByte(uri, '?')
	if q < 0 {
		return "", fmt.Errorf("%w: no query in %q", imgfserr.ErrInvalidArgument, uri)
	}

	needle := name + "="
	for _, pair := range bytes.Split(uri[q+1:], []byte{'&'}) {
		if len(pair) < len(needle) || string(pair[:len(needle)]) != needle {
			continue
		}
		value := pair[len(needle):]
		if len(value) == 0 || len(value) >= maxLen {
			return "", fmt.Errorf("%w: bad value for %q", imgfserr.ErrRuntime, name)
		}
		return string(value), nil
	}
	return "", nil
}
