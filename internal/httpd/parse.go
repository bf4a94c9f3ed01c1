package httpd

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

var (
	lineDelim   = []byte("\r\n")
	headerDelim = []byte("\r\n\r\n")
	kvDelim     = []byte(": ")
)

// errNeedMore signals that buf does not yet hold a complete header section.
var errNeedMore = errors.New("incomplete message")

// parseRequest parses the header section of the request at the start of buf.
// It returns the message (without body), the header section length in bytes,
// and the announced Content-Length. The message's slices point into buf.
func parseRequest(buf []byte) (*Message, int, int, error) {
	end := bytes.Index(buf, headerDelim)
	if end < 0 {
		return nil, 0, 0, errNeedMore
	}
	headerLen := end + len(headerDelim)

	lines := bytes.Split(buf[:end], lineDelim)

	requestLine := bytes.SplitN(lines[0], []byte{' '}, 3)
	if len(requestLine) != 3 {
		return nil, 0, 0, fmt.Errorf("%w: malformed request line", imgfserr.ErrRuntime)
	}

	msg := &Message{
		Method:   requestLine[0],
		URI:      requestLine[1],
		Protocol: requestLine[2],
	}
	if !MatchVerb(msg.Protocol, "HTTP/1.1") {
		return nil, 0, 0, fmt.Errorf("%w: protocol %q", imgfserr.ErrRuntime, msg.Protocol)
	}

	if len(lines) > MaxHeaders+1 {
		return nil, 0, 0, fmt.Errorf("%w: more than %d headers", imgfserr.ErrRuntime, MaxHeaders)
	}

	contentLen := 0
	for _, line := range lines[1:] {
		sep := bytes.Index(line, kvDelim)
		if sep < 0 {
			return nil, 0, 0, fmt.Errorf("%w: malformed header %q", imgfserr.ErrRuntime, line)
		}
		field := HeaderField{Key: line[:sep], Value: line[sep+len(kvDelim):]}
		msg.Headers = append(msg.Headers, field)

		if string(field.Key) == "Content-Length" {
			n, err := strconv.Atoi(string(field.Value))
			if err != nil || n < 0 {
				return nil, 0, 0, fmt.Errorf("%w: Content-Length %q", imgfserr.ErrRuntime, field.Value)
			}
			contentLen = n
		}
	}

	return msg, headerLen, contentLen, nil
}
