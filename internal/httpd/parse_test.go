package httpd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

func TestParseRequestSimple(t *testing.T) {
	raw := []byte("GET /imgfs/list HTTP/1.1\r\nHost: localhost:8000\r\nAccept: */*\r\n\r\n")

	msg, headerLen, contentLen, err := parseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), headerLen)
	assert.Equal(t, 0, contentLen)
	assert.Equal(t, "GET", string(msg.Method))
	assert.Equal(t, "/imgfs/list", string(msg.URI))
	assert.Equal(t, "HTTP/1.1", string(msg.Protocol))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "Host", string(msg.Headers[0].Key))
	assert.Equal(t, "localhost:8000", string(msg.Headers[0].Value))
	assert.Equal(t, []byte("localhost:8000"), msg.HeaderValue("Host"))
	assert.Nil(t, msg.HeaderValue("Content-Type"))
}

func TestParseRequestIncomplete(t *testing.T) {
	raw := []byte("GET /imgfs/list HTTP/1.1\r\nHost: localhost\r\n")
	_, _, _, err := parseRequest(raw)
	assert.ErrorIs(t, err, errNeedMore)

	_, _, _, err = parseRequest(nil)
	assert.ErrorIs(t, err, errNeedMore)
}

func TestParseRequestContentLength(t *testing.T) {
	raw := []byte("POST /imgfs/insert?name=cat HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")

	msg, headerLen, contentLen, err := parseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, contentLen)
	assert.Equal(t, "hello", string(raw[headerLen:headerLen+contentLen]))
	assert.Equal(t, "POST", string(msg.Method))
}

func TestParseRequestBadProtocol(t *testing.T) {
	raw := []byte("GET / HTTP/1.0\r\n\r\n")
	_, _, _, err := parseRequest(raw)
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)
}

func TestParseRequestMalformed(t *testing.T) {
	_, _, _, err := parseRequest([]byte("GET /\r\n\r\n"))
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)

	_, _, _, err = parseRequest([]byte("GET / HTTP/1.1\r\nNoColonHere\r\n\r\n"))
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)

	_, _, _, err = parseRequest([]byte("GET / HTTP/1.1\r\nContent-Length: nan\r\n\r\n"))
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)
}

func TestParseRequestTooManyHeaders(t *testing.T) {
	raw := []byte("GET / HTTP/1.1\r\n")
	for i := 0; i <= MaxHeaders; i++ {
		raw = append(raw, []byte("X-Filler: y\r\n")...)
	}
	raw = append(raw, []byte("\r\n")...)

	_, _, _, err := parseRequest(raw)
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)
}

func TestParseRequestPipelined(t *testing.T) {
	first := "GET /a HTTP/1.1\r\n\r\n"
	second := "GET /b HTTP/1.1\r\n\r\n"
	raw := []byte(first + second)

	msg, headerLen, _, err := parseRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "/a", string(msg.URI))
	assert.Equal(t, len(first), headerLen)

	msg, _, _, err = parseRequest(raw[headerLen:])
	require.NoError(t, err)
	assert.Equal(t, "/b", string(msg.URI))
}

func TestMatchHelpers(t *testing.T) {
	msg := &Message{Method: []byte("POST"), URI: []byte("/imgfs/insert?name=cat")}
	assert.True(t, msg.MatchURI("/imgfs/insert"))
	assert.False(t, msg.MatchURI("/imgfs/delete"))
	assert.True(t, MatchVerb(msg.Method, "POST"))
	assert.False(t, MatchVerb(msg.Method, "POS"))
	assert.False(t, MatchVerb([]byte("/"), "/index.html"))
}

func TestGetVar(t *testing.T) {
	uri := []byte("/imgfs/read?res=small&img_id=cat")

	v, err := GetVar(uri, "res", 11)
	require.NoError(t, err)
	assert.Equal(t, "small", v)

	v, err = GetVar(uri, "img_id", 128)
	require.NoError(t, err)
	assert.Equal(t, "cat", v)

	// Absent variable: empty value, no error.
	v, err = GetVar(uri, "name", 128)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestGetVarNoQuery(t *testing.T) {
	_, err := GetVar([]byte("/imgfs/read"), "res", 11)
	assert.ErrorIs(t, err, imgfserr.ErrInvalidArgument)
}

func TestGetVarBadValues(t *testing.T) {
	// Empty value.
	_, err := GetVar([]byte("/x?res=&a=b"), "res", 11)
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)

	// Value does not fit the output limit.
	_, err = GetVar([]byte("/x?res=thumbnails"), "res", 8)
	assert.ErrorIs(t, err, imgfserr.ErrRuntime)
}

func TestGetVarPrefixNameNotConfused(t *testing.T) {
	// "id" must not match "img_id".
	v, err := GetVar([]byte("/x?img_id=cat"), "id", 128)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
