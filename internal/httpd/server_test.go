package httpd

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler replies with the method, URI and body length of each request.
type echoHandler struct{}

func (echoHandler) HandleMessage(msg *Message, conn net.Conn) error {
	body := fmt.Sprintf("%s %s %d", msg.Method, msg.URI, len(msg.Body))
	return Reply(conn, StatusOK, "", []byte(body))
}

func startServer(t *testing.T, h Handler) net.Addr {
	t.Helper()
	srv, err := Listen("127.0.0.1:0", h)
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return srv.Addr()
}

func dial(t *testing.T, addr net.Addr) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr.String(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readResponse(t *testing.T, r *bufio.Reader) (int, string) {
	t.Helper()
	resp, err := http.ReadResponse(r, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerSingleRequest(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)

	_, err := conn.Write([]byte("GET /hello HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NoError(t, err)

	code, body := readResponse(t, bufio.NewReader(conn))
	assert.Equal(t, 200, code)
	assert.Equal(t, "GET /hello 0", body)
}

func TestServerKeepAlive(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	for i := 0; i < 3; i++ {
		_, err := fmt.Fprintf(conn, "GET /req%d HTTP/1.1\r\n\r\n", i)
		require.NoError(t, err)
		code, body := readResponse(t, r)
		assert.Equal(t, 200, code)
		assert.Equal(t, fmt.Sprintf("GET /req%d 0", i), body)
	}
}

func TestServerPipelinedRequests(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	// Both requests land in one TCP segment; the second must be preserved.
	_, err := conn.Write([]byte("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	_, body := readResponse(t, r)
	assert.Equal(t, "GET /a 0", body)
	_, body = readResponse(t, r)
	assert.Equal(t, "GET /b 0", body)
}

func TestServerBodyAcrossReads(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte("POST /up HTTP/1.1\r\nContent-Length: 10\r\n\r\n12345"))
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = conn.Write([]byte("67890"))
	require.NoError(t, err)

	_, body := readResponse(t, r)
	assert.Equal(t, "POST /up 10", body)
}

func TestServerBodyWithPipelinedNext(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte("POST /up HTTP/1.1\r\nContent-Length: 3\r\n\r\nabcGET /next HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	_, body := readResponse(t, r)
	assert.Equal(t, "POST /up 3", body)
	_, body = readResponse(t, r)
	assert.Equal(t, "GET /next 0", body)
}

func TestServerRejectsWrongProtocol(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)

	_, err := conn.Write([]byte("GET / HTTP/1.0\r\n\r\n"))
	require.NoError(t, err)

	// The server replies 500 and closes the connection.
	r := bufio.NewReader(conn)
	code, body := readResponse(t, r)
	assert.Equal(t, 500, code)
	assert.Contains(t, body, "Error: runtime error")

	_, err = r.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
}

func TestServerClosesOnOversizedHeaders(t *testing.T) {
	addr := startServer(t, echoHandler{})
	conn := dial(t, addr)

	huge := make([]byte, MaxHeaderSize+1)
	for i := range huge {
		huge[i] = 'a'
	}
	_, err := conn.Write(append([]byte("GET /"), huge...))
	require.NoError(t, err)

	buf := make([]byte, 1)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = io.ReadFull(conn, buf)
	assert.Error(t, err)
}
