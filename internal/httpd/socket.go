package httpd

import (
	"fmt"
	"net"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
)

// listen opens the passive TCP socket on addr.
func listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %v", imgfserr.ErrIO, addr, err)
	}
	return ln, nil
}

// sendAll writes all of data to conn, retrying short writes with the
// remaining slice.
func sendAll(conn net.Conn, data []byte) error {
	for len(data) > 0 {
		n, err := conn.Write(data)
		if err != nil {
			return fmt.Errorf("%w: send: %v", imgfserr.ErrIO, err)
		}
		data = data[n:]
	}
	return nil
}
