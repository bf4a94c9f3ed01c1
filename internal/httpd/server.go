package httpd

import (
	"errors"
	"net"

	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

// Handler consumes complete requests. It is supplied at server construction;
// returning an error closes the connection.
type Handler interface {
	HandleMessage(msg *Message, conn net.Conn) error
}

// Server accepts TCP connections and runs one framer goroutine per
// connection. Requests on a connection are handled serially until the peer
// closes or an error occurs.
type Server struct {
	ln      net.Listener
	handler Handler
}

// Listen binds the passive socket on addr and returns a server dispatching
// to h.
func Listen(addr string, h Handler) (*Server, error) {
	ln, err := listen(addr)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, handler: h}, nil
}

// Addr returns the bound address of the passive socket.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve runs the accept loop until Close. Each accepted connection gets its
// own goroutine.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// Close shuts the passive socket down. In-flight connections finish their
// current request and terminate on the next peer close or read error.
func (s *Server) Close() error {
	return s.ln.Close()
}

// handleConn is the per-connection framer: grow a receive buffer until the
// header section is complete, read the body per Content-Length, dispatch,
// then start over with any pipelined bytes already received.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var pending []byte
	chunk := make([]byte, MaxHeaderSize)

	for {
		msg, headerLen, contentLen, err := parseRequest(pending)
		if err != nil {
			if !errors.Is(err, errNeedMore) {
				logger.Warnf("[httpd] Parse error on %s: %v", conn.RemoteAddr(), err)
				_ = Reply(conn, StatusInternalError, "", []byte("Error: "+imgfserr.Message(err)+"\n"))
				return
			}
			if len(pending) >= MaxHeaderSize {
				logger.Warnf("[httpd] Header section exceeds %d bytes on %s", MaxHeaderSize, conn.RemoteAddr())
				return
			}
			n, err := conn.Read(chunk)
			if n > 0 {
				pending = append(pending, chunk[:n]...)
			}
			if err != nil {
				return
			}
			continue
		}

		var leftover []byte
		if contentLen > 0 {
			body := make([]byte, contentLen)
			have := copy(body, pending[headerLen:])
			if extra := len(pending) - headerLen - contentLen; extra > 0 {
				leftover = append(leftover, pending[headerLen+contentLen:]...)
			}
			for have < contentLen {
				n, err := conn.Read(body[have:])
				if n > 0 {
					have += n
				}
				if err != nil {
					return
				}
			}
			msg.Body = body
		} else {
			leftover = append(leftover, pending[headerLen:]...)
		}

		if err := s.handler.HandleMessage(msg, conn); err != nil {
			logger.Warnf("[httpd] Handler error on %s: %v", conn.RemoteAddr(), err)
			return
		}

		// The message's slices point into pending; drop it only now.
		pending = leftover
	}
}
