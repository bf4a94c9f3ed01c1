// Package server bridges the HTTP layer and the image store: it matches
// URIs, extracts query variables, serializes storage access under a single
// mutex, and renders replies.
package server

import (
	_ "embed"
	"net"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hoperedemption/imgfs/internal/cache"
	"github.com/hoperedemption/imgfs/internal/httpd"
	"github.com/hoperedemption/imgfs/internal/imgfs"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

//go:embed index.html
var indexHTML []byte

const uriRoot = "/imgfs"

// Service dispatches parsed HTTP requests onto one open store. The mutex is
// the only synchronization over the store; every storage call holds it for
// its whole duration, so operations are linearizable in lock-grant order.
type Service struct {
	store    *imgfs.Store
	mu       sync.Mutex
	payloads *cache.PayloadCache
	group    singleflight.Group
}

// New wires the service over store. payloads may be nil to disable the read
// cache.
func New(store *imgfs.Store, payloads *cache.PayloadCache) *Service {
	return &Service{store: store, payloads: payloads}
}

// HandleMessage implements httpd.Handler.
func (s *Service) HandleMessage(msg *httpd.Message, conn net.Conn) error {
	logger.Debugf("[Service] %s %s", msg.Method, msg.URI)

	switch {
	case httpd.MatchVerb(msg.URI, "/") || msg.MatchURI("/index.html"):
		return s.serveIndex(conn)
	case msg.MatchURI(uriRoot + "/list"):
		return s.handleList(conn)
	case msg.MatchURI(uriRoot+"/insert") && httpd.MatchVerb(msg.Method, "POST"):
		return s.handleInsert(msg, conn)
	case msg.MatchURI(uriRoot + "/read"):
		return s.handleRead(msg, conn)
	case msg.MatchURI(uriRoot + "/delete"):
		return s.handleDelete(msg, conn)
	default:
		return s.replyError(conn, imgfserr.ErrInvalidCommand)
	}
}

// replyError maps any storage or parse error to a 500 with a readable body,
// then surfaces the error so the connection is closed.
func (s *Service) replyError(conn net.Conn, opErr error) error {
	body := "Error: " + imgfserr.Message(opErr) + "\n"
	if err := httpd.Reply(conn, httpd.StatusInternalError, "", []byte(body)); err != nil {
		return err
	}
	return opErr
}

// reply302 redirects the client back to the index page, using the request's
// Host header for the Location target.
func (s *Service) reply302(msg *httpd.Message, conn net.Conn) error {
	host := string(msg.HeaderValue("Host"))
	if host == "" {
		host = "localhost"
	}
	headers := "Location: http://" + host + "/index.html\r\n"
	return httpd.Reply(conn, httpd.StatusFound, headers, nil)
}

func (s *Service) serveIndex(conn net.Conn) error {
	return httpd.Reply(conn, httpd.StatusOK,
		"Content-Type: text/html; charset=utf-8\r\n", indexHTML)
}

func (s *Service) handleList(conn net.Conn) error {
	s.mu.Lock()
	body, err := s.store.ListJSON()
	s.mu.Unlock()
	if err != nil {
		return s.replyError(conn, err)
	}
	return httpd.Reply(conn, httpd.StatusOK, "Content-Type: application/json\r\n", body)
}

func (s *Service) handleRead(msg *httpd.Message, conn net.Conn) error {
	resName, err := httpd.GetVar(msg.URI, "res", 11)
	if err != nil || resName == "" {
		return s.replyError(conn, imgfserr.ErrNotEnoughArguments)
	}
	res, ok := imgfs.ParseResolution(resName)
	if !ok {
		return s.replyError(conn, imgfserr.ErrResolutions)
	}

	imgID, err := httpd.GetVar(msg.URI, "img_id", imgfs.MaxImgID+1)
	if err != nil || imgID == "" {
		return s.replyError(conn, imgfserr.ErrNotEnoughArguments)
	}

	data, err := s.readCached(imgID, res)
	if err != nil {
		return s.replyError(conn, err)
	}
	return httpd.Reply(conn, httpd.StatusOK, "Content-Type: image/jpeg\r\n", data)
}

// readCached serves the payload from the memory cache when possible and
// collapses concurrent identical reads into one storage call.
func (s *Service) readCached(imgID string, res imgfs.Resolution) ([]byte, error) {
	if s.payloads == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.store.Read(imgID, res)
	}

	s.mu.Lock()
	version := s.store.Header.Version
	s.mu.Unlock()

	key := cache.Key(version, res.String(), imgID)
	if data, ok := s.payloads.Get(key); ok {
		logger.Debugf("[Service] Cache HIT for %q (%s)", imgID, res)
		return data, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		if data, ok := s.payloads.Get(key); ok {
			return data, nil
		}
		s.mu.Lock()
		data, err := s.store.Read(imgID, res)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		s.payloads.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *Service) handleInsert(msg *httpd.Message, conn net.Conn) error {
	if len(msg.Body) == 0 {
		return s.replyError(conn, imgfserr.ErrInvalidArgument)
	}
	name, err := httpd.GetVar(msg.URI, "name", imgfs.MaxImgID+1)
	if err != nil || name == "" {
		return s.replyError(conn, imgfserr.ErrNotEnoughArguments)
	}

	s.mu.Lock()
	opErr := s.store.Insert(msg.Body, name)
	s.mu.Unlock()
	if opErr != nil {
		return s.replyError(conn, opErr)
	}
	return s.reply302(msg, conn)
}

func (s *Service) handleDelete(msg *httpd.Message, conn net.Conn) error {
	imgID, err := httpd.GetVar(msg.URI, "img_id", imgfs.MaxImgID+1)
	if err != nil || imgID == "" {
		return s.replyError(conn, imgfserr.ErrNotEnoughArguments)
	}

	s.mu.Lock()
	opErr := s.store.Delete(imgID)
	s.mu.Unlock()
	if opErr != nil {
		return s.replyError(conn, opErr)
	}
	return s.reply302(msg, conn)
}
