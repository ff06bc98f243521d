// Package lookup serves resolver queries to front-end clients over a
// websocket, with a plain HTTP endpoint for one-off queries.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/philjestin/pathresolver/internal/resolver"
)

const (
	OpToLocal  = "toLocal"
	OpToRemote = "toRemote"
	OpEligible = "eligible"
	OpVariant  = "variant"
)

const (
	readTimeout  = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeTimeout = 5 * time.Second
)

// Source yields the resolver to answer with. It is consulted per request, so
// a reload between requests is picked up without reconnecting.
type Source interface {
	Resolver() (resolver.Resolver, error)
}

type Request struct {
	ID    int64  `json:"id"`
	Op    string `json:"op"`
	Input string `json:"input"`
}

type Response struct {
	ID      int64  `json:"id"`
	Op      string `json:"op"`
	Output  string `json:"output,omitempty"`
	OK      bool   `json:"ok"`
	Variant string `json:"variant,omitempty"`
	Error   string `json:"error,omitempty"`
}

var errUnknownOp = errors.New("unknown op")

// Answer runs a single request against r.
func Answer(ctx context.Context, r resolver.Resolver, req Request) Response {
	resp := Response{ID: req.ID, Op: req.Op, Variant: r.Variant().String()}
	switch req.Op {
	case OpToLocal:
		resp.Output, resp.OK = r.ToLocalSource(ctx, req.Input)
	case OpToRemote:
		resp.Output, resp.OK = r.ToRemote(ctx, req.Input), true
	case OpEligible:
		resp.OK = r.IsEligibleForSourceMap(ctx, req.Input)
	case OpVariant:
		resp.Output, resp.OK = resp.Variant, true
	default:
		resp.Error = fmt.Sprintf("%v: %q", errUnknownOp, req.Op)
	}
	return resp
}

// Server answers lookups for a Source.
type Server struct {
	src      Source
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewServer(src Source, log logrus.FieldLogger) *Server {
	return &Server{
		src: src,
		log: log.WithField("component", "lookup"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// local tool; clients are editors on the same machine
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler routes /ws (websocket), /lookup (HTTP GET) and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/lookup", s.serveHTTP)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.src.Resolver(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *Server) answer(ctx context.Context, req Request) Response {
	r, err := s.src.Resolver()
	if err != nil {
		return Response{ID: req.ID, Op: req.Op, Error: err.Error()}
	}
	return Answer(ctx, r, req)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := s.answer(r.Context(), Request{Op: q.Get("op"), Input: q.Get("input")})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if resp.Error != "" {
		w.WriteHeader(http.StatusBadRequest)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.WithError(err).Debug("write lookup response")
	}
}

// conn serializes writes; gorilla connections allow one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, data)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade")
		return
	}
	log := s.log.WithField("remote", r.RemoteAddr)
	log.Debug("client connected")

	ctx, cancel := context.WithCancel(r.Context())
	c := &conn{ws: ws}
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = ws.Close()
		log.Debug("client disconnected")
	}()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	go s.ping(ctx, c, log)

	for {
		msgType, msg, err := ws.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.WithError(err).Debug("read lookup request")
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		if msgType != websocket.TextMessage {
			continue
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			s.reply(c, Response{Error: fmt.Sprintf("bad request: %v", err)}, log)
			continue
		}
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			s.reply(c, s.answer(ctx, req), log)
		}()
	}
}

func (s *Server) reply(c *conn, resp Response, log logrus.FieldLogger) {
	b, err := json.Marshal(resp)
	if err != nil {
		log.WithError(err).Error("marshal lookup response")
		return
	}
	if err := c.write(websocket.TextMessage, b); err != nil {
		log.WithError(err).Debug("write lookup response")
	}
}

func (s *Server) ping(ctx context.Context, c *conn, log logrus.FieldLogger) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				log.WithError(err).Debug("ping")
				return
			}
		}
	}
}
