package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Handler connects the feed to a running simulation
type Handler interface {
	// HandleInput queues a client pointer event
	HandleInput(in InputMessage) error
	// Status returns a JSON-encodable status value
	Status() interface{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Server serves the snapshot feed and the status endpoints
type Server struct {
	hub     *Hub
	handler Handler
	http    *http.Server
}

// NewServer builds a feed server listening on addr
func NewServer(addr string, handler Handler) *Server {
	s := &Server{hub: NewHub(), handler: handler}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router returns the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.handler.Status()); err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
		}
	})

	r.Get("/ws", s.serveWS)
	return r
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	if s.hub.full() {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.log.Warnf("upgrade error: %v", err)
		return
	}

	client := newClient(s.hub, s.handler, conn, remoteIP(r))
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// Hub returns the server's client hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the hub and serves HTTP until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(shutdownCtx)
	}()

	s.hub.log.Infof("feed listening on %s", ln.Addr())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("feed server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Publish encodes snapshot into a Frame and broadcasts it
func (s *Server) Publish(tick uint64, simTime float64, snapshot interface{}) error {
	if s.hub.ClientCount() == 0 {
		return nil
	}
	raw, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data, err := msgpack.Marshal(&Frame{Tick: tick, Time: simTime, Snapshot: raw})
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	s.hub.Broadcast(data)
	return nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
