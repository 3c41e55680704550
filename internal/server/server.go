package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tmsolberg/nmeahub/internal/bus"
	"github.com/tmsolberg/nmeahub/internal/config"
	"github.com/tmsolberg/nmeahub/internal/nmea"
	"github.com/tmsolberg/nmeahub/internal/router"
)

// Server streams decoded records to WebSocket clients and exposes the
// router's enabled-identifier sets over HTTP.
type Server struct {
	cfg    *config.Config
	router *router.Router
	feed   *bus.Bus

	clients   map[*wsClient]struct{}
	clientsMu sync.RWMutex

	upgrader websocket.Upgrader
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Frame is the JSON structure sent to all WebSocket clients.
type Frame struct {
	Topic string               `json:"topic"`
	Fix   *nmea.FixData        `json:"fix,omitempty"`
	Nav   *nmea.NavigationData `json:"nav,omitempty"`
	Raw   string               `json:"raw,omitempty"`
	Stamp int64                `json:"stamp"` // Unix ms
}

// identifierSets is the /api/identifiers request and response body.
type identifierSets struct {
	Fix []string `json:"fix"`
	Nav []string `json:"nav"`
}

// New creates a Server over the given router and feed bus.
func New(cfg *config.Config, rt *router.Router, feed *bus.Bus) *Server {
	return &Server{
		cfg:     cfg,
		router:  rt,
		feed:    feed,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the HTTP server and the bus-to-clients forwarding loop.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/identifiers", s.handleIdentifiers)

	go s.forwardLoop(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Printf("[server] listening on %s", s.cfg.Server.ListenAddr)
	return srv.ListenAndServe()
}

// forwardLoop subscribes to all feed topics and rebroadcasts each message
// as a JSON frame.
func (s *Server) forwardLoop(ctx context.Context) {
	sub := s.feed.Subscribe(256)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.C:
			frame := Frame{Topic: msg.Topic, Stamp: time.Now().UnixMilli()}
			switch p := msg.Payload.(type) {
			case *nmea.FixData:
				frame.Fix = p
			case *nmea.NavigationData:
				frame.Nav = p
			case string:
				frame.Raw = p
			default:
				continue
			}
			s.broadcast(frame)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 64),
	}

	s.clientsMu.Lock()
	s.clients[client] = struct{}{}
	s.clientsMu.Unlock()

	log.Printf("[ws] client connected (%d total)", len(s.clients))

	// Writer goroutine
	go func() {
		defer conn.Close()
		for msg := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	// Reader goroutine (handle incoming messages / keep-alive)
	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, client)
			s.clientsMu.Unlock()
			close(client.send)
			log.Printf("[ws] client disconnected (%d total)", len(s.clients))
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

// handleIdentifiers reads or replaces the enabled-identifier sets at runtime.
func (s *Server) handleIdentifiers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeIdentifiers(w)

	case http.MethodPut, http.MethodPost:
		var sets identifierSets
		if err := json.NewDecoder(r.Body).Decode(&sets); err != nil {
			http.Error(w, "bad request", 400)
			return
		}
		s.router.SetEnabledFixIdentifiers(sets.Fix)
		s.router.SetEnabledNavIdentifiers(sets.Nav)
		s.writeIdentifiers(w)

	default:
		http.Error(w, "method not allowed", 405)
	}
}

func (s *Server) writeIdentifiers(w http.ResponseWriter) {
	sets := identifierSets{
		Fix: s.router.EnabledFixIdentifiers(),
		Nav: s.router.EnabledNavIdentifiers(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sets)
}

func (s *Server) broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			// Client too slow, skip
		}
	}
}
