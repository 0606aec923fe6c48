package devtools

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
)

// loopbackHosts are addresses Server treats as already-trusted, per spec
// §4.16: "A short-lived JWT ... gates the endpoint when DevtoolsBindAddr
// is non-loopback."
var loopbackHosts = map[string]bool{
	"127.0.0.1": true,
	"localhost": true,
	"::1":       true,
	"":          true, // ":9222" style addr with no host part
}

// Server exposes one websocket endpoint per Hub session, gated by a
// session JWT whenever it is bound to a non-loopback address. Grounded
// on internal/direct/server.go's http.ServeMux + websocket.Accept
// pattern.
type Server struct {
	Hub    *Hub
	Secret []byte // HMAC key for session tokens; required for non-loopback binds

	mu       sync.Mutex
	listener net.Listener
}

// Start begins listening on addr and serving GET /devtools/{id}.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /devtools/{id}", s.handleSession)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("devtools: listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	log.Printf("[devtools] listening on %s", addr)
	go http.Serve(ln, mux)
	return nil
}

// Close stops the listener.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		return ln.Close()
	}
	return nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.requiresAuth(r) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")
		claims, err := ValidateSessionToken(s.Secret, tokenStr)
		if err != nil || claims.SessionID != id {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	session := s.Hub.Open(id)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("[devtools] websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(1 << 20)

	session.attach(conn)
	defer session.detach(conn)

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
		// Inbound messages have no defined use yet; the endpoint is
		// read-only telemetry. Reading still drains control frames
		// (ping/pong/close) so the connection stays alive.
	}
}

// requiresAuth reports whether r arrived on a non-loopback listener
// address, per spec §4.16.
func (s *Server) requiresAuth(r *http.Request) bool {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return !loopbackHosts[host]
}
