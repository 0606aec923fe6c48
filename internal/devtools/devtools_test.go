package devtools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func newTestServer(t *testing.T, secret []byte) (*httptest.Server, *Hub) {
	t.Helper()
	hub := NewHub()
	srv := &Server{Hub: hub, Secret: secret}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /devtools/{id}", srv.handleSession)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server, path string, token string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(ts.URL, "http://", "ws://", 1) + path
	opts := &websocket.DialOptions{}
	if token != "" {
		opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	conn, _, err := websocket.Dial(context.Background(), url, opts)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func TestSessionBroadcastReachesAttachedConn(t *testing.T) {
	ts, hub := newTestServer(t, nil)
	conn := dial(t, ts, "/devtools/sess-1", "")

	// Give the server a moment to finish the accept handshake and attach.
	time.Sleep(20 * time.Millisecond)

	session, ok := hub.Get("sess-1")
	if !ok {
		t.Fatal("expected session sess-1 to exist after connect")
	}
	if err := session.EmitLog(context.Background(), "info", "hello"); err != nil {
		t.Fatalf("EmitLog: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var line LogLine
	if err := json.Unmarshal(data, &line); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if line.Type != TypeLogLine || line.Message != "hello" {
		t.Errorf("got %+v", line)
	}
}

func TestRequiresAuthOnNonLoopbackHost(t *testing.T) {
	hub := NewHub()
	srv := &Server{Hub: hub, Secret: []byte("shh")}

	req := &http.Request{Host: "example.com:9222"}
	if !srv.requiresAuth(req) {
		t.Error("expected non-loopback host to require auth")
	}

	req2 := &http.Request{Host: "127.0.0.1:9222"}
	if srv.requiresAuth(req2) {
		t.Error("expected loopback host to not require auth")
	}
}

func TestIssueAndValidateSessionToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueSessionToken(secret, "sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := ValidateSessionToken(secret, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID != "sess-1" {
		t.Errorf("session id = %q, want sess-1", claims.SessionID)
	}
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueSessionToken([]byte("right"), "sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ValidateSessionToken([]byte("wrong"), token); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}
