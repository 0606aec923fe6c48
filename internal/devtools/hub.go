package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/coder/websocket"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/dom"
	"github.com/ehrlich-b/browsercore/internal/layout"
	"github.com/ehrlich-b/browsercore/internal/logger"
	"github.com/ehrlich-b/browsercore/internal/paint"
	"github.com/ehrlich-b/browsercore/internal/style"
)

// Session is one running fetch+render pipeline invocation's devtools
// channel: every snapshot/log/net event emitted during that invocation
// fans out to every websocket connection currently attached to it.
type Session struct {
	id string

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// Hub owns every active devtools Session, keyed by pipeline invocation
// ID, per SPEC_FULL.md §4.16: "one websocket endpoint per running
// fetch+render pipeline invocation."
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

// Open creates (or returns the existing) Session for id.
func (h *Hub) Open(id string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		return s
	}
	s := &Session{id: id, conns: make(map[*websocket.Conn]struct{})}
	h.sessions[id] = s
	logger.With("component", "devtools").Debug("session opened", "session", id)
	return s
}

// Get returns the Session for id, if one exists.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Close removes a session once its pipeline invocation finishes.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
	logger.With("component", "devtools").Debug("session closed", "session", id)
}

// attach registers conn to receive every future broadcast on s, until
// detach removes it.
func (s *Session) attach(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) detach(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Broadcast sends v (already one of the typed envelopes in protocol.go)
// to every connection currently attached to the session. A write failure
// on one connection does not block delivery to the others.
func (s *Session) Broadcast(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("devtools: marshal envelope: %w", err)
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			logger.With("component", "devtools").Warn("broadcast write failed", "session", s.id, "err", err)
		}
	}
	return nil
}

// EmitDOMSnapshot summarizes tree's shape and broadcasts it.
func (s *Session) EmitDOMSnapshot(ctx context.Context, tree *dom.Tree) error {
	count := 0
	var sb strings.Builder
	var walk func(h arena.Handle, depth int)
	walk = func(h arena.Handle, depth int) {
		n := tree.Node(h)
		if n == nil {
			return
		}
		count++
		if n.Kind == dom.KindElement {
			sb.WriteString(strings.Repeat("  ", depth))
			sb.WriteString(n.Element.Tag)
			sb.WriteByte('\n')
		}
		for _, c := range tree.Children(h) {
			walk(c, depth+1)
		}
	}
	walk(tree.Root, 0)

	return s.Broadcast(ctx, DOMSnapshot{
		Type:      TypeDOMSnapshot,
		NodeCount: count,
		Outline:   sb.String(),
	})
}

// EmitStyleSnapshot re-runs cascade matching across tree's elements to
// report how many rules matched overall, without mutating any styles
// that layout already resolved.
func (s *Session) EmitStyleSnapshot(ctx context.Context, tree *dom.Tree, sheets []*css.Stylesheet) error {
	styled := 0
	matched := 0
	ruleCount := 0
	for _, sheet := range sheets {
		ruleCount += len(sheet.Rules)
	}

	var walk func(h arena.Handle)
	walk = func(h arena.Handle) {
		n := tree.Node(h)
		if n == nil {
			return
		}
		if n.Kind == dom.KindElement {
			styled++
			matched += len(style.CollectMatched(tree, h, sheets))
		}
		for _, c := range tree.Children(h) {
			walk(c)
		}
	}
	walk(tree.Root)

	return s.Broadcast(ctx, StyleSnapshot{
		Type:         TypeStyleSnapshot,
		StyledCount:  styled,
		RuleCount:    ruleCount,
		MatchedRules: matched,
	})
}

// EmitLayoutSnapshot summarizes the resolved box tree's geometry.
func (s *Session) EmitLayoutSnapshot(ctx context.Context, root *layout.Box) error {
	count := 0
	var walk func(b *layout.Box)
	walk = func(b *layout.Box) {
		if b == nil {
			return
		}
		count++
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)

	snap := LayoutSnapshot{Type: TypeLayoutSnapshot, BoxCount: count}
	if root != nil {
		snap.RootWidth = root.Content.Width
		snap.RootHeight = root.Content.Height
	}
	return s.Broadcast(ctx, snap)
}

// paintKindNames maps paint.Kind to its display-list JSON key, since
// paint.Kind (an int, following this codebase's tagged-struct convention)
// has no String method of its own.
var paintKindNames = map[paint.Kind]string{
	paint.KindClipPush:     "clip_push",
	paint.KindClipPop:      "clip_pop",
	paint.KindOpacityPush:  "opacity_push",
	paint.KindOpacityPop:   "opacity_pop",
	paint.KindBoxShadow:    "box_shadow",
	paint.KindBackground:   "background",
	paint.KindBorder:       "border",
	paint.KindOutline:      "outline",
	paint.KindListMarker:   "list_marker",
	paint.KindText:         "text",
}

// EmitDisplayListSnapshot summarizes a built paint display list.
func (s *Session) EmitDisplayListSnapshot(ctx context.Context, items []paint.Item) error {
	counts := make(map[string]int)
	for _, it := range items {
		name, ok := paintKindNames[it.Kind]
		if !ok {
			name = "unknown"
		}
		counts[name]++
	}
	return s.Broadcast(ctx, DisplayListSnapshot{
		Type:       TypeDisplayListSnapshot,
		ItemCount:  len(items),
		KindCounts: counts,
	})
}

// EmitLog broadcasts a single free-form log line.
func (s *Session) EmitLog(ctx context.Context, level, message string) error {
	return s.Broadcast(ctx, LogLine{Type: TypeLogLine, Level: level, Message: message})
}

// EmitNetEvent broadcasts one fetch phase transition.
func (s *Session) EmitNetEvent(ctx context.Context, requestID, phase, url, detail string) error {
	return s.Broadcast(ctx, NetEvent{
		Type:      TypeNetEvent,
		RequestID: requestID,
		Phase:     phase,
		URL:       url,
		Detail:    detail,
	})
}
