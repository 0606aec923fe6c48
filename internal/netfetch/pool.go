package netfetch

import (
	"sync"

	"golang.org/x/time/rate"
)

// poolKey identifies one (host, port) connection pool, per spec §5:
// "A connection pool keyed by (host, port) bounds idle TCP sockets per
// host."
type poolKey struct {
	host string
	port string
}

// stream is a reusable transport-layer connection: either a raw net.Conn
// (plain HTTP) or a TLS 1.3 connection. readChunk reads whatever the
// transport next makes available (one decrypted TLS record, or one
// net.Conn.Read's worth of plaintext bytes) rather than filling a
// caller-sized buffer, matching tls13.Conn.Read's shape.
type stream interface {
	Write(p []byte) (int, error)
	readChunk() ([]byte, error)
	Close() error
}

// connPool holds idle connections per host, bounded to Config.PoolPerHost,
// and a per-host rate.Limiter gating new-connection dials so a single
// host cannot be hammered by a redirect storm or concurrent warm-up —
// the x/time/rate wiring SPEC_FULL.md §3.1 calls for.
type connPool struct {
	limit int

	mu      sync.Mutex
	idle    map[poolKey][]stream
	limiter map[poolKey]*rate.Limiter
}

func newConnPool(limit int) *connPool {
	if limit <= 0 {
		limit = 1
	}
	return &connPool{
		limit:   limit,
		idle:    map[poolKey][]stream{},
		limiter: map[poolKey]*rate.Limiter{},
	}
}

// get pops an idle connection for key, if one is available.
func (p *connPool) get(key poolKey) (stream, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conns := p.idle[key]
	if len(conns) == 0 {
		return nil, false
	}
	c := conns[len(conns)-1]
	p.idle[key] = conns[:len(conns)-1]
	return c, true
}

// put returns a connection to the pool, closing it instead if the host's
// idle cap is already full, per spec §5: "puts beyond the cap drop the
// socket."
func (p *connPool) put(key poolKey, c stream) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle[key]) >= p.limit {
		c.Close()
		return
	}
	p.idle[key] = append(p.idle[key], c)
}

// limiterFor returns the shared rate limiter for key, creating it with a
// burst of PoolPerHost new dials and a steady rate of one dial/100ms.
func (p *connPool) limiterFor(key poolKey) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiter[key]
	if !ok {
		l = rate.NewLimiter(10, p.limit) // 10 new dials/sec steady-state, burst = pool size
		p.limiter[key] = l
	}
	return l
}

// closeAll closes every idle connection across every host, for shutdown.
func (p *connPool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, conns := range p.idle {
		for _, c := range conns {
			c.Close()
		}
		delete(p.idle, key)
	}
}
