package dnswire

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"net/netip"
	"sync"
	"time"
)

// maxCNAMEHops caps CNAME-chasing, per spec §4.8 step 4: "hard-cap 8 CNAME
// hops before failing with TooManyRedirects."
const maxCNAMEHops = 8

// minTTL and maxTTL bound the cache expiry per spec §4.8 step 3: "expiry =
// now + min(TTL, 300 s floor=1 s)".
const (
	minTTL = 1 * time.Second
	maxTTL = 300 * time.Second
)

type cacheEntry struct {
	addrs  []netip.Addr
	expiry time.Time
}

// Resolver is a minimal recursive-unaware stub resolver that talks to one
// upstream nameserver over UDP, per spec §4.8's resolution procedure.
type Resolver struct {
	// ServerAddr is the upstream nameserver, e.g. "8.8.8.8:53".
	ServerAddr string
	// Dial defaults to net.Dialer.DialContext against "udp"; overridable for
	// tests.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
	// Now defaults to time.Now; overridable for tests.
	Now func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func (r *Resolver) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	if r.Dial != nil {
		return r.Dial(ctx, network, addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, network, addr)
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Lookup resolves hostname to its IPv4 addresses, following CNAMEs and
// caching results, per spec §4.8's resolution procedure.
func (r *Resolver) Lookup(ctx context.Context, hostname string) ([]netip.Addr, error) {
	r.mu.Lock()
	if r.cache == nil {
		r.cache = map[string]cacheEntry{}
	}
	if e, ok := r.cache[hostname]; ok && r.now().Before(e.expiry) {
		r.mu.Unlock()
		return e.addrs, nil
	}
	r.mu.Unlock()

	name := hostname
	for hop := 0; ; hop++ {
		if hop > maxCNAMEHops {
			return nil, ErrTooManyRedirects
		}
		msg, err := r.query(ctx, name)
		if err != nil {
			return nil, err
		}
		if rc := msg.Header.RCode(); rc != 0 {
			return nil, ServerError{RCode: rc}
		}

		var addrs []netip.Addr
		var ttl uint32 = ^uint32(0)
		for _, rr := range msg.Answers {
			if rr.Type == TypeA && len(rr.RData) == 4 {
				addrs = append(addrs, netip.AddrFrom4([4]byte(rr.RData)))
				if rr.TTL < ttl {
					ttl = rr.TTL
				}
			}
		}
		if len(addrs) > 0 {
			r.store(hostname, addrs, ttl)
			return addrs, nil
		}

		var nextName string
		for _, rr := range msg.Answers {
			if rr.Type == TypeCNAME {
				n, _, err := decodeName(rr.RData, 0)
				if err != nil {
					return nil, fmt.Errorf("dnswire: decoding CNAME rdata: %w", err)
				}
				nextName = n
				break
			}
		}
		if nextName == "" {
			return nil, ErrNoRecords
		}
		name = nextName
	}
}

func (r *Resolver) store(hostname string, addrs []netip.Addr, ttl uint32) {
	d := time.Duration(ttl) * time.Second
	if d > maxTTL {
		d = maxTTL
	}
	if d < minTTL {
		d = minTTL
	}
	r.mu.Lock()
	r.cache[hostname] = cacheEntry{addrs: addrs, expiry: r.now().Add(d)}
	r.mu.Unlock()
}

// query sends one A query over UDP and parses the response, per spec
// §4.8 step 1: "Send A query; read response (UDP, 512-byte buffer)."
func (r *Resolver) query(ctx context.Context, name string) (*Message, error) {
	conn, err := r.dial(ctx, "udp", r.ServerAddr)
	if err != nil {
		return nil, fmt.Errorf("dnswire: dial %s: %w", r.ServerAddr, err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	}

	id := uint16(rand.IntN(1 << 16))
	query := BuildQuery(id, name, TypeA)
	if _, err := conn.Write(query); err != nil {
		return nil, fmt.Errorf("dnswire: write query: %w", err)
	}

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("dnswire: read response: %w", err)
	}
	return ParseMessage(buf[:n])
}
