package diskcache

import (
	"context"
	"encoding/json"
	"net/netip"
	"time"

	"github.com/ehrlich-b/browsercore/internal/netfetch"
)

// DNSResolver wraps a netfetch.HostResolver with the persistent dns_cache
// table in front of it, per SPEC_FULL.md §4.15: "additive to, not a
// replacement for, the in-memory TTL cache ... the in-memory cache stays
// canonical within one process lifetime, the disk cache survives across
// lifetimes." A disk entry is only consulted when the wrapped resolver's
// lookup fails, since Lookup always asks the inner resolver first.
type DNSResolver struct {
	Store *Store
	Inner netfetch.HostResolver
	// Now defaults to time.Now; overridable for tests.
	Now func() time.Time
}

var _ netfetch.HostResolver = (*DNSResolver)(nil)

func (r *DNSResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Lookup consults the disk cache only as a fallback: the inner resolver's
// own in-memory cache is canonical and tried first by calling straight
// into it, so a process that never restarts never pays a sqlite read.
// A successful inner lookup is written back to disk; the disk entry is
// read only when the inner resolver fails, and the inner error is
// returned when no live disk entry exists.
func (r *DNSResolver) Lookup(ctx context.Context, hostname string) ([]netip.Addr, error) {
	addrs, err := r.Inner.Lookup(ctx, hostname)
	if err == nil {
		r.writeThrough(hostname, addrs)
		return addrs, nil
	}

	if cached, ok := r.readCache(hostname); ok {
		return cached, nil
	}
	return nil, err
}

func (r *DNSResolver) readCache(hostname string) ([]netip.Addr, bool) {
	var ipsJSON string
	var expiry time.Time
	row := r.Store.db.QueryRow(`SELECT ips_json, expiry FROM dns_cache WHERE hostname = ?`, hostname)
	if err := row.Scan(&ipsJSON, &expiry); err != nil {
		return nil, false
	}
	if !r.now().Before(expiry) {
		return nil, false
	}
	var raw []string
	if err := json.Unmarshal([]byte(ipsJSON), &raw); err != nil {
		return nil, false
	}
	addrs := make([]netip.Addr, 0, len(raw))
	for _, s := range raw {
		a, err := netip.ParseAddr(s)
		if err != nil {
			return nil, false
		}
		addrs = append(addrs, a)
	}
	if len(addrs) == 0 {
		return nil, false
	}
	return addrs, true
}

func (r *DNSResolver) writeThrough(hostname string, addrs []netip.Addr) {
	raw := make([]string, len(addrs))
	for i, a := range addrs {
		raw[i] = a.String()
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return
	}
	expiry := r.now().Add(5 * time.Minute)
	_, _ = r.Store.db.Exec(`
		INSERT INTO dns_cache (hostname, ips_json, expiry) VALUES (?, ?, ?)
		ON CONFLICT(hostname) DO UPDATE SET ips_json = excluded.ips_json, expiry = excluded.expiry
	`, hostname, string(b), expiry)
}
