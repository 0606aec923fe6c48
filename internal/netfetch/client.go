// Package netfetch orchestrates spec §4.8/§4.9/§4.11's DNS resolution,
// TCP connect, TLS 1.3 handshake, and HTTP/1.1 request/response cycle
// into the single `fetch` operation spec §5 describes, including the
// connection pool, redirect chasing (cap 20), and connect/read timeouts.
package netfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ehrlich-b/browsercore/internal/dnswire"
	"github.com/ehrlich-b/browsercore/internal/http1"
	"github.com/ehrlich-b/browsercore/internal/logger"
	"github.com/ehrlich-b/browsercore/internal/tls13"
)

// CacheStore is the write-through disk cache seam spec §4.15 describes.
// internal/diskcache.Store implements it; Client works without one (no
// persistence across process restarts, matching spec.md's original
// in-memory-only design).
type CacheStore interface {
	GetResponse(url string) (*Response, bool)
	PutResponse(url string, resp *Response, expiry time.Time)
}

// Response is a completed fetch: the parsed HTTP/1.1 response plus the
// URL it was ultimately served from (after redirect chasing) and a
// per-request identifier for devtools net.event correlation.
type Response struct {
	*http1.Response
	FinalURL  string
	RequestID string
}

// HostResolver is the DNS lookup seam Client depends on.
// *dnswire.Resolver satisfies it directly; internal/diskcache.DNSResolver
// wraps one with a persistent disk cache that is written through on
// success and read only when the wrapped lookup fails, per SPEC_FULL.md
// §4.15.
type HostResolver interface {
	Lookup(ctx context.Context, hostname string) ([]netip.Addr, error)
}

// Client is spec §9's "NetworkService": an explicit configuration record
// owning the DNS resolver, connection pool, and per-host rate limiters —
// no hidden singletons.
type Client struct {
	Config   Config
	Resolver HostResolver
	Cache    CacheStore

	pool *connPool
	log  *slog.Logger

	// dial defaults to net.Dialer.DialContext; overridable for tests.
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewClient builds a Client with its own DNS resolver and connection
// pool, per cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		Config:   cfg,
		Resolver: &dnswire.Resolver{ServerAddr: cfg.Nameserver},
		pool:     newConnPool(cfg.PoolPerHost),
		log:      logger.With("component", "netfetch"),
	}
}

// Close tears down every pooled idle connection.
func (c *Client) Close() {
	c.pool.closeAll()
}

// Fetch performs a GET request, following redirects per spec §5's
// 20-hop cap, and returns the final response.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return c.do(ctx, rawURL, "GET", nil, nil, 0)
}

// Do performs an arbitrary-method request with extra headers and an
// optional body, following redirects the same way Fetch does.
func (c *Client) Do(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) (*Response, error) {
	return c.do(ctx, rawURL, method, headers, body, 0)
}

func (c *Client) do(ctx context.Context, rawURL, method string, headers map[string]string, body []byte, redirects int) (*Response, error) {
	if redirects > c.Config.MaxRedirects {
		return nil, ErrTooManyRedirects
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	requestID := uuid.NewString()

	s, key, err := c.dialStream(ctx, u)
	if err != nil {
		return nil, err
	}

	reqBytes := buildRequest(method, u, c.Config.UserAgent, headers, body)
	if _, err := s.Write(reqBytes); err != nil {
		s.Close()
		return nil, &IOError{Err: err}
	}

	resp, err := c.readResponse(s)
	if err != nil {
		s.Close()
		return nil, err
	}

	if keepAlive(resp) {
		c.pool.put(key, s)
	} else {
		s.Close()
	}

	if resp.Status >= 300 && resp.Status < 400 {
		if loc, ok := resp.Header("Location"); ok {
			if next, err := u.Parse(loc); err == nil {
				return c.do(ctx, next.String(), method, headers, body, redirects+1)
			}
		}
	}

	return &Response{Response: resp, FinalURL: u.String(), RequestID: requestID}, nil
}

// readResponse drives an http1.Parser off stream reads until the
// response is complete, surfacing a deadline expiry as ErrTimeout per
// spec §5: "A read timeout surfaces Timeout; the underlying socket is
// closed."
func (c *Client) readResponse(s stream) (*http1.Response, error) {
	parser := http1.NewParser(c.Config.MaxHeaderSize, int(c.Config.MaxBodySize))
	var resp *http1.Response

	for {
		chunk, err := s.readChunk()
		if err != nil {
			if resp != nil && resp.BodyMode == http1.BodyModeUntilClose && (err == io.EOF) {
				return parser.FinishUntilClose()
			}
			if isTimeout(err) {
				return nil, ErrTimeout
			}
			return nil, &IOError{Err: err}
		}

		resp, err = parser.Feed(chunk)
		if err != nil {
			return nil, &HTTPError{Err: err}
		}
		if resp != nil && resp.Complete {
			return resp, nil
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func keepAlive(resp *http1.Response) bool {
	if resp == nil || resp.BodyMode == http1.BodyModeUntilClose {
		return false
	}
	if v, ok := resp.Header("Connection"); ok && strings.EqualFold(v, "close") {
		return false
	}
	return true
}

// dialStream returns a ready-to-use stream for u's (host, port), reusing
// a pooled connection when one is idle, otherwise resolving DNS,
// dialing TCP, and (for https) running the TLS 1.3 handshake.
func (c *Client) dialStream(ctx context.Context, u *url.URL) (stream, poolKey, error) {
	host, port := hostPort(u)
	key := poolKey{host: host, port: port}

	if s, ok := c.pool.get(key); ok {
		return s, key, nil
	}

	if err := c.pool.limiterFor(key).Wait(ctx); err != nil {
		return nil, key, &IOError{Err: err}
	}

	addrs, err := c.Resolver.Lookup(ctx, host)
	if err != nil {
		c.log.Warn("dns lookup failed", "host", host, "err", err)
		return nil, key, &DNSError{Err: err}
	}
	if len(addrs) == 0 {
		return nil, key, &DNSError{Err: fmt.Errorf("no addresses for %s", host)}
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.Config.ConnectTimeout)
	defer cancel()

	addr := net.JoinHostPort(addrs[0].String(), port)
	netConn, err := c.dialNet(connectCtx, "tcp", addr)
	if err != nil {
		c.log.Warn("tcp connect failed", "addr", addr, "err", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, key, ErrTimeout
		}
		return nil, key, &IOError{Err: err}
	}

	if u.Scheme != "https" {
		return &plainStream{conn: netConn, readTimeout: c.Config.ReadTimeout}, key, nil
	}

	// TLS handshake reads inherit the read timeout, per spec §5: "TLS
	// handshake has no explicit step timeout but inherits the read
	// timeout."
	netConn.SetDeadline(time.Now().Add(c.Config.ReadTimeout))
	tlsConn := tls13.NewConn(netConn, host)
	if err := tlsConn.Handshake(); err != nil {
		netConn.Close()
		c.log.Warn("tls handshake failed", "host", host, "err", err)
		if isTimeout(err) {
			return nil, key, ErrTimeout
		}
		return nil, key, &TLSError{Err: err}
	}
	netConn.SetDeadline(time.Time{})

	return &tlsStream{netConn: netConn, conn: tlsConn, readTimeout: c.Config.ReadTimeout}, key, nil
}

func (c *Client) dialNet(ctx context.Context, network, addr string) (net.Conn, error) {
	if c.dial != nil {
		return c.dial(ctx, network, addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, network, addr)
}

// WarmupHosts resolves DNS for every host concurrently, priming the
// resolver's cache ahead of time, per SPEC_FULL.md §3.1's x/sync/errgroup
// wiring: "concurrent DNS warm-up / connection-pool priming across
// hosts." The first resolution failure cancels the rest.
func (c *Client) WarmupHosts(ctx context.Context, hosts []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, h := range hosts {
		host := h
		g.Go(func() error {
			if _, err := c.Resolver.Lookup(gctx, host); err != nil {
				return &DNSError{Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}
