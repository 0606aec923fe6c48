package diskcache

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ehrlich-b/browsercore/internal/http1"
	"github.com/ehrlich-b/browsercore/internal/netfetch"
)

// wireHeader mirrors http1.Header for JSON (de)serialization without
// exporting http1's internal field layout into this package.
type wireHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HTTPCache implements netfetch.CacheStore against the http_cache table,
// per SPEC_FULL.md §4.15: only 200 responses carrying a Cache-Control
// max-age and no Set-Cookie header are ever written.
type HTTPCache struct {
	Store *Store
	// Now defaults to time.Now; overridable for tests.
	Now func() time.Time
}

var _ netfetch.CacheStore = (*HTTPCache)(nil)

func (h *HTTPCache) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// GetResponse returns the cached response for url if present and not yet
// expired.
func (h *HTTPCache) GetResponse(url string) (*netfetch.Response, bool) {
	var status int
	var headersJSON string
	var body []byte
	var expiry time.Time
	row := h.Store.db.QueryRow(`SELECT status, headers_json, body, expiry FROM http_cache WHERE url = ?`, url)
	if err := row.Scan(&status, &headersJSON, &body, &expiry); err != nil {
		return nil, false
	}
	if !h.now().Before(expiry) {
		return nil, false
	}

	var wire []wireHeader
	if err := json.Unmarshal([]byte(headersJSON), &wire); err != nil {
		return nil, false
	}
	headers := make([]http1.Header, len(wire))
	for i, w := range wire {
		headers[i] = http1.Header{Name: w.Name, Value: w.Value}
	}

	resp := http1.NewResponse("HTTP/1.1", status, "", headers, body)
	return &netfetch.Response{Response: resp, FinalURL: url}, true
}

// PutResponse stores resp under url if it is cacheable, per
// SPEC_FULL.md §4.15's "200, Cache-Control: max-age=N, no Set-Cookie"
// rule. Non-cacheable responses are silently not written.
func (h *HTTPCache) PutResponse(url string, resp *netfetch.Response, expiry time.Time) {
	if !cacheable(resp) {
		return
	}

	wire := make([]wireHeader, len(resp.Headers()))
	for i, hd := range resp.Headers() {
		wire[i] = wireHeader{Name: hd.Name, Value: hd.Value}
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return
	}

	_, _ = h.Store.db.Exec(`
		INSERT INTO http_cache (url, status, headers_json, body, expiry) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET status = excluded.status, headers_json = excluded.headers_json,
			body = excluded.body, expiry = excluded.expiry
	`, url, resp.Status, string(b), resp.Body, expiry)
}

// cacheable implements SPEC_FULL.md §4.15's write-through policy.
func cacheable(resp *netfetch.Response) bool {
	if resp.Status != 200 {
		return false
	}
	if _, hasCookie := resp.Header("Set-Cookie"); hasCookie {
		return false
	}
	cc, ok := resp.Header("Cache-Control")
	if !ok {
		return false
	}
	return maxAgeSeconds(cc) > 0
}

// MaxAgeExpiry computes the expiry time.Time for a cacheable response's
// Cache-Control header, for callers deciding what to pass to PutResponse.
func MaxAgeExpiry(now time.Time, resp *netfetch.Response) (time.Time, bool) {
	cc, ok := resp.Header("Cache-Control")
	if !ok {
		return time.Time{}, false
	}
	age := maxAgeSeconds(cc)
	if age <= 0 {
		return time.Time{}, false
	}
	return now.Add(time.Duration(age) * time.Second), true
}

func maxAgeSeconds(cacheControl string) int {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		const prefix = "max-age="
		if !strings.HasPrefix(strings.ToLower(directive), prefix) {
			continue
		}
		n, err := strconv.Atoi(directive[len(prefix):])
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
