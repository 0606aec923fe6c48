package diskcache

import (
	"testing"
	"time"

	"github.com/ehrlich-b/browsercore/internal/http1"
	"github.com/ehrlich-b/browsercore/internal/netfetch"
)

func newResponse(status int, headers []http1.Header, body []byte) *netfetch.Response {
	return &netfetch.Response{
		Response: http1.NewResponse("HTTP/1.1", status, "OK", headers, body),
		FinalURL: "http://example.com/",
	}
}

func TestHTTPCacheRoundtripsCacheableResponse(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &HTTPCache{Store: s, Now: func() time.Time { return now }}

	resp := newResponse(200, []http1.Header{
		{Name: "Cache-Control", Value: "max-age=60"},
	}, []byte("hello"))

	c.PutResponse("http://example.com/", resp, now.Add(60*time.Second))

	got, ok := c.GetResponse("http://example.com/")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Status != 200 || string(got.Body) != "hello" {
		t.Errorf("got status=%d body=%q", got.Status, got.Body)
	}
	if v, _ := got.Header("Cache-Control"); v != "max-age=60" {
		t.Errorf("Cache-Control = %q", v)
	}
}

func TestHTTPCacheSkipsNonCacheableResponses(t *testing.T) {
	s := openTestStore(t)
	c := &HTTPCache{Store: s}

	noCacheControl := newResponse(200, nil, []byte("x"))
	c.PutResponse("http://a.example/", noCacheControl, time.Now().Add(time.Minute))
	if _, ok := c.GetResponse("http://a.example/"); ok {
		t.Error("response without Cache-Control should not be cached")
	}

	withCookie := newResponse(200, []http1.Header{
		{Name: "Cache-Control", Value: "max-age=60"},
		{Name: "Set-Cookie", Value: "session=1"},
	}, []byte("x"))
	c.PutResponse("http://b.example/", withCookie, time.Now().Add(time.Minute))
	if _, ok := c.GetResponse("http://b.example/"); ok {
		t.Error("response with Set-Cookie should not be cached")
	}

	notOK := newResponse(404, []http1.Header{{Name: "Cache-Control", Value: "max-age=60"}}, nil)
	c.PutResponse("http://c.example/", notOK, time.Now().Add(time.Minute))
	if _, ok := c.GetResponse("http://c.example/"); ok {
		t.Error("non-200 response should not be cached")
	}
}

func TestHTTPCacheExpiresEntries(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &HTTPCache{Store: s, Now: func() time.Time { return now }}

	resp := newResponse(200, []http1.Header{{Name: "Cache-Control", Value: "max-age=1"}}, []byte("x"))
	c.PutResponse("http://expiring.example/", resp, now.Add(time.Second))

	c.Now = func() time.Time { return now.Add(2 * time.Second) }
	if _, ok := c.GetResponse("http://expiring.example/"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMaxAgeExpiryComputesFromCacheControl(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	resp := newResponse(200, []http1.Header{{Name: "Cache-Control", Value: "max-age=30"}}, nil)

	expiry, ok := MaxAgeExpiry(now, resp)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !expiry.Equal(now.Add(30 * time.Second)) {
		t.Errorf("expiry = %v, want %v", expiry, now.Add(30*time.Second))
	}

	noHeader := newResponse(200, nil, nil)
	if _, ok := MaxAgeExpiry(now, noHeader); ok {
		t.Error("expected ok=false without Cache-Control")
	}
}
