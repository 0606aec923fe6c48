package netfetch

import "testing"

type fakeStream struct {
	closed bool
}

func (f *fakeStream) Write(p []byte) (int, error) { return len(p), nil }
func (f *fakeStream) readChunk() ([]byte, error)  { return nil, nil }
func (f *fakeStream) Close() error                { f.closed = true; return nil }

func TestConnPoolDropsBeyondLimit(t *testing.T) {
	p := newConnPool(2)
	key := poolKey{host: "example.com", port: "80"}

	a, b, c := &fakeStream{}, &fakeStream{}, &fakeStream{}
	p.put(key, a)
	p.put(key, b)
	p.put(key, c) // beyond the cap of 2: dropped (closed)

	if !c.closed {
		t.Error("connection beyond the pool cap should be closed, not retained")
	}
	if a.closed || b.closed {
		t.Error("connections within the cap should not be closed")
	}
}

func TestConnPoolGetReturnsMostRecentPut(t *testing.T) {
	p := newConnPool(2)
	key := poolKey{host: "example.com", port: "443"}

	a, b := &fakeStream{}, &fakeStream{}
	p.put(key, a)
	p.put(key, b)

	got, ok := p.get(key)
	if !ok || got != stream(b) {
		t.Errorf("get() should return the most recently put connection")
	}
}

func TestConnPoolGetEmptyReturnsFalse(t *testing.T) {
	p := newConnPool(2)
	_, ok := p.get(poolKey{host: "nope.example.com", port: "80"})
	if ok {
		t.Error("get() on an empty pool should report false")
	}
}

func TestConnPoolDistinguishesHosts(t *testing.T) {
	p := newConnPool(2)
	a := &fakeStream{}
	p.put(poolKey{host: "a.example.com", port: "80"}, a)

	_, ok := p.get(poolKey{host: "b.example.com", port: "80"})
	if ok {
		t.Error("a different host's pool should not see another host's connections")
	}
}
