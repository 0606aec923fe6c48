package http1

import (
	"errors"
	"testing"
)

// TestBasicFixedLengthResponse matches spec §8 scenario 5 exactly.
func TestBasicFixedLengthResponse(t *testing.T) {
	p := NewParser(0, 0)
	input := "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nHello"
	resp, err := p.Feed([]byte(input))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if resp.Status != 200 || resp.Reason != "OK" {
		t.Errorf("status/reason = %d/%q, want 200/OK", resp.Status, resp.Reason)
	}
	if string(resp.Body) != "Hello" {
		t.Errorf("body = %q, want Hello", resp.Body)
	}
	if !resp.Complete {
		t.Error("expected Complete=true once Content-Length bytes are all buffered")
	}
}

func TestIncrementalFeedAcrossMultipleWrites(t *testing.T) {
	p := NewParser(0, 0)
	chunks := []string{"HTTP/1.1 200", " OK\r\nContent-Length: 5", "\r\n\r\nHel", "lo"}
	var resp *Response
	for _, c := range chunks {
		var err error
		resp, err = p.Feed([]byte(c))
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
	if resp == nil || !resp.Complete || string(resp.Body) != "Hello" {
		t.Fatalf("resp = %+v, want complete with body Hello", resp)
	}
}

func TestHeaderPhaseTooLarge(t *testing.T) {
	p := NewParser(16, 0)
	_, err := p.Feed([]byte("HTTP/1.1 200 OK\r\nX-Long-Header: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\r\n"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestNoContentStatusHasNoBody(t *testing.T) {
	p := NewParser(0, 0)
	resp, err := p.Feed([]byte("HTTP/1.1 204 No Content\r\n\r\n"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if resp.BodyMode != BodyModeNone || !resp.Complete {
		t.Errorf("204 response = %+v, want BodyModeNone and Complete", resp)
	}
}

func TestChunkedDecoding(t *testing.T) {
	p := NewParser(0, 0)
	input := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5\r\nHello\r\n6\r\n World\r\n0\r\n\r\n"
	resp, err := p.Feed([]byte(input))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !resp.Complete {
		t.Fatal("expected chunked response to be complete after terminal chunk")
	}
	if string(resp.Body) != "Hello World" {
		t.Errorf("body = %q, want %q", resp.Body, "Hello World")
	}
}

func TestChunkedDecodingAcrossIncrementalFeeds(t *testing.T) {
	p := NewParser(0, 0)
	writes := []string{
		"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n",
		"5\r\nHel",
		"lo\r\n0",
		"\r\n\r\n",
	}
	var resp *Response
	for _, w := range writes {
		var err error
		resp, err = p.Feed([]byte(w))
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
	}
	if !resp.Complete || string(resp.Body) != "Hello" {
		t.Fatalf("resp = %+v, want complete body Hello", resp)
	}
}

func TestUntilCloseModeRequiresFinish(t *testing.T) {
	p := NewParser(0, 0)
	resp, err := p.Feed([]byte("HTTP/1.1 200 OK\r\n\r\npartial-body"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if resp.Complete {
		t.Fatal("until-close mode should not be complete until FinishUntilClose")
	}
	resp, err = p.FinishUntilClose()
	if err != nil {
		t.Fatalf("FinishUntilClose: %v", err)
	}
	if !resp.Complete || string(resp.Body) != "partial-body" {
		t.Errorf("resp = %+v, want complete body partial-body", resp)
	}
}

func TestHeadersAllReturnsDuplicates(t *testing.T) {
	p := NewParser(0, 0)
	resp, err := p.Feed([]byte("HTTP/1.1 200 OK\r\nSet-Cookie: a=1\r\nSet-Cookie: b=2\r\nContent-Length: 0\r\n\r\n"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	all := resp.HeadersAll("set-cookie")
	if len(all) != 2 || all[0] != "a=1" || all[1] != "b=2" {
		t.Errorf("HeadersAll = %v, want [a=1 b=2]", all)
	}
}
