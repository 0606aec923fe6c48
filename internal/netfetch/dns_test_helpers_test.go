package netfetch

import (
	"context"
	"net"
	"strings"
	"time"
)

// fakeDNSConn is a minimal net.Conn that ignores the query it's written
// and always returns a single canned response, mirroring
// internal/dnswire's own test fixture.
type fakeDNSConn struct {
	net.Conn
	response []byte
}

func (c *fakeDNSConn) Write(b []byte) (int, error) { return len(b), nil }
func (c *fakeDNSConn) Read(b []byte) (int, error)  { return copy(b, c.response), nil }
func (c *fakeDNSConn) Close() error                       { return nil }
func (c *fakeDNSConn) SetDeadline(t time.Time) error      { return nil }
func (c *fakeDNSConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeDNSConn) SetWriteDeadline(t time.Time) error { return nil }

// encodeDNSName encodes a dotted hostname as length-prefixed labels
// terminated by a zero octet, per RFC 1035 §3.1.
func encodeDNSName(name string) []byte {
	var out []byte
	for _, label := range strings.Split(name, ".") {
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0x00)
}

// buildDNSAResponse builds a minimal single-answer A response for qname,
// used to stub out Resolver.Dial in netfetch tests without touching a
// real nameserver.
func buildDNSAResponse(qname string, ip [4]byte) []byte {
	buf := make([]byte, 12)
	putU16 := func(off int, v uint16) { buf[off] = byte(v >> 8); buf[off+1] = byte(v) }
	putU16(2, 0x8180) // QR=1 RD=1 RA=1 RCODE=0
	putU16(4, 1)      // QDCOUNT
	putU16(6, 1)      // ANCOUNT
	buf = append(buf, encodeDNSName(qname)...)
	buf = append(buf, 0x00, 0x01, 0x00, 0x01) // QTYPE=A QCLASS=IN

	buf = append(buf, encodeDNSName(qname)...)
	rr := make([]byte, 10)
	rr[1] = 0x01 // TYPE=A
	rr[3] = 0x01 // CLASS=IN
	rr[4], rr[5], rr[6], rr[7] = 0, 0, 0, 60 // TTL=60
	rr[9] = 4                               // RDLENGTH=4
	buf = append(buf, rr...)
	buf = append(buf, ip[:]...)
	return buf
}

func stubDNSDial(response []byte) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return &fakeDNSConn{response: response}, nil
	}
}
