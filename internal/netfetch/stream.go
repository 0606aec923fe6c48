package netfetch

import (
	"net"
	"time"

	"github.com/ehrlich-b/browsercore/internal/tls13"
)

// plainStream is a stream over an unencrypted net.Conn.
type plainStream struct {
	conn        net.Conn
	readTimeout time.Duration
}

func (s *plainStream) Write(p []byte) (int, error) { return s.conn.Write(p) }

func (s *plainStream) readChunk() ([]byte, error) {
	if s.readTimeout > 0 {
		s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	buf := make([]byte, 16*1024)
	n, err := s.conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (s *plainStream) Close() error { return s.conn.Close() }

// tlsStream is a stream over a handshaken tls13.Conn. The read deadline is
// set on the underlying net.Conn since tls13.Conn.Read has no timeout
// parameter of its own (it reads exactly one record per call).
type tlsStream struct {
	netConn     net.Conn
	conn        *tls13.Conn
	readTimeout time.Duration
}

func (s *tlsStream) Write(p []byte) (int, error) { return s.conn.Write(p) }

func (s *tlsStream) readChunk() ([]byte, error) {
	if s.readTimeout > 0 {
		s.netConn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	return s.conn.Read()
}

func (s *tlsStream) Close() error { return s.netConn.Close() }
