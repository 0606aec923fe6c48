package netfetch

import (
	"errors"
	"fmt"
)

// Sentinel/kind errors at the network boundary, per spec §6: "distinct
// kinds, not codes": InvalidUrl, Dns(msg), Io, Tls(msg), Http(msg),
// TooManyRedirects, Timeout.

// ErrInvalidURL is returned when the fetch target cannot be parsed or
// carries an unsupported scheme.
var ErrInvalidURL = errors.New("netfetch: invalid url")

// ErrTooManyRedirects is returned once a redirect chain exceeds
// Config.MaxRedirects (default 20, spec §5).
var ErrTooManyRedirects = errors.New("netfetch: too many redirects")

// ErrTimeout is returned when a connect or read deadline is exceeded; per
// spec §5, the underlying socket is closed when this happens.
var ErrTimeout = errors.New("netfetch: timeout")

// DNSError wraps a resolution failure (kind "Dns(msg)").
type DNSError struct{ Err error }

func (e *DNSError) Error() string { return fmt.Sprintf("netfetch: dns: %v", e.Err) }
func (e *DNSError) Unwrap() error { return e.Err }

// IOError wraps a connect/read/write failure (kind "Io").
type IOError struct{ Err error }

func (e *IOError) Error() string { return fmt.Sprintf("netfetch: io: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// TLSError wraps a handshake or record-layer failure (kind "Tls(msg)").
type TLSError struct{ Err error }

func (e *TLSError) Error() string { return fmt.Sprintf("netfetch: tls: %v", e.Err) }
func (e *TLSError) Unwrap() error { return e.Err }

// HTTPError wraps a request-construction or response-parse failure (kind
// "Http(msg)").
type HTTPError struct{ Err error }

func (e *HTTPError) Error() string { return fmt.Sprintf("netfetch: http: %v", e.Err) }
func (e *HTTPError) Unwrap() error { return e.Err }
