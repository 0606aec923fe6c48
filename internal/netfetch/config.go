package netfetch

import "time"

// Config is the explicit-configuration record spec §9 asks for in place
// of hidden globals: "NetworkService (timeouts, user-agent, pool
// limits)". internal/engconfig loads the on-disk EngineConfig and
// converts it to a Config; code that only needs network defaults (tests,
// standalone tools) can use DefaultConfig directly.
type Config struct {
	UserAgent string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// MaxRedirects caps HTTP redirect chases, per spec §5: "HTTP redirect
	// cap: 20."
	MaxRedirects int

	MaxHeaderSize int
	MaxBodySize   int64

	// PoolPerHost bounds idle sockets per (host, port), per spec §5:
	// "default 6; puts beyond the cap drop the socket."
	PoolPerHost int

	Nameserver string
	DNSTimeout time.Duration
}

// DefaultConfig returns spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:      "browsercore/1.0",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
		MaxRedirects:   20,
		MaxHeaderSize:  1 << 20,  // 1 MiB
		MaxBodySize:    50 << 20, // 50 MiB
		PoolPerHost:    6,
		Nameserver:     "8.8.8.8:53",
		DNSTimeout:     5 * time.Second,
	}
}
