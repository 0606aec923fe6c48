// Package engconfig implements SPEC_FULL.md §4.14's EngineConfig: the
// on-disk, YAML-backed configuration record that replaces the hidden
// globals spec §9 explicitly rules out ("Explicit configuration records
// replace global/module state... NetworkService (timeouts, user-agent,
// pool limits)"). Grounded on internal/config/wing.go's WingConfig
// struct/yaml-tag convention and paths.go's user-config-dir resolution.
package engconfig

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ehrlich-b/browsercore/internal/netfetch"
)

// EngineConfig is the browser engine's analog of WingConfig: timeouts,
// user-agent, pool limits, DNS nameserver, and the devtools bind
// address, per SPEC_FULL.md §4.14.
type EngineConfig struct {
	UserAgent        string        `yaml:"user_agent"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	MaxRedirects     int           `yaml:"max_redirects"`
	MaxHeaderSize    int           `yaml:"max_header_size"`
	MaxBodySize      int64         `yaml:"max_body_size"`
	PoolPerHost      int           `yaml:"pool_per_host"`
	Nameserver       string        `yaml:"nameserver"`
	DNSTimeout       time.Duration `yaml:"dns_timeout"`
	DevtoolsBindAddr string        `yaml:"devtools_bind_addr,omitempty"`
}

// Default returns spec-mandated defaults, matching netfetch.DefaultConfig
// field-for-field (EngineConfig is the persisted form of the same
// settings; ToNetfetchConfig converts between them).
func Default() EngineConfig {
	d := netfetch.DefaultConfig()
	return EngineConfig{
		UserAgent:      d.UserAgent,
		ConnectTimeout: d.ConnectTimeout,
		ReadTimeout:    d.ReadTimeout,
		MaxRedirects:   d.MaxRedirects,
		MaxHeaderSize:  d.MaxHeaderSize,
		MaxBodySize:    d.MaxBodySize,
		PoolPerHost:    d.PoolPerHost,
		Nameserver:     d.Nameserver,
		DNSTimeout:     d.DNSTimeout,
	}
}

// ToNetfetchConfig converts the persisted record into the netfetch.Config
// a Client is constructed with.
func (e EngineConfig) ToNetfetchConfig() netfetch.Config {
	return netfetch.Config{
		UserAgent:      e.UserAgent,
		ConnectTimeout: e.ConnectTimeout,
		ReadTimeout:    e.ReadTimeout,
		MaxRedirects:   e.MaxRedirects,
		MaxHeaderSize:  e.MaxHeaderSize,
		MaxBodySize:    e.MaxBodySize,
		PoolPerHost:    e.PoolPerHost,
		Nameserver:     e.Nameserver,
		DNSTimeout:     e.DNSTimeout,
	}
}

// UserConfigDir returns ~/.config/browsercore, mirroring
// internal/config/paths.go's GetUserConfigDir shape (there:
// ~/.wingthing).
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "browsercore"), nil
}

// Load reads engine.yaml from dir, falling back to Default() when the
// file does not exist, per SPEC_FULL.md §4.14: "falls back to built-in
// defaults if absent," mirroring LoadWingConfig's load-or-default
// pattern.
func Load(dir string) (EngineConfig, error) {
	cfg := Default()
	path := filepath.Join(dir, "engine.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return EngineConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Save persists cfg to dir/engine.yaml, creating dir if needed, mirroring
// SaveWingConfig's load-or-default-and-persist pattern.
func Save(dir string, cfg EngineConfig) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "engine.yaml"), data, 0644)
}
