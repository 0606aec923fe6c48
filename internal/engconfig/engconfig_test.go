package engconfig

import (
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToDefaultWhenAbsent(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load() on an empty dir = %+v, want defaults %+v", cfg, want)
	}
}

func TestSaveThenLoadRoundtrips(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.UserAgent = "test-agent/9"
	cfg.MaxRedirects = 5
	cfg.DevtoolsBindAddr = "127.0.0.1:9222"

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round-tripped config = %+v, want %+v", got, cfg)
	}
	if _, err := filepath.Abs(filepath.Join(dir, "engine.yaml")); err != nil {
		t.Fatal(err)
	}
}

func TestToNetfetchConfigCarriesEveryField(t *testing.T) {
	cfg := Default()
	cfg.Nameserver = "1.1.1.1:53"
	nf := cfg.ToNetfetchConfig()

	if nf.UserAgent != cfg.UserAgent ||
		nf.ConnectTimeout != cfg.ConnectTimeout ||
		nf.ReadTimeout != cfg.ReadTimeout ||
		nf.MaxRedirects != cfg.MaxRedirects ||
		nf.MaxHeaderSize != cfg.MaxHeaderSize ||
		nf.MaxBodySize != cfg.MaxBodySize ||
		nf.PoolPerHost != cfg.PoolPerHost ||
		nf.Nameserver != cfg.Nameserver ||
		nf.DNSTimeout != cfg.DNSTimeout {
		t.Errorf("ToNetfetchConfig() = %+v, want a field-for-field match with %+v", nf, cfg)
	}
}

func TestDefaultMaxRedirectsMatchesSpecCap(t *testing.T) {
	if got := Default().MaxRedirects; got != 20 {
		t.Errorf("MaxRedirects = %d, want 20 per spec §5", got)
	}
}
