package main

import (
	"context"
	"testing"

	"github.com/ehrlich-b/browsercore/internal/diskcache"
	"github.com/ehrlich-b/browsercore/internal/engconfig"
	"github.com/ehrlich-b/browsercore/internal/netfetch"
)

func newTestPipeline(t *testing.T) *pipeline {
	t.Helper()
	store, err := diskcache.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := engconfig.Default()
	client := netfetch.NewClient(cfg.ToNetfetchConfig())
	t.Cleanup(client.Close)

	return &pipeline{cfg: cfg, client: client, store: store, hub: nil}
}

func TestRenderDocumentBuildsFullPipeline(t *testing.T) {
	p := newTestPipeline(t)
	html := []byte(`<html><body><div style="color: red;">hi <span>there</span></div></body></html>`)

	result, err := p.renderDocument(context.Background(), "test.html", html, 800, nil)
	if err != nil {
		t.Fatalf("renderDocument: %v", err)
	}
	if result.Box == nil {
		t.Fatal("expected a non-nil layout box")
	}
	if len(result.Items) == 0 {
		t.Error("expected at least one paint item")
	}
	if result.Framebuf == nil || result.Framebuf.Pix == nil {
		t.Fatal("expected a non-nil framebuffer")
	}
}

func TestCollectAuthorStylesheetsFindsInlineStyleTags(t *testing.T) {
	p := newTestPipeline(t)
	html := []byte(`<html><head><style>.a { color: blue; }</style></head><body><div class="a">x</div></body></html>`)

	result, err := p.renderDocument(context.Background(), "test.html", html, 400, nil)
	if err != nil {
		t.Fatalf("renderDocument: %v", err)
	}
	// UserAgentStylesheet + the one inline <style> block.
	if len(result.Sheets) != 2 {
		t.Errorf("expected 2 stylesheets (UA + inline), got %d", len(result.Sheets))
	}
}

func TestRenderDocumentRejectsEmptyDocument(t *testing.T) {
	p := newTestPipeline(t)
	if _, err := p.renderDocument(context.Background(), "empty.html", []byte(""), 400, nil); err == nil {
		t.Error("expected an error for a document with no root element")
	}
}
