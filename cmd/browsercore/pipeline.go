package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/devtools"
	"github.com/ehrlich-b/browsercore/internal/diskcache"
	"github.com/ehrlich-b/browsercore/internal/dom"
	"github.com/ehrlich-b/browsercore/internal/engconfig"
	"github.com/ehrlich-b/browsercore/internal/htmlparse"
	"github.com/ehrlich-b/browsercore/internal/layout"
	"github.com/ehrlich-b/browsercore/internal/logger"
	"github.com/ehrlich-b/browsercore/internal/netfetch"
	"github.com/ehrlich-b/browsercore/internal/paint"
	"github.com/ehrlich-b/browsercore/internal/raster"
	"github.com/ehrlich-b/browsercore/internal/style"
)

// pipeline holds the long-lived dependencies a render invocation needs,
// built once per process the way cmd/wt's clientFromConfig builds one
// transport.Client from config.Load().
type pipeline struct {
	cfg    engconfig.EngineConfig
	client *netfetch.Client
	store  *diskcache.Store
	hub    *devtools.Hub
}

// newPipeline loads EngineConfig from dir (per SPEC_FULL.md §4.14,
// falling back to defaults) and wires a netfetch.Client to the on-disk
// cache the same way SPEC_FULL.md §4.15 describes: DNS resolver and HTTP
// cache both backed by diskcache.Store, with the cache layered on top of
// (never instead of) the live network.
func newPipeline(configDir string) (*pipeline, error) {
	cfg, err := engconfig.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load engine config: %w", err)
	}

	dbPath := configDir + "/cache.db"
	dcStore, err := diskcache.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open disk cache: %w", err)
	}

	client := netfetch.NewClient(cfg.ToNetfetchConfig())
	now := time.Now
	client.Resolver = &diskcache.DNSResolver{Store: dcStore, Inner: client.Resolver, Now: now}
	client.Cache = &diskcache.HTTPCache{Store: dcStore, Now: now}

	return &pipeline{cfg: cfg, client: client, store: dcStore, hub: devtools.NewHub()}, nil
}

func (p *pipeline) Close() {
	p.client.Close()
	p.store.Close()
}

// renderResult is everything one fetch+render invocation produced, handed
// back to whichever command (render/serve) asked for it.
type renderResult struct {
	SourceURL string
	Tree      *dom.Tree
	Sheets    []*css.Stylesheet
	Box       *layout.Box
	Items     []paint.Item
	Framebuf  *raster.Framebuffer
}

// renderURL fetches rawURL, then runs it through parse→cascade→layout→
// paint→rasterize, the same pipeline `internal/paint/paint_test.go`'s
// buildAndPaint helper exercises, but driven off a live network fetch.
// sessionID, if non-empty, streams devtools snapshots to that session
// as each stage completes, per SPEC_FULL.md §4.16.
func (p *pipeline) renderURL(ctx context.Context, rawURL string, viewportWidth float64, sessionID string) (*renderResult, error) {
	requestID := uuid.New().String()
	var session *devtools.Session
	if sessionID != "" {
		session = p.hub.Open(sessionID)
		session.EmitNetEvent(ctx, requestID, "fetch_start", rawURL, "")
	}

	resp, err := p.client.Fetch(ctx, rawURL)
	if err != nil {
		if session != nil {
			session.EmitNetEvent(ctx, requestID, "fetch_error", rawURL, err.Error())
		}
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if session != nil {
		session.EmitNetEvent(ctx, requestID, "fetch_done", resp.FinalURL, fmt.Sprintf("status=%d", resp.Status))
	}

	return p.renderDocument(ctx, resp.FinalURL, resp.Body, viewportWidth, session)
}

// renderFile reads a local HTML file and runs it through the same
// pipeline, for `browsercore render` on a local path (including
// --watch's live-reload, SPEC_FULL.md §3.1), where there is nothing to
// fetch over the network.
func (p *pipeline) renderFile(ctx context.Context, path string, viewportWidth float64, sessionID string) (*renderResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var session *devtools.Session
	if sessionID != "" {
		session = p.hub.Open(sessionID)
	}
	return p.renderDocument(ctx, path, data, viewportWidth, session)
}

func (p *pipeline) renderDocument(ctx context.Context, sourceURL string, html []byte, viewportWidth float64, session *devtools.Session) (*renderResult, error) {
	tree := htmlparse.Parse(html)
	if session != nil {
		session.EmitDOMSnapshot(ctx, tree)
	}

	sheets := []*css.Stylesheet{style.UserAgentStylesheet()}
	sheets = append(sheets, collectAuthorStylesheets(tree)...)

	styles := collectStyles(tree, sheets)
	if session != nil {
		session.EmitStyleSnapshot(ctx, tree, sheets)
	}

	root, ok := firstElementChild(tree, tree.Root)
	if !ok {
		return nil, fmt.Errorf("render %s: no root element in document", sourceURL)
	}
	box := layout.BuildTree(tree, styles, root)
	box.Content.Width = viewportWidth
	layout.Layout(box, viewportWidth)
	layout.Resolve(box, 0, 0)
	if session != nil {
		session.EmitLayoutSnapshot(ctx, box)
	}

	items := paint.Build(box)
	if session != nil {
		session.EmitDisplayListSnapshot(ctx, items)
	}

	height := int(box.BorderBox().Height)
	if height < 1 {
		height = 1
	}
	fb := raster.New(int(viewportWidth), height)
	raster.Rasterize(fb, items, nil)

	logger.Info("rendered document", "url", sourceURL, "nodes", len(styles), "paint_items", len(items))

	return &renderResult{SourceURL: sourceURL, Tree: tree, Sheets: sheets, Box: box, Items: items, Framebuf: fb}, nil
}

// collectAuthorStylesheets walks tree for <style> elements and parses
// their text as author stylesheets. <link rel="stylesheet"> elements and
// @import rules are not followed; nothing is fetched for the cascade.
func collectAuthorStylesheets(tree *dom.Tree) []*css.Stylesheet {
	var sheets []*css.Stylesheet
	var walk func(h arena.Handle)
	walk = func(h arena.Handle) {
		n := tree.Node(h)
		if n == nil {
			return
		}
		if n.Kind == dom.KindElement && n.Element.Tag == "style" {
			if text := textContent(tree, h); text != "" {
				sheets = append(sheets, css.Parse(text, css.OriginAuthor))
			}
		}
		for _, c := range tree.Children(h) {
			walk(c)
		}
	}
	walk(tree.Root)
	return sheets
}

func textContent(tree *dom.Tree, h arena.Handle) string {
	var out string
	for _, c := range tree.Children(h) {
		if n := tree.Node(c); n != nil && n.Kind == dom.KindText {
			out += n.Text
		}
	}
	return out
}

func firstElementChild(tree *dom.Tree, h arena.Handle) (arena.Handle, bool) {
	for _, c := range tree.ElementChildren(h) {
		n := tree.Node(c)
		if n.Element.Tag == "html" {
			for _, gc := range tree.ElementChildren(c) {
				if gcn := tree.Node(gc); gcn.Element.Tag == "body" {
					return gc, true
				}
			}
			return c, true
		}
		return c, true
	}
	return arena.Handle{}, false
}

func collectStyles(tree *dom.Tree, sheets []*css.Stylesheet) map[arena.Handle]*style.ComputedStyle {
	out := map[arena.Handle]*style.ComputedStyle{}
	var walk func(h arena.Handle, parent *style.ComputedStyle)
	walk = func(h arena.Handle, parent *style.ComputedStyle) {
		n := tree.Node(h)
		if n == nil || n.Kind != dom.KindElement {
			for _, c := range tree.Children(h) {
				walk(c, parent)
			}
			return
		}
		st := style.Resolve(tree, h, parent, sheets)
		out[h] = &st
		for _, c := range tree.Children(h) {
			walk(c, &st)
		}
	}
	walk(tree.Root, nil)
	return out
}
