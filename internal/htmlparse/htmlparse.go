// Package htmlparse turns a byte sequence into a dom.Tree. It never fails:
// malformed markup produces a best-effort tree, matching the error-recovery
// rules of spec §4.1. The tokenizer is a small hand-rolled rune scanner in
// the style of the Caddyfile lexer this engine was grounded on
// (teemuteemu-caddy-language-server/internal/parser/lexer.go) — a run loop
// over a []rune with an explicit position cursor, no regexp.
package htmlparse

import (
	"strings"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/dom"
)

// Parse builds a dom.Tree from src. The returned tree's Root is the
// synthetic Document node. No html/head/body elements are inserted: a
// fragment like "<p>..." yields the <p> as the Document's direct child.
func Parse(src []byte) *dom.Tree {
	p := &parser{src: []rune(string(src)), tree: dom.NewTree()}
	p.openStack = []arena.Handle{p.tree.Root}
	p.run()
	return p.tree
}

type parser struct {
	src []rune
	pos int

	tree      *dom.Tree
	openStack []arena.Handle // innermost last
}

func (p *parser) top() arena.Handle {
	return p.openStack[len(p.openStack)-1]
}

func (p *parser) push(h arena.Handle) {
	p.openStack = append(p.openStack, h)
}

func (p *parser) pop() {
	if len(p.openStack) > 1 {
		p.openStack = p.openStack[:len(p.openStack)-1]
	}
}

func (p *parser) run() {
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch {
		case ch == '<':
			p.parseTag()
		default:
			p.parseText()
		}
	}
}

func (p *parser) parseText() {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '<' {
		p.pos++
	}
	text := string(p.src[start:p.pos])
	if text == "" {
		return
	}
	p.appendText(text)
}

func (p *parser) appendText(text string) {
	h := p.tree.NewText(text)
	p.tree.AppendChild(p.top(), h)
}

// parseTag dispatches on the character following '<'.
func (p *parser) parseTag() {
	// p.src[p.pos] == '<'
	if p.hasPrefix("<!--") {
		p.parseComment()
		return
	}
	if p.hasPrefix("<![CDATA[") {
		p.parseCDATA()
		return
	}
	if p.hasPrefixFold("<!DOCTYPE") {
		p.parseDoctype()
		return
	}
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
		p.parseEndTag()
		return
	}
	if p.pos+1 < len(p.src) && isNameStart(p.src[p.pos+1]) {
		p.parseStartTag()
		return
	}
	// bare '<' with no recognizable tag: literal text.
	p.appendText("<")
	p.pos++
}

func (p *parser) hasPrefix(s string) bool {
	r := []rune(s)
	if p.pos+len(r) > len(p.src) {
		return false
	}
	for i, c := range r {
		if p.src[p.pos+i] != c {
			return false
		}
	}
	return true
}

func (p *parser) hasPrefixFold(s string) bool {
	r := []rune(s)
	if p.pos+len(r) > len(p.src) {
		return false
	}
	for i, c := range r {
		if lowerRune(p.src[p.pos+i]) != lowerRune(c) {
			return false
		}
	}
	return true
}

func lowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func isNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameChar(r rune) bool {
	return isNameStart(r) || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == ':'
}

func (p *parser) parseComment() {
	p.pos += len("<!--")
	start := p.pos
	end := strings.Index(string(p.src[p.pos:]), "-->")
	var text string
	if end < 0 {
		text = string(p.src[start:])
		p.pos = len(p.src)
	} else {
		text = string(p.src[start : start+end])
		p.pos = start + end + len("-->")
	}
	h := p.tree.NewComment(text)
	p.tree.AppendChild(p.top(), h)
}

func (p *parser) parseCDATA() {
	p.pos += len("<![CDATA[")
	start := p.pos
	end := strings.Index(string(p.src[p.pos:]), "]]>")
	var text string
	if end < 0 {
		text = string(p.src[start:])
		p.pos = len(p.src)
	} else {
		text = string(p.src[start : start+end])
		p.pos = start + end + len("]]>")
	}
	p.appendText(text)
}

func (p *parser) parseDoctype() {
	start := p.pos
	end := strings.IndexRune(string(p.src[p.pos:]), '>')
	var inner string
	if end < 0 {
		inner = string(p.src[start:])
		p.pos = len(p.src)
	} else {
		inner = string(p.src[start : start+end])
		p.pos = start + end + 1
	}
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(inner, "<!DOCTYPE"), "<!doctype"))
	h := p.tree.NewDoctype(strings.TrimSpace(name))
	p.tree.AppendChild(p.top(), h)
}

func (p *parser) parseEndTag() {
	p.pos += 2 // "</"
	start := p.pos
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	name := strings.ToLower(string(p.src[start:p.pos]))
	// skip to '>'
	for p.pos < len(p.src) && p.src[p.pos] != '>' {
		p.pos++
	}
	if p.pos < len(p.src) {
		p.pos++ // consume '>'
	}
	if dom.VoidElements[name] {
		return // silently ignored per spec §4.1
	}
	// pop open elements up to and including the matching name, if found.
	for i := len(p.openStack) - 1; i > 0; i-- {
		n := p.tree.Node(p.openStack[i])
		if n != nil && n.Element != nil && n.Element.Tag == name {
			p.openStack = p.openStack[:i]
			return
		}
	}
	// no matching open element: ignore the stray end tag.
}

func (p *parser) parseStartTag() {
	p.pos++ // '<'
	start := p.pos
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	name := strings.ToLower(string(p.src[start:p.pos]))

	attrs := p.parseAttrs()

	selfClose := false
	if p.pos < len(p.src) && p.src[p.pos] == '/' {
		selfClose = true
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '>' {
		p.pos++
	}

	el := p.tree.NewElement(name, dom.NamespaceHTML)
	for _, a := range attrs {
		p.tree.SetAttr(el, a.name, a.value)
	}
	p.tree.AppendChild(p.top(), el)

	if dom.VoidElements[name] || selfClose {
		return
	}
	if dom.RawTextElements[name] {
		p.consumeRawText(name, el)
		return
	}
	p.push(el)
}

type rawAttr struct{ name, value string }

func (p *parser) parseAttrs() []rawAttr {
	var attrs []rawAttr
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] == '>' || p.src[p.pos] == '/' {
			return attrs
		}
		nameStart := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '=' && p.src[p.pos] != '>' &&
			p.src[p.pos] != '/' && !isSpace(p.src[p.pos]) {
			p.pos++
		}
		name := strings.ToLower(string(p.src[nameStart:p.pos]))
		if name == "" {
			p.pos++
			continue
		}
		p.skipSpace()
		value := ""
		if p.pos < len(p.src) && p.src[p.pos] == '=' {
			p.pos++
			p.skipSpace()
			value = p.parseAttrValue()
		}
		attrs = append(attrs, rawAttr{name: name, value: value})
	}
}

func (p *parser) parseAttrValue() string {
	if p.pos >= len(p.src) {
		return ""
	}
	quote := p.src[p.pos]
	if quote == '"' || quote == '\'' {
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != quote {
			p.pos++
		}
		value := string(p.src[start:p.pos])
		if p.pos < len(p.src) {
			p.pos++ // closing quote
		}
		return value
	}
	start := p.pos
	for p.pos < len(p.src) && !isSpace(p.src[p.pos]) && p.src[p.pos] != '>' {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// consumeRawText implements the <script>/<style> raw-text content model:
// everything up to the matching end tag becomes a single Text child.
func (p *parser) consumeRawText(name string, el arena.Handle) {
	endTag := "</" + name
	rest := string(p.src[p.pos:])
	idx := strings.Index(strings.ToLower(rest), endTag)
	var content string
	if idx < 0 {
		content = rest
		p.pos = len(p.src)
	} else {
		content = rest[:idx]
		p.pos += len([]rune(rest[:idx]))
		// advance past the end tag itself.
		closeRest := p.src[p.pos:]
		gt := strings.IndexRune(string(closeRest), '>')
		if gt < 0 {
			p.pos = len(p.src)
		} else {
			p.pos += gt + 1
		}
	}
	if content != "" {
		h := p.tree.NewText(content)
		p.tree.AppendChild(el, h)
	}
}
