// Package dom implements the arena-owned DOM tree produced by the HTML
// parser: Document/Element/Text/Comment/Doctype nodes linked by handles into
// a single Tree arena rather than by pointer.
package dom

import (
	"strings"

	"github.com/ehrlich-b/browsercore/internal/arena"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindComment
	KindDoctype
)

// Namespace tags the element's markup vocabulary.
type Namespace int

const (
	NamespaceHTML Namespace = iota
	NamespaceSVG
	NamespaceMathML
)

// Attr is a single (name, value) attribute pair in source order.
type Attr struct {
	Name  string
	Value string
}

// ElementData holds the element-kind-specific payload of a Node.
type ElementData struct {
	Tag       string // lowercased ASCII
	Namespace Namespace
	Attrs     []Attr
	ID        string
	Classes   []string
}

// Attr returns the value of the named attribute and whether it was present.
func (e *ElementData) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasClass reports whether class is present in the element's class list.
func (e *ElementData) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Node is one entry in a Tree's arena. Exactly one of Element/Text/Comment
// is meaningful, selected by Kind.
type Node struct {
	Kind Kind

	Parent       arena.Handle
	FirstChild   arena.Handle
	LastChild    arena.Handle
	PrevSibling  arena.Handle
	NextSibling  arena.Handle

	Element *ElementData
	Text    string // Text, Comment, Doctype payload
}

// Tree owns every Node of one parsed document.
type Tree struct {
	nodes *arena.Arena[Node]
	Root  arena.Handle // the Document node
}

// NewTree allocates an empty tree with a Document root.
func NewTree() *Tree {
	t := &Tree{nodes: arena.New[Node]()}
	t.Root = t.nodes.Alloc(Node{Kind: KindDocument})
	return t
}

// Node dereferences h, returning nil if it is stale.
func (t *Tree) Node(h arena.Handle) *Node {
	return t.nodes.GetPtr(h)
}

// NewElement allocates a detached element node.
func (t *Tree) NewElement(tag string, ns Namespace) arena.Handle {
	tag = strings.ToLower(tag)
	return t.nodes.Alloc(Node{
		Kind:    KindElement,
		Element: &ElementData{Tag: tag, Namespace: ns},
	})
}

// NewText allocates a detached text node.
func (t *Tree) NewText(text string) arena.Handle {
	return t.nodes.Alloc(Node{Kind: KindText, Text: text})
}

// NewComment allocates a detached comment node.
func (t *Tree) NewComment(text string) arena.Handle {
	return t.nodes.Alloc(Node{Kind: KindComment, Text: text})
}

// NewDoctype allocates a detached doctype node.
func (t *Tree) NewDoctype(name string) arena.Handle {
	return t.nodes.Alloc(Node{Kind: KindDoctype, Text: name})
}

// AppendChild links child as the last child of parent, closing the sibling
// chain. child must currently be detached.
func (t *Tree) AppendChild(parent, child arena.Handle) {
	p := t.Node(parent)
	c := t.Node(child)
	if p == nil || c == nil {
		return
	}
	c.Parent = parent
	if p.LastChild.Valid() {
		last := t.Node(p.LastChild)
		last.NextSibling = child
		c.PrevSibling = p.LastChild
	} else {
		p.FirstChild = child
	}
	p.LastChild = child
}

// SetAttr records a parsed attribute on an element node, caching id/class.
func (t *Tree) SetAttr(el arena.Handle, name, value string) {
	n := t.Node(el)
	if n == nil || n.Element == nil {
		return
	}
	n.Element.Attrs = append(n.Element.Attrs, Attr{Name: name, Value: value})
	switch name {
	case "id":
		n.Element.ID = value
	case "class":
		n.Element.Classes = tokenizeClasses(value)
	}
}

func tokenizeClasses(value string) []string {
	var out []string
	for _, f := range strings.Fields(value) {
		out = append(out, f)
	}
	return out
}

// Children returns the handles of the in-order children of n.
func (t *Tree) Children(n arena.Handle) []arena.Handle {
	var out []arena.Handle
	node := t.Node(n)
	if node == nil {
		return nil
	}
	for c := node.FirstChild; c.Valid(); {
		out = append(out, c)
		cn := t.Node(c)
		if cn == nil {
			break
		}
		c = cn.NextSibling
	}
	return out
}

// ElementChildren returns only the Element-kind children of n, in order.
func (t *Tree) ElementChildren(n arena.Handle) []arena.Handle {
	var out []arena.Handle
	for _, c := range t.Children(n) {
		if cn := t.Node(c); cn != nil && cn.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// PrevElementSibling returns the nearest preceding sibling that is an
// element, or the zero handle if none.
func (t *Tree) PrevElementSibling(n arena.Handle) arena.Handle {
	node := t.Node(n)
	if node == nil {
		return arena.Handle{}
	}
	for s := node.PrevSibling; s.Valid(); {
		sn := t.Node(s)
		if sn == nil {
			return arena.Handle{}
		}
		if sn.Kind == KindElement {
			return s
		}
		s = sn.PrevSibling
	}
	return arena.Handle{}
}

// VoidElements never receive children; a matching end tag is ignored.
var VoidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// RawTextElements consume character data verbatim up to their matching end
// tag rather than being parsed as markup.
var RawTextElements = map[string]bool{
	"script": true, "style": true,
}
