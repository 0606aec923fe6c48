// Package selector implements spec §4.3's right-to-left complex-selector
// matching against a dom.Tree, given parsed css.ComplexSelector values.
package selector

import (
	"strings"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/dom"
)

// Matches reports whether sel matches el in tree, per spec §4.3: walk
// right-to-left starting at the subject compound (index 0).
func Matches(tree *dom.Tree, el arena.Handle, sel css.ComplexSelector) bool {
	if len(sel.Parts) == 0 {
		return false
	}
	if !matchCompound(tree, el, sel.Parts[0].Compound) {
		return false
	}
	return matchAncestorChain(tree, el, sel.Parts, 1)
}

// matchAncestorChain walks sel.Parts[idx:] against the chain growing left
// from the already-matched node at el (which matched parts[idx-1]). The
// combinator joining parts[idx-1] to parts[idx] is stored on
// parts[idx-1].CombinatorToLeft.
func matchAncestorChain(tree *dom.Tree, el arena.Handle, parts []css.ComplexPart, idx int) bool {
	if idx >= len(parts) {
		return true
	}
	part := parts[idx]
	switch parts[idx-1].CombinatorToLeft {
	case css.CombinatorDescendant:
		for anc := parentElement(tree, el); anc.Valid(); anc = parentElement(tree, anc) {
			if matchCompound(tree, anc, part.Compound) && matchAncestorChain(tree, anc, parts, idx+1) {
				return true
			}
		}
		return false
	case css.CombinatorChild:
		p := parentElement(tree, el)
		if !p.Valid() {
			return false
		}
		return matchCompound(tree, p, part.Compound) && matchAncestorChain(tree, p, parts, idx+1)
	case css.CombinatorNextSibling:
		s := tree.PrevElementSibling(el)
		if !s.Valid() {
			return false
		}
		return matchCompound(tree, s, part.Compound) && matchAncestorChain(tree, s, parts, idx+1)
	case css.CombinatorSubsequentSibling:
		for s := tree.PrevElementSibling(el); s.Valid(); s = tree.PrevElementSibling(s) {
			if matchCompound(tree, s, part.Compound) && matchAncestorChain(tree, s, parts, idx+1) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func parentElement(tree *dom.Tree, h arena.Handle) arena.Handle {
	n := tree.Node(h)
	if n == nil || !n.Parent.Valid() {
		return arena.Handle{}
	}
	p := tree.Node(n.Parent)
	if p == nil || p.Kind != dom.KindElement {
		return arena.Handle{}
	}
	return n.Parent
}

func matchCompound(tree *dom.Tree, el arena.Handle, c css.CompoundSelector) bool {
	n := tree.Node(el)
	if n == nil || n.Kind != dom.KindElement {
		return false
	}
	for _, s := range c.Simples {
		if !matchSimple(tree, el, n, s) {
			return false
		}
	}
	return true
}

func matchSimple(tree *dom.Tree, el arena.Handle, n *dom.Node, s css.SimpleSelector) bool {
	ed := n.Element
	switch s.Kind {
	case css.SimUniversal:
		return true
	case css.SimType:
		return ed.Tag == s.Name
	case css.SimID:
		return ed.ID == s.Name
	case css.SimClass:
		return ed.HasClass(s.Name)
	case css.SimAttribute:
		return matchAttr(ed, s)
	case css.SimNot:
		if s.NotArg == nil {
			return true
		}
		return !matchCompound(tree, el, *s.NotArg)
	case css.SimPseudoClass:
		return matchPseudoClass(tree, el, s)
	case css.SimPseudoElement:
		// pseudo-elements don't affect static matching against a real node.
		return true
	default:
		return false
	}
}

func matchAttr(ed *dom.ElementData, s css.SimpleSelector) bool {
	val, ok := ed.Attr(s.Name)
	if !ok {
		return false
	}
	switch s.AttrOp {
	case css.AttrExists:
		return true
	case css.AttrEquals:
		return val == s.AttrVal
	case css.AttrIncludes:
		for _, tok := range strings.Fields(val) {
			if tok == s.AttrVal {
				return true
			}
		}
		return false
	case css.AttrDashMatch:
		return val == s.AttrVal || strings.HasPrefix(val, s.AttrVal+"-")
	case css.AttrPrefix:
		return strings.HasPrefix(val, s.AttrVal)
	case css.AttrSuffix:
		return strings.HasSuffix(val, s.AttrVal)
	case css.AttrSubstring:
		return strings.Contains(val, s.AttrVal)
	default:
		return false
	}
}

// dynamicPseudoClasses always fail during static resolution per spec §4.3
// point 4; they are re-evaluated at paint/event time by a component outside
// this package's scope.
var dynamicPseudoClasses = map[string]bool{
	"hover": true, "focus": true, "active": true, "visited": true,
	"checked": true, "disabled": true, "enabled": true, "required": true,
}

func matchPseudoClass(tree *dom.Tree, el arena.Handle, s css.SimpleSelector) bool {
	if dynamicPseudoClasses[s.Name] {
		return false
	}
	switch s.Name {
	case "root":
		n := tree.Node(el)
		return n != nil && !parentElement(tree, el).Valid()
	case "empty":
		n := tree.Node(el)
		if n == nil {
			return false
		}
		for c := n.FirstChild; c.Valid(); {
			cn := tree.Node(c)
			if cn == nil {
				break
			}
			if cn.Kind == dom.KindElement || (cn.Kind == dom.KindText && cn.Text != "") {
				return false
			}
			c = cn.NextSibling
		}
		return true
	case "first-child":
		return nthIndex(tree, el, false) == 1
	case "last-child":
		return nthIndexFromEnd(tree, el, false) == 1
	case "first-of-type":
		return nthIndex(tree, el, true) == 1
	case "last-of-type":
		return nthIndexFromEnd(tree, el, true) == 1
	case "nth-child":
		return matchesNth(nthIndex(tree, el, false), s.NthA, s.NthB)
	case "nth-last-child":
		return matchesNth(nthIndexFromEnd(tree, el, false), s.NthA, s.NthB)
	case "nth-of-type":
		return matchesNth(nthIndex(tree, el, true), s.NthA, s.NthB)
	case "nth-last-of-type":
		return matchesNth(nthIndexFromEnd(tree, el, true), s.NthA, s.NthB)
	default:
		return false
	}
}

// matchesNth reports whether the 1-based index n satisfies n = a*k + b for
// some non-negative integer k, per spec §4.3 point 5. a == 0 reduces to
// n == b.
func matchesNth(n, a, b int) bool {
	if n <= 0 {
		return false
	}
	if a == 0 {
		return n == b
	}
	k := n - b
	if k%a != 0 {
		return false
	}
	return k/a >= 0
}

// nthIndex returns the 1-based position of el among its element siblings,
// optionally restricted to siblings sharing its tag (sameType).
func nthIndex(tree *dom.Tree, el arena.Handle, sameType bool) int {
	n := tree.Node(el)
	if n == nil || !n.Parent.Valid() {
		return 1
	}
	tag := n.Element.Tag
	idx := 0
	for _, sib := range tree.ElementChildren(n.Parent) {
		sn := tree.Node(sib)
		if sameType && sn.Element.Tag != tag {
			continue
		}
		idx++
		if sib == el {
			return idx
		}
	}
	return idx
}

func nthIndexFromEnd(tree *dom.Tree, el arena.Handle, sameType bool) int {
	n := tree.Node(el)
	if n == nil || !n.Parent.Valid() {
		return 1
	}
	tag := n.Element.Tag
	kids := tree.ElementChildren(n.Parent)
	var filtered []arena.Handle
	for _, sib := range kids {
		sn := tree.Node(sib)
		if sameType && sn.Element.Tag != tag {
			continue
		}
		filtered = append(filtered, sib)
	}
	for i, sib := range filtered {
		if sib == el {
			return len(filtered) - i
		}
	}
	return len(filtered)
}
