package style

import (
	"sort"

	"github.com/ehrlich-b/browsercore/internal/arena"
	"github.com/ehrlich-b/browsercore/internal/css"
	"github.com/ehrlich-b/browsercore/internal/dom"
	"github.com/ehrlich-b/browsercore/internal/selector"
)

// MatchedDecl is one declaration that matched an element, carrying enough
// to sort it into cascade order (spec §4.4).
type MatchedDecl struct {
	Decl        css.Declaration
	Specificity css.Specificity
	Origin      css.Origin
	SourceOrder int
}

// precedenceRank implements the origin/importance ordering of spec §4.4:
// UA normal < user normal < author normal < author important < user
// important < UA important.
func precedenceRank(o css.Origin, important bool) int {
	if !important {
		return int(o)
	}
	return 5 - int(o)
}

// CollectMatched gathers every declaration from sheets whose rule matches
// el, tagged with its selector's specificity for this match.
func CollectMatched(tree *dom.Tree, el arena.Handle, sheets []*css.Stylesheet) []MatchedDecl {
	var out []MatchedDecl
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		for _, rule := range sheet.Rules {
			best, matched := bestMatchingSpecificity(tree, el, rule.Selectors)
			if !matched {
				continue
			}
			for _, d := range rule.Declarations {
				out = append(out, MatchedDecl{
					Decl:        d,
					Specificity: best,
					Origin:      rule.Origin,
					SourceOrder: rule.SourceOrder,
				})
			}
		}
	}
	return out
}

// bestMatchingSpecificity returns the highest specificity among the rule's
// selector list entries that match el (a rule applies once per element even
// if multiple of its grouped selectors match; CSS uses the matching
// selector's own specificity, and a rule may list several, so the highest
// is used to be the rule's effective matching specificity for the
// declarations it contributes here).
func bestMatchingSpecificity(tree *dom.Tree, el arena.Handle, sels []css.ComplexSelector) (css.Specificity, bool) {
	var best css.Specificity
	found := false
	for _, s := range sels {
		if !selector.Matches(tree, el, s) {
			continue
		}
		spec := css.ComputeSpecificity(s)
		if !found || best.Less(spec) {
			best = spec
			found = true
		}
	}
	return best, found
}

// sortCascade orders matched declarations ascending by precedence so the
// winner (last) is applied last, per spec §4.4.
func sortCascade(decls []MatchedDecl) {
	sort.SliceStable(decls, func(i, j int) bool {
		ri := precedenceRank(decls[i].Origin, decls[i].Decl.Important)
		rj := precedenceRank(decls[j].Origin, decls[j].Decl.Important)
		if ri != rj {
			return ri < rj
		}
		if decls[i].Specificity != decls[j].Specificity {
			return decls[i].Specificity.Less(decls[j].Specificity)
		}
		return decls[i].SourceOrder < decls[j].SourceOrder
	})
}

// Resolve produces el's ComputedStyle from its matched declarations and its
// parent's already-resolved style, per spec §4.4.
func Resolve(tree *dom.Tree, el arena.Handle, parent *ComputedStyle, sheets []*css.Stylesheet) ComputedStyle {
	var s ComputedStyle
	if parent != nil {
		s = Inherit(*parent)
	} else {
		s = Initial()
	}
	matched := CollectMatched(tree, el, sheets)
	sortCascade(matched)
	for _, m := range matched {
		applyDeclaration(&s, m.Decl, parent)
	}
	return s
}
