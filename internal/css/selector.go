package css

// Combinator is the relationship between one compound selector and the
// compound immediately to its left in source order.
type Combinator int

const (
	CombinatorNone Combinator = iota // only valid on the last (leftmost) part
	CombinatorDescendant
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
)

// AttrOp enumerates the attribute-selector match operators of spec §3.
type AttrOp int

const (
	AttrExists AttrOp = iota
	AttrEquals
	AttrIncludes // ~=
	AttrDashMatch
	AttrPrefix // ^=
	AttrSuffix // $=
	AttrSubstring
)

// SimpleSelectorKind tags the variant of a SimpleSelector.
type SimpleSelectorKind int

const (
	SimType SimpleSelectorKind = iota
	SimUniversal
	SimID
	SimClass
	SimAttribute
	SimPseudoClass
	SimPseudoElement
	SimNot
)

// SimpleSelector is one atom of a CompoundSelector.
type SimpleSelector struct {
	Kind SimpleSelectorKind

	Name     string // type name / id / class / attribute name / pseudo name
	AttrOp   AttrOp
	AttrVal  string
	NthA     int // nth-child(an+b): coefficient a
	NthB     int // nth-child(an+b): offset b
	NotArg   *CompoundSelector
}

// CompoundSelector is a sequence of SimpleSelectors with no combinator
// between them; it matches a single element.
type CompoundSelector struct {
	Simples []SimpleSelector
}

// ComplexPart is one (compound, combinator-to-its-left) pair in a
// ComplexSelector's right-to-left storage order.
type ComplexPart struct {
	Compound         CompoundSelector
	CombinatorToLeft Combinator
}

// ComplexSelector is stored subject-first (index 0 = rightmost compound),
// per spec §3: "an ordered sequence ... stored right-to-left".
type ComplexSelector struct {
	Parts []ComplexPart
}

// Specificity is the (a, b, c) lexicographic triple of spec §3.
type Specificity struct {
	A, B, C int
}

// Less reports whether s sorts before o in cascade precedence (lower wins
// first, higher overrides).
func (s Specificity) Less(o Specificity) bool {
	if s.A != o.A {
		return s.A < o.A
	}
	if s.B != o.B {
		return s.B < o.B
	}
	return s.C < o.C
}

func (s Specificity) add(o Specificity) Specificity {
	return Specificity{A: s.A + o.A, B: s.B + o.B, C: s.C + o.C}
}

// ComputeSpecificity sums the specificity contribution of every simple
// selector across every compound of sel, per the testable property in
// spec §8: compute_specificity(S) = Σ compute_specificity(compound part).
func ComputeSpecificity(sel ComplexSelector) Specificity {
	var total Specificity
	for _, part := range sel.Parts {
		total = total.add(compoundSpecificity(part.Compound))
	}
	return total
}

func compoundSpecificity(c CompoundSelector) Specificity {
	var total Specificity
	for _, s := range c.Simples {
		total = total.add(simpleSpecificity(s))
	}
	return total
}

func simpleSpecificity(s SimpleSelector) Specificity {
	switch s.Kind {
	case SimID:
		return Specificity{A: 1}
	case SimClass, SimAttribute, SimPseudoClass:
		return Specificity{B: 1}
	case SimType, SimPseudoElement:
		return Specificity{C: 1}
	case SimNot:
		// :not(X) contributes the specificity of X, per spec §3/§4.2.
		if s.NotArg != nil {
			return compoundSpecificity(*s.NotArg)
		}
		return Specificity{}
	default: // SimUniversal
		return Specificity{}
	}
}
