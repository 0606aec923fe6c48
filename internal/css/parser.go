package css

import (
	"strconv"
	"strings"
)

// Parse tokenizes and parses src into a Stylesheet tagged with origin, per
// spec §4.2. Parsing never fails outright: a malformed qualified rule or
// declaration is dropped and parsing resumes at the next top-level `}` or
// `;`, matching the recoverable-error tier of spec §7.
func Parse(src string, origin Origin) *Stylesheet {
	toks := Tokenize(src)
	p := &parser{toks: toks, origin: origin}
	return p.parseStylesheet()
}

type parser struct {
	toks   []Token
	pos    int
	origin Origin
	order  int
	sheet  Stylesheet
}

func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	t := p.peek()
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipWhitespace() {
	for p.peek().Kind == TokWhitespace {
		p.pos++
	}
}

// nestableAtRules flatten their body into the outer rule list, per spec
// §4.2: "@media, @supports, @document, @layer, @container ... parse their
// body recursively (nested rules flatten into the outer rule list)".
var nestableAtRules = map[string]bool{
	"media": true, "supports": true, "document": true, "layer": true, "container": true,
}

func (p *parser) parseStylesheet() *Stylesheet {
	for {
		p.skipWhitespace()
		t := p.peek()
		switch t.Kind {
		case TokEOF:
			return &p.sheet
		case TokCDO, TokCDC:
			p.pos++
		case TokAtKeyword:
			p.parseAtRule()
		default:
			p.parseQualifiedRule()
		}
	}
}

func (p *parser) parseAtRule() {
	name := strings.ToLower(p.next().Text)
	// collect prelude up to '{' or ';'
	for p.peek().Kind != TokLBrace && p.peek().Kind != TokSemicolon && p.peek().Kind != TokEOF {
		p.pos++
	}
	if p.peek().Kind == TokSemicolon {
		p.pos++ // statement at-rule with no body, e.g. @import (non-goal: dropped)
		return
	}
	if p.peek().Kind != TokLBrace {
		return
	}
	if !nestableAtRules[name] {
		p.skipBalancedBraces()
		return
	}
	// Recurse: parse the body as if it were a nested stylesheet and flatten
	// its rules into the outer list.
	p.pos++ // consume '{'
	for {
		p.skipWhitespace()
		t := p.peek()
		if t.Kind == TokRBrace || t.Kind == TokEOF {
			if t.Kind == TokRBrace {
				p.pos++
			}
			return
		}
		if t.Kind == TokAtKeyword {
			p.parseAtRule()
			continue
		}
		p.parseQualifiedRule()
	}
}

// skipBalancedBraces consumes tokens from the current '{' through its
// matching '}', for at-rules this core does not interpret.
func (p *parser) skipBalancedBraces() {
	depth := 0
	for {
		t := p.next()
		switch t.Kind {
		case TokLBrace:
			depth++
		case TokRBrace:
			depth--
			if depth == 0 {
				return
			}
		case TokEOF:
			return
		}
	}
}

func (p *parser) parseQualifiedRule() {
	start := p.pos
	var prelude []Token
	for p.peek().Kind != TokLBrace && p.peek().Kind != TokEOF {
		if p.peek().Kind == TokRBrace {
			// malformed: bail to recovery.
			p.pos++
			return
		}
		prelude = append(prelude, p.next())
	}
	if p.peek().Kind != TokLBrace {
		p.pos = start
		// no block found before EOF: drop the partial rule.
		for p.peek().Kind != TokEOF {
			p.pos++
		}
		return
	}
	p.pos++ // consume '{'
	var body []Token
	depth := 1
	for {
		t := p.next()
		if t.Kind == TokEOF {
			break
		}
		if t.Kind == TokLBrace {
			depth++
		}
		if t.Kind == TokRBrace {
			depth--
			if depth == 0 {
				break
			}
		}
		body = append(body, t)
	}

	selectors := parseSelectorList(prelude)
	if len(selectors) == 0 {
		return // selector list empty after errors: rule dropped, spec §4.2/§7
	}
	decls := parseDeclarationBlock(body)
	p.sheet.Rules = append(p.sheet.Rules, Rule{
		Selectors:    selectors,
		Declarations: decls,
		Origin:       p.origin,
		SourceOrder:  p.order,
	})
	p.order++
}

// parseDeclarationBlock splits body on top-level ';' and parses each
// `ident : value` declaration, dropping ones that fail to parse while
// keeping the rest of the block intact (spec §7 tier 1).
func parseDeclarationBlock(body []Token) []Declaration {
	var decls []Declaration
	var cur []Token
	depth := 0
	flush := func() {
		if d, ok := parseDeclaration(cur); ok {
			decls = append(decls, d)
		}
		cur = nil
	}
	for _, t := range body {
		switch t.Kind {
		case TokLParen, TokLBracket, TokFunction:
			depth++
		case TokRParen, TokRBracket:
			depth--
		}
		if t.Kind == TokSemicolon && depth == 0 {
			flush()
			continue
		}
		cur = append(cur, t)
	}
	flush()
	return decls
}

func parseDeclaration(toks []Token) (Declaration, bool) {
	i := 0
	for i < len(toks) && toks[i].Kind == TokWhitespace {
		i++
	}
	if i >= len(toks) || toks[i].Kind != TokIdent {
		return Declaration{}, false
	}
	name := strings.ToLower(toks[i].Text)
	i++
	for i < len(toks) && toks[i].Kind == TokWhitespace {
		i++
	}
	if i >= len(toks) || toks[i].Kind != TokColon {
		return Declaration{}, false
	}
	i++
	valueToks := toks[i:]

	important := false
	// backward scan for Delim('!') Whitespace? Ident("important"), spec §4.2.
	end := len(valueToks)
	for end > 0 && valueToks[end-1].Kind == TokWhitespace {
		end--
	}
	if end > 0 && valueToks[end-1].Kind == TokIdent && strings.EqualFold(valueToks[end-1].Text, "important") {
		j := end - 1
		for j > 0 && valueToks[j-1].Kind == TokWhitespace {
			j--
		}
		if j > 0 && valueToks[j-1].Kind == TokDelim && valueToks[j-1].Delim == '!' {
			important = true
			end = j - 1
			for end > 0 && valueToks[end-1].Kind == TokWhitespace {
				end--
			}
		}
	}
	values := parseValueList(valueToks[:end])
	return Declaration{Name: name, Value: values, Important: important}, true
}

// parseSelectorList splits prelude on top-level commas and parses each
// complex selector.
func parseSelectorList(prelude []Token) []ComplexSelector {
	var groups [][]Token
	var cur []Token
	depth := 0
	for _, t := range prelude {
		switch t.Kind {
		case TokLParen, TokLBracket, TokFunction:
			depth++
		case TokRParen, TokRBracket:
			depth--
		}
		if t.Kind == TokComma && depth == 0 {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)

	var out []ComplexSelector
	for _, g := range groups {
		if sel, ok := parseComplexSelector(g); ok {
			out = append(out, sel)
		}
	}
	return out
}

// parseComplexSelector builds compounds left-to-right then reverses them so
// the subject ends at index 0, per spec §3/§4.2.
func parseComplexSelector(toks []Token) (ComplexSelector, bool) {
	i := 0
	skipWS := func() {
		for i < len(toks) && toks[i].Kind == TokWhitespace {
			i++
		}
	}
	skipWS()
	if i >= len(toks) {
		return ComplexSelector{}, false
	}

	var parts []ComplexPart
	pendingCombinator := CombinatorNone
	first := true

	for i < len(toks) {
		skipWS()
		if i >= len(toks) {
			break
		}
		if toks[i].Kind == TokDelim && (toks[i].Delim == '>' || toks[i].Delim == '+' || toks[i].Delim == '~') {
			switch toks[i].Delim {
			case '>':
				pendingCombinator = CombinatorChild
			case '+':
				pendingCombinator = CombinatorNextSibling
			case '~':
				pendingCombinator = CombinatorSubsequentSibling
			}
			i++
			skipWS()
			continue
		}
		start := i
		compound, consumed := parseCompoundFrom(toks[i:])
		if consumed == 0 {
			i++
			continue
		}
		i = start + consumed

		comb := pendingCombinator
		if !first && comb == CombinatorNone {
			comb = CombinatorDescendant
		}
		parts = append(parts, ComplexPart{Compound: compound, CombinatorToLeft: comb})
		pendingCombinator = CombinatorNone
		first = false
	}
	if len(parts) == 0 {
		return ComplexSelector{}, false
	}
	// reverse so subject (last parsed, rightmost) ends at index 0.
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	// after reversal, the combinator stored on each part must describe its
	// relationship to the part now to its right (the part closer to the
	// subject) -- which is exactly the combinator it was parsed with to its
	// *left* in source order, already correct per-part; only the final
	// element's combinator must read "none" (spec §3), which holds because
	// original index 0 (first compound parsed) always carried comb==None.
	return ComplexSelector{Parts: parts}, true
}

func parseCompoundFrom(toks []Token) (CompoundSelector, int) {
	var c CompoundSelector
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case TokIdent:
			c.Simples = append(c.Simples, SimpleSelector{Kind: SimType, Name: strings.ToLower(t.Text)})
			i++
		case TokDelim:
			if t.Delim == '*' {
				c.Simples = append(c.Simples, SimpleSelector{Kind: SimUniversal})
				i++
				continue
			}
			if t.Delim == '.' && i+1 < len(toks) && toks[i+1].Kind == TokIdent {
				c.Simples = append(c.Simples, SimpleSelector{Kind: SimClass, Name: toks[i+1].Text})
				i += 2
				continue
			}
			return c, i
		case TokHash:
			if t.IsID {
				c.Simples = append(c.Simples, SimpleSelector{Kind: SimID, Name: t.Text})
			}
			i++
		case TokLBracket:
			attr, n := parseAttrSelector(toks[i:])
			if n == 0 {
				return c, i
			}
			c.Simples = append(c.Simples, attr)
			i += n
		case TokColon:
			pseudo, n := parsePseudo(toks[i:])
			if n == 0 {
				return c, i
			}
			c.Simples = append(c.Simples, pseudo...)
			i += n
		default:
			return c, i
		}
	}
	return c, i
}

func parseAttrSelector(toks []Token) (SimpleSelector, int) {
	// toks[0] == '['
	i := 1
	if i >= len(toks) || toks[i].Kind != TokIdent {
		return SimpleSelector{}, 0
	}
	name := toks[i].Text
	i++
	sel := SimpleSelector{Kind: SimAttribute, Name: name, AttrOp: AttrExists}
	if i < len(toks) && toks[i].Kind != TokRBracket {
		op, ok := attrOpFrom(toks, &i)
		if ok {
			sel.AttrOp = op
			if i < len(toks) && (toks[i].Kind == TokString || toks[i].Kind == TokIdent) {
				sel.AttrVal = toks[i].Text
				i++
			}
		}
	}
	for i < len(toks) && toks[i].Kind != TokRBracket {
		i++
	}
	if i >= len(toks) {
		return SimpleSelector{}, 0
	}
	i++ // consume ']'
	return sel, i
}

func attrOpFrom(toks []Token, i *int) (AttrOp, bool) {
	t := toks[*i]
	if t.Kind == TokDelim {
		switch t.Delim {
		case '=':
			*i++
			return AttrEquals, true
		case '~':
			if *i+1 < len(toks) && toks[*i+1].Kind == TokDelim && toks[*i+1].Delim == '=' {
				*i += 2
				return AttrIncludes, true
			}
		case '|':
			if *i+1 < len(toks) && toks[*i+1].Kind == TokDelim && toks[*i+1].Delim == '=' {
				*i += 2
				return AttrDashMatch, true
			}
		case '^':
			if *i+1 < len(toks) && toks[*i+1].Kind == TokDelim && toks[*i+1].Delim == '=' {
				*i += 2
				return AttrPrefix, true
			}
		case '$':
			if *i+1 < len(toks) && toks[*i+1].Kind == TokDelim && toks[*i+1].Delim == '=' {
				*i += 2
				return AttrSuffix, true
			}
		case '*':
			if *i+1 < len(toks) && toks[*i+1].Kind == TokDelim && toks[*i+1].Delim == '=' {
				*i += 2
				return AttrSubstring, true
			}
		}
	}
	return AttrExists, false
}

// unknownFunctionalPseudos skip their arguments and contribute a universal
// selector, per spec §4.2.
var unknownFunctionalPseudos = map[string]bool{
	"is": true, "where": true, "has": true, "matches": true,
}

func parsePseudo(toks []Token) ([]SimpleSelector, int) {
	// toks[0] == ':'
	i := 1
	isElement := false
	if i < len(toks) && toks[i].Kind == TokColon {
		isElement = true
		i++
	}
	if i >= len(toks) {
		return nil, 0
	}
	switch toks[i].Kind {
	case TokIdent:
		name := strings.ToLower(toks[i].Text)
		i++
		kind := SimPseudoClass
		if isElement {
			kind = SimPseudoElement
		}
		return []SimpleSelector{{Kind: kind, Name: name}}, i
	case TokFunction:
		name := strings.ToLower(toks[i].Text)
		i++
		depth := 1
		start := i
		for i < len(toks) && depth > 0 {
			if toks[i].Kind == TokLParen || toks[i].Kind == TokFunction {
				depth++
			} else if toks[i].Kind == TokRParen {
				depth--
				if depth == 0 {
					break
				}
			}
			i++
		}
		args := toks[start:i]
		if i < len(toks) {
			i++ // consume ')'
		}
		if name == "not" {
			inner, _ := parseCompoundFrom(trimWS(args))
			return []SimpleSelector{{Kind: SimNot, Name: name, NotArg: &inner}}, i
		}
		if name == "nth-child" || name == "nth-last-child" || name == "nth-of-type" || name == "nth-last-of-type" {
			a, b := parseNth(args)
			return []SimpleSelector{{Kind: SimPseudoClass, Name: name, NthA: a, NthB: b}}, i
		}
		if unknownFunctionalPseudos[name] {
			return []SimpleSelector{{Kind: SimUniversal}}, i
		}
		return []SimpleSelector{{Kind: SimPseudoClass, Name: name}}, i
	}
	return nil, 0
}

func trimWS(toks []Token) []Token {
	i, j := 0, len(toks)
	for i < j && toks[i].Kind == TokWhitespace {
		i++
	}
	for j > i && toks[j-1].Kind == TokWhitespace {
		j--
	}
	return toks[i:j]
}

// parseNth parses the An+B micro-syntax of :nth-child()/:nth-of-type(), per
// spec §3/§4.3. Supports "odd", "even", "<int>", "<int>n", "<int>n+<int>",
// "<int>n-<int>", "n", "-n+<int>".
func parseNth(toks []Token) (a, b int) {
	toks = trimWS(toks)
	if len(toks) == 1 && toks[0].Kind == TokIdent {
		switch strings.ToLower(toks[0].Text) {
		case "odd":
			return 2, 1
		case "even":
			return 2, 0
		}
	}
	// Reassemble into a compact string and parse by hand; dimension tokens
	// like "2n" lex as Dimension{Number:2, Text:"n"}.
	var sign int = 1
	idx := 0
	if idx < len(toks) && toks[idx].Kind == TokDelim && (toks[idx].Delim == '+' || toks[idx].Delim == '-') {
		if toks[idx].Delim == '-' {
			sign = -1
		}
		idx++
	}
	if idx >= len(toks) {
		return 0, 0
	}
	t := toks[idx]
	name := strings.ToLower(t.Text)
	switch {
	case t.Kind == TokDimension && (name == "n" || strings.HasPrefix(name, "n-")):
		a = sign * int(t.Number)
	case t.Kind == TokIdent && (name == "n" || strings.HasPrefix(name, "n-")):
		a = sign
	case t.Kind == TokIdent && (name == "-n" || strings.HasPrefix(name, "-n-")):
		a = -1
		name = name[1:]
	case t.Kind == TokNumber:
		return 0, sign * int(t.Number)
	default:
		return 0, 0
	}
	idx++
	// "2n-1" and "n-1" lex as one name whose tail is "-<int>".
	if tail := strings.TrimPrefix(name, "n"); tail != "" {
		n, err := strconv.Atoi(tail)
		if err != nil {
			return 0, 0
		}
		return a, n
	}
	// optional trailing "+ b" / "- b"
	for idx < len(toks) && toks[idx].Kind == TokWhitespace {
		idx++
	}
	// "2n+1" lexes "+1" as one signed number token.
	if idx < len(toks) && toks[idx].Kind == TokNumber {
		return a, int(toks[idx].Number)
	}
	if idx < len(toks) && toks[idx].Kind == TokDelim && (toks[idx].Delim == '+' || toks[idx].Delim == '-') {
		bs := 1
		if toks[idx].Delim == '-' {
			bs = -1
		}
		idx++
		for idx < len(toks) && toks[idx].Kind == TokWhitespace {
			idx++
		}
		if idx < len(toks) && toks[idx].Kind == TokNumber {
			b = bs * int(toks[idx].Number)
		}
	}
	return a, b
}
