package css

import "testing"

func TestParseBasicRule(t *testing.T) {
	sheet := Parse("body { color: red; margin: 10px; }", OriginAuthor)
	if len(sheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(sheet.Rules))
	}
	r := sheet.Rules[0]
	if len(r.Selectors) != 1 {
		t.Fatalf("got %d selectors, want 1", len(r.Selectors))
	}
	subject := r.Selectors[0].Parts[0].Compound
	if len(subject.Simples) != 1 || subject.Simples[0].Kind != SimType || subject.Simples[0].Name != "body" {
		t.Fatalf("subject compound = %+v, want type(body)", subject)
	}
	if len(r.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(r.Declarations))
	}
	color := r.Declarations[0]
	if color.Name != "color" || color.Important {
		t.Errorf("color decl = %+v", color)
	}
	if len(color.Value) != 1 || color.Value[0].Kind != VColor || color.Value[0].Color != (Color{255, 0, 0, 1}) {
		t.Errorf("color value = %+v, want red", color.Value)
	}
	margin := r.Declarations[1]
	if margin.Name != "margin" || len(margin.Value) != 1 || margin.Value[0].Kind != VLength ||
		margin.Value[0].Number != 10 || margin.Value[0].Unit != "px" {
		t.Errorf("margin value = %+v, want 10px", margin.Value)
	}
}

func TestSpecificity(t *testing.T) {
	cases := []struct {
		sel  string
		want Specificity
	}{
		{"div.foo#bar", Specificity{1, 1, 1}},
		{"*", Specificity{0, 0, 0}},
	}
	for _, c := range cases {
		sheet := Parse(c.sel+" { color: red; }", OriginAuthor)
		if len(sheet.Rules) != 1 {
			t.Fatalf("%s: got %d rules", c.sel, len(sheet.Rules))
		}
		got := ComputeSpecificity(sheet.Rules[0].Selectors[0])
		if got != c.want {
			t.Errorf("specificity(%q) = %+v, want %+v", c.sel, got, c.want)
		}
	}

	idSheet := Parse("#id { color: red; }", OriginAuthor)
	classSheet := Parse(".class { color: red; }", OriginAuthor)
	idSpec := ComputeSpecificity(idSheet.Rules[0].Selectors[0])
	classSpec := ComputeSpecificity(classSheet.Rules[0].Selectors[0])
	if !classSpec.Less(idSpec) {
		t.Errorf("#id specificity %+v should exceed .class specificity %+v", idSpec, classSpec)
	}
}

func TestImportantDetection(t *testing.T) {
	sheet := Parse("p { color: red !important; margin: 1px; }", OriginAuthor)
	decls := sheet.Rules[0].Declarations
	if !decls[0].Important {
		t.Errorf("color declaration should be important")
	}
	if decls[1].Important {
		t.Errorf("margin declaration should not be important")
	}
}

func TestUnknownAtRuleSkipped(t *testing.T) {
	sheet := Parse("@import url(foo.css); p { color: blue; }", OriginAuthor)
	if len(sheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1 (import skipped)", len(sheet.Rules))
	}
}

func TestMediaRuleFlattens(t *testing.T) {
	sheet := Parse("@media screen { p { color: blue; } }", OriginAuthor)
	if len(sheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1 flattened from @media", len(sheet.Rules))
	}
}

func TestNotContributesInnerSpecificity(t *testing.T) {
	sheet := Parse("div:not(.foo) { color: red; }", OriginAuthor)
	got := ComputeSpecificity(sheet.Rules[0].Selectors[0])
	want := Specificity{A: 0, B: 1, C: 1} // type(div) + class(foo) via :not
	if got != want {
		t.Errorf("specificity(div:not(.foo)) = %+v, want %+v", got, want)
	}
}

func TestUnknownFunctionalPseudoIsUniversal(t *testing.T) {
	sheet := Parse("div:is(.a, .b) { color: red; }", OriginAuthor)
	got := ComputeSpecificity(sheet.Rules[0].Selectors[0])
	want := Specificity{C: 1} // type(div) only; :is(...) contributes 0
	if got != want {
		t.Errorf("specificity = %+v, want %+v", got, want)
	}
}

func TestDeclarationParseFailureDropsOnlyThatDeclaration(t *testing.T) {
	sheet := Parse("p { color red; margin: 1px; }", OriginAuthor)
	if len(sheet.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(sheet.Rules))
	}
	if len(sheet.Rules[0].Declarations) != 1 {
		t.Fatalf("got %d declarations, want 1 (malformed one dropped)", len(sheet.Rules[0].Declarations))
	}
}

func TestComplexSelectorRightToLeftStorage(t *testing.T) {
	sheet := Parse("ul li a { color: red; }", OriginAuthor)
	sel := sheet.Rules[0].Selectors[0]
	if len(sel.Parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(sel.Parts))
	}
	if sel.Parts[0].Compound.Simples[0].Name != "a" {
		t.Errorf("subject (index 0) = %+v, want type(a)", sel.Parts[0])
	}
	if sel.Parts[len(sel.Parts)-1].CombinatorToLeft != CombinatorNone {
		t.Errorf("last part's combinator should be absent")
	}
	if sel.Parts[0].CombinatorToLeft != CombinatorDescendant {
		t.Errorf("subject's combinator-to-left should be descendant, got %v", sel.Parts[0].CombinatorToLeft)
	}
}
