package dom

import (
	"testing"

	"github.com/ehrlich-b/browsercore/internal/arena"
)

func TestAppendChildInvariants(t *testing.T) {
	tree := NewTree()
	p := tree.NewElement("div", NamespaceHTML)
	tree.AppendChild(tree.Root, p)

	a := tree.NewText("a")
	b := tree.NewText("b")
	c := tree.NewText("c")
	tree.AppendChild(p, a)
	tree.AppendChild(p, b)
	tree.AppendChild(p, c)

	pnode := tree.Node(p)
	if pnode.FirstChild != a || pnode.LastChild != c {
		t.Fatalf("first/last child wrong: first=%v last=%v", pnode.FirstChild, pnode.LastChild)
	}

	var walked []arena.Handle
	for h := pnode.FirstChild; h.Valid(); {
		n := tree.Node(h)
		if n.Parent != p {
			t.Errorf("child %v parent = %v, want %v", h, n.Parent, p)
		}
		walked = append(walked, h)
		h = n.NextSibling
	}
	if len(walked) != 3 {
		t.Fatalf("walked %d nodes, want 3", len(walked))
	}
	if walked[len(walked)-1] != pnode.LastChild {
		t.Errorf("walking next_sibling* from first_child did not end at last_child")
	}

	h := pnode.LastChild
	steps := 0
	for h != pnode.FirstChild {
		n := tree.Node(h)
		h = n.PrevSibling
		steps++
		if steps > 10 {
			t.Fatalf("prev_sibling* walk did not terminate at first_child")
		}
	}
}

func TestClassAndIDCaching(t *testing.T) {
	tree := NewTree()
	el := tree.NewElement("DIV", NamespaceHTML)
	tree.SetAttr(el, "id", "main")
	tree.SetAttr(el, "class", "  foo   bar ")

	n := tree.Node(el)
	if n.Element.Tag != "div" {
		t.Errorf("tag = %q, want lowercased %q", n.Element.Tag, "div")
	}
	if n.Element.ID != "main" {
		t.Errorf("id = %q, want %q", n.Element.ID, "main")
	}
	if !n.Element.HasClass("foo") || !n.Element.HasClass("bar") {
		t.Errorf("classes = %v, want [foo bar]", n.Element.Classes)
	}
}

func TestVoidElementsNeverChildren(t *testing.T) {
	if !VoidElements["br"] || !VoidElements["img"] {
		t.Errorf("br/img should be void elements")
	}
	if VoidElements["div"] {
		t.Errorf("div must not be a void element")
	}
}
