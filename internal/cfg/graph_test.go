package cfg

import "testing"

func TestJumpInstallsSingleEdge(t *testing.T) {
	g := NewGraph()
	from := NewBlock("bb0")
	to := NewBlock("bb1")
	g.AddBlock(from)
	g.AddBlock(to)

	if err := g.Jump(from, testInsn{name: "goto", kind: KindJump}, to); err != nil {
		t.Fatal(err)
	}
	edges := g.OutEdges(from)
	if len(edges) != 1 || edges[0].Kind != EdgeJump || edges[0].To != to {
		t.Fatalf("edges = %+v", edges)
	}
}

func TestJumpRejectsWrongKind(t *testing.T) {
	g := NewGraph()
	from, to := NewBlock("bb0"), NewBlock("bb1")
	err := g.Jump(from, testInsn{name: "nop", kind: KindPlain}, to)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestConditionalJumpInstallsBothEdges(t *testing.T) {
	g := NewGraph()
	from, t1, f1 := NewBlock("bb0"), NewBlock("bb1"), NewBlock("bb2")
	g.AddBlock(from)
	g.AddBlock(t1)
	g.AddBlock(f1)

	if err := g.ConditionalJump(from, testInsn{name: "ifeq", kind: KindConditionalJump}, t1, f1); err != nil {
		t.Fatal(err)
	}
	edges := g.OutEdges(from)
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}
}

func TestReturnInstallsEdgeIntoReturnBlock(t *testing.T) {
	g := NewGraph()
	from := NewBlock("bb0")
	g.AddBlock(from)

	if err := g.Return_(from, testInsn{name: "return", kind: KindReturn}); err != nil {
		t.Fatal(err)
	}
	edges := g.OutEdges(from)
	if len(edges) != 1 || edges[0].To != g.Return {
		t.Fatalf("edges = %+v", edges)
	}
}

func TestThrowInstallsEdgeIntoRethrowAndAllowsExceptionEdges(t *testing.T) {
	g := NewGraph()
	from := NewBlock("bb0")
	handler := NewBlock("bb1")
	g.AddBlock(from)
	g.AddBlock(handler)

	if err := g.Throw(from, testInsn{name: "athrow", kind: KindThrow}); err != nil {
		t.Fatal(err)
	}
	g.AddExceptionEdge(from, handler, "java/lang/Exception")

	edges := g.OutEdges(from)
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2 (jump + exception)", len(edges))
	}
}

func TestSwitchInstallsOneEdgePerCase(t *testing.T) {
	g := NewGraph()
	from := NewBlock("bb0")
	c0, c1, def := NewBlock("bb1"), NewBlock("bb2"), NewBlock("bb3")
	g.AddBlock(from)
	g.AddBlock(c0)
	g.AddBlock(c1)
	g.AddBlock(def)

	err := g.Switch(from, testInsn{name: "tableswitch", kind: KindSwitch}, []SwitchCase{
		{Value: 0, Target: c0},
		{Value: 1, Target: c1},
		{IsDefault: true, Target: def},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.OutEdges(from)) != 3 {
		t.Fatalf("edges = %d, want 3", len(g.OutEdges(from)))
	}
}

func TestCheckPassesOnWellFormedGraph(t *testing.T) {
	g := NewGraph()
	bb0 := NewBlock("bb0")
	g.AddBlock(bb0)
	g.AddFallthrough(g.Entry, bb0)
	if err := g.Return_(bb0, testInsn{name: "return", kind: KindReturn}); err != nil {
		t.Fatal(err)
	}
	if err := g.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckFailsWhenJumpBlockHasFallthrough(t *testing.T) {
	g := NewGraph()
	bb0, bb1 := NewBlock("bb0"), NewBlock("bb1")
	g.AddBlock(bb0)
	g.AddBlock(bb1)
	if err := g.Jump(bb0, testInsn{name: "goto", kind: KindJump}, bb1); err != nil {
		t.Fatal(err)
	}
	g.AddFallthrough(bb0, bb1) // illegal: jump block may not also fall through

	if err := g.Check(); err == nil {
		t.Fatal("expected invariant violation")
	}
}

func TestCheckFailsWhenReturnBlockCarriesInstructions(t *testing.T) {
	g := NewGraph()
	g.Return.AppendUnchecked(testInsn{name: "nop", kind: KindPlain})
	if err := g.Check(); err == nil {
		t.Fatal("expected invariant violation")
	}
}

func TestToLatticeDropsExceptionEdges(t *testing.T) {
	g := NewGraph()
	from, handler := NewBlock("bb0"), NewBlock("bb1")
	g.AddBlock(from)
	g.AddBlock(handler)
	if err := g.Throw(from, testInsn{name: "athrow", kind: KindThrow}); err != nil {
		t.Fatal(err)
	}
	g.AddExceptionEdge(from, handler, "java/lang/Exception")

	lcfg := g.ToLattice("run")

	idx := -1
	for i, b := range g.blocks {
		if b == from {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("from block not found")
	}
	succs := lcfg.Blocks[idx].Succs
	if len(succs) != 1 {
		t.Fatalf("lattice successors = %d, want 1 (exception edge dropped)", len(succs))
	}
}
