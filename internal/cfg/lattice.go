package cfg

import "github.com/zboralski/lattice"

// CallInstruction is implemented by instructions that represent a method
// invocation or other call-like construct; ToLattice uses it to populate
// lattice.CallSite entries the way callgraph.convertFuncCFG populates
// them from disasm.CallEdge.
type CallInstruction interface {
	Instruction
	Callee() string
}

// ToLattice flattens the graph into a *lattice.FuncCFG: one
// lattice.BasicBlock per block, one lattice.Successor per control edge.
// Exception edges have no equivalent in lattice's model and are dropped —
// they remain queryable on the graph itself via Edges/OutEdges. Entry,
// Return, and Rethrow are included as ordinary empty blocks so every edge
// in the graph has a node to land on.
func (g *Graph) ToLattice(name string) *lattice.FuncCFG {
	ids := make(map[*Block]int, len(g.blocks))
	for i, b := range g.blocks {
		ids[b] = i
	}

	out := &lattice.FuncCFG{Name: name}
	offset := 0
	for _, b := range g.blocks {
		n := len(b.Instructions())
		lb := &lattice.BasicBlock{
			ID:    ids[b],
			Start: offset,
			End:   offset + n,
			Term:  isTerminal(b),
		}
		offset += n

		for _, e := range g.out[b] {
			if e.Kind == EdgeException {
				continue
			}
			lb.Succs = append(lb.Succs, lattice.Successor{
				BlockID: ids[e.To],
				Cond:    condLabel(e),
			})
		}

		for idx, insn := range b.Instructions() {
			if ci, ok := insn.(CallInstruction); ok {
				lb.Calls = append(lb.Calls, lattice.CallSite{
					Offset: offset - n + idx,
					Callee: ci.Callee(),
				})
			}
		}

		out.Blocks = append(out.Blocks, lb)
	}
	return out
}

func isTerminal(b *Block) bool {
	if b.kind == KindReturnBlock || b.kind == KindRethrowBlock {
		return true
	}
	insns := b.Instructions()
	if len(insns) == 0 {
		return false
	}
	switch insns[len(insns)-1].Term() {
	case KindReturn, KindThrow:
		return true
	}
	return false
}

func condLabel(e *Edge) string {
	switch e.Kind {
	case EdgeCondTrue:
		return "T"
	case EdgeCondFalse:
		return "F"
	case EdgeSwitchCase:
		if e.IsDefaultCase {
			return "default"
		}
		return "case"
	default:
		return ""
	}
}
