package bytecode

import (
	"fmt"
	"sort"

	"classfile/internal/cfg"
)

// ExceptionRange is the bytecode-offset form of one exception-table entry
// (classfile.ExceptionHandler, converted by the caller): the protected
// range [Start, End), the handler's entry offset, and the caught type's
// internal name ("" for catch-all).
type ExceptionRange struct {
	Start, End, Handler int
	ExceptionClass      string
}

// Build constructs a *cfg.Graph from a method's decoded instructions and
// exception table, following the same three-pass leader/partition/
// successor shape as the teacher's disasm.BuildCFG: find leaders, slice
// into blocks, then wire each block's outgoing edges from its last
// instruction's classification.
func Build(name string, insns []Insn, handlers []ExceptionRange) (*cfg.Graph, error) {
	g := cfg.NewGraph()
	if len(insns) == 0 {
		g.AddFallthrough(g.Entry, g.Return)
		return g, nil
	}

	leaders := map[int]bool{insns[0].Offset: true}
	for _, in := range insns {
		switch in.Term() {
		case cfg.KindConditionalJump:
			leaders[in.BranchTarget] = true
			leaders[in.End()] = true
		case cfg.KindJump:
			leaders[in.BranchTarget] = true
		case cfg.KindSwitch:
			leaders[in.SwitchDefault] = true
			for _, c := range in.SwitchCases {
				leaders[c.Target] = true
			}
		case cfg.KindReturn, cfg.KindThrow:
			leaders[in.End()] = true
		}
	}
	for _, h := range handlers {
		leaders[h.Start] = true
		leaders[h.Handler] = true
	}

	offsets := make([]int, 0, len(leaders))
	for off := range leaders {
		if off >= 0 && off < insns[len(insns)-1].End() {
			offsets = append(offsets, off)
		}
	}
	sort.Ints(offsets)

	blockAt := make(map[int]*cfg.Block, len(offsets))
	for _, off := range offsets {
		b := cfg.NewBlock(cfg.Label(fmt.Sprintf("bb%d", off)))
		g.AddBlock(b)
		blockAt[off] = b
	}

	instAt := make(map[int]int, len(insns)) // offset -> index into insns
	for i, in := range insns {
		instAt[in.Offset] = i
	}

	blockOf := func(off int) (*cfg.Block, bool) {
		b, ok := blockAt[off]
		return b, ok
	}

	firstBlock, _ := blockOf(offsets[0])
	g.AddFallthrough(g.Entry, firstBlock)

	for i, start := range offsets {
		b := blockAt[start]
		end := insns[len(insns)-1].End()
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}

		idx, ok := instAt[start]
		if !ok {
			return nil, &ErrMalformedCode{Offset: start, Reason: "leader is not an instruction boundary"}
		}
		var body []Insn
		for ; idx < len(insns) && insns[idx].Offset < end; idx++ {
			body = append(body, insns[idx])
		}
		if len(body) == 0 {
			return nil, &ErrMalformedCode{Offset: start, Reason: "empty block"}
		}
		for _, in := range body[:len(body)-1] {
			if err := b.Append(in); err != nil {
				return nil, err
			}
		}
		last := body[len(body)-1]

		if err := wireBlock(g, b, last, end, blockOf); err != nil {
			return nil, err
		}
	}

	for _, h := range handlers {
		handlerBlock, ok := blockOf(h.Handler)
		if !ok {
			return nil, &ErrMalformedCode{Offset: h.Handler, Reason: "exception handler target is not a block leader"}
		}
		for _, off := range offsets {
			if off >= h.Start && off < h.End {
				g.AddExceptionEdge(blockAt[off], handlerBlock, h.ExceptionClass)
			}
		}
	}

	return g, nil
}

func wireBlock(g *cfg.Graph, b *cfg.Block, last Insn, blockEnd int, blockOf func(int) (*cfg.Block, bool)) error {
	switch last.Term() {
	case cfg.KindJump:
		target, ok := blockOf(last.BranchTarget)
		if !ok {
			return &ErrMalformedCode{Offset: last.Offset, Reason: "jump target is not a block leader"}
		}
		return g.Jump(b, last, target)

	case cfg.KindConditionalJump:
		trueTarget, ok := blockOf(last.BranchTarget)
		if !ok {
			return &ErrMalformedCode{Offset: last.Offset, Reason: "conditional jump target is not a block leader"}
		}
		falseTarget, ok := blockOf(blockEnd)
		if !ok {
			return &ErrMalformedCode{Offset: last.Offset, Reason: "conditional fallthrough is not a block leader"}
		}
		return g.ConditionalJump(b, last, trueTarget, falseTarget)

	case cfg.KindSwitch:
		cases := make([]cfg.SwitchCase, 0, len(last.SwitchCases)+1)
		for _, c := range last.SwitchCases {
			target, ok := blockOf(c.Target)
			if !ok {
				return &ErrMalformedCode{Offset: last.Offset, Reason: "switch case target is not a block leader"}
			}
			cases = append(cases, cfg.SwitchCase{Value: c.Value, Target: target})
		}
		defTarget, ok := blockOf(last.SwitchDefault)
		if !ok {
			return &ErrMalformedCode{Offset: last.Offset, Reason: "switch default target is not a block leader"}
		}
		cases = append(cases, cfg.SwitchCase{IsDefault: true, Target: defTarget})
		return g.Switch(b, last, cases)

	case cfg.KindReturn:
		return g.Return_(b, last)

	case cfg.KindThrow:
		return g.Throw(b, last)

	default:
		if err := b.Append(last); err != nil {
			return err
		}
		if target, ok := blockOf(blockEnd); ok {
			g.AddFallthrough(b, target)
			return nil
		}
		// Falls off the end of the method body with no explicit return —
		// malformed input, but spec.md §6 normalizes rather than raising
		// here; route it to Return so the graph stays well-formed.
		g.AddFallthrough(b, g.Return)
		return nil
	}
}
