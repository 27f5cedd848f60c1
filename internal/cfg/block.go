// Package cfg models a per-method control-flow graph of instruction
// blocks: a unique entry, at most one return, at most one rethrow, and
// typed edges between them. The graph owns the invariants a disassembled
// or hand-built method body must hold; internal/classfile feeds it raw
// bytecode today and treats instructions as opaque payloads.
package cfg

// TermKind classifies how an instruction affects control flow. Only
// instructions with a non-Plain kind may install a graph edge; everything
// else is ordinary sequential code.
type TermKind int

const (
	KindPlain TermKind = iota
	KindJump
	KindConditionalJump
	KindSwitch
	KindReturn
	KindThrow
)

// Instruction is opaque to the graph beyond its termination kind — the
// same boundary spec.md draws around bytecode payloads.
type Instruction interface {
	Term() TermKind
}

// Cloner is implemented by instructions that need to be duplicated rather
// than shared when a block is deep-copied.
type Cloner interface {
	Clone() Instruction
}

// BlockKind distinguishes the three specialized blocks every graph owns
// from ordinary instruction-carrying blocks.
type BlockKind int

const (
	KindNormalBlock BlockKind = iota
	KindEntryBlock
	KindReturnBlock
	KindRethrowBlock
)

// Label is informational only; block identity is the *Block pointer
// (spec.md §3 Lifecycles).
type Label string

// Block is a labeled, ordered sequence of instructions. EntryBlock,
// ReturnBlock, and RethrowBlock are the same type with Kind set
// accordingly and are always empty — Append/Insert refuse to mutate them.
type Block struct {
	label  Label
	kind   BlockKind
	insns  []Instruction
	inline bool
}

// NewBlock creates an ordinary, empty block.
func NewBlock(label Label) *Block {
	return &Block{label: label, kind: KindNormalBlock}
}

func newSpecialBlock(label Label, kind BlockKind) *Block {
	return &Block{label: label, kind: kind}
}

func (b *Block) Label() Label  { return b.label }
func (b *Block) Kind() BlockKind { return b.kind }

// Instructions returns the block's instructions in order. Callers must
// not mutate the returned slice.
func (b *Block) Instructions() []Instruction { return b.insns }

// Inline reports whether the layout pass should merge this block at its
// single predecessor.
func (b *Block) Inline() bool { return b.inline }

// SetInline sets or clears the inline hint.
func (b *Block) SetInline(v bool) { b.inline = v }

// Append adds insn to the end of the block through the ordinary
// instruction API. Control-flow-terminating instructions are rejected —
// callers must route them through the graph's Jump/ConditionalJump/
// Switch/Return_/Throw primitives, which append the instruction and
// install the matching edge atomically.
func (b *Block) Append(insn Instruction) error {
	return b.appendChecked(insn, true)
}

// AppendUnchecked appends insn without the control-flow-terminating
// check — the do_raise=false override spec.md §4.5 reserves for
// deserialization paths that reconstruct the instruction and its edge in
// lock-step (e.g. decoding a method whose exception table and branch
// targets are already known).
func (b *Block) AppendUnchecked(insn Instruction) {
	_ = b.appendChecked(insn, false)
}

func (b *Block) appendChecked(insn Instruction, doRaise bool) error {
	if b.kind != KindNormalBlock {
		return &ErrIllegalInstruction{Reason: "cannot append to entry/return/rethrow block"}
	}
	if doRaise && insn.Term() != KindPlain {
		return &ErrIllegalInstruction{Reason: "control-flow-terminating instruction appended through block API"}
	}
	b.insns = append(b.insns, insn)
	return nil
}

// Insert places insn at index i through the ordinary instruction API,
// subject to the same control-flow-terminating restriction as Append.
func (b *Block) Insert(i int, insn Instruction) error {
	return b.insertChecked(i, insn, true)
}

// InsertUnchecked is the do_raise=false counterpart to AppendUnchecked.
func (b *Block) InsertUnchecked(i int, insn Instruction) {
	_ = b.insertChecked(i, insn, false)
}

func (b *Block) insertChecked(i int, insn Instruction, doRaise bool) error {
	if b.kind != KindNormalBlock {
		return &ErrIllegalInstruction{Reason: "cannot insert into entry/return/rethrow block"}
	}
	if doRaise && insn.Term() != KindPlain {
		return &ErrIllegalInstruction{Reason: "control-flow-terminating instruction inserted through block API"}
	}
	if i < 0 || i > len(b.insns) {
		return &ErrIllegalInstruction{Reason: "insert index out of range"}
	}
	b.insns = append(b.insns[:i:i], append([]Instruction{insn}, b.insns[i:]...)...)
	return nil
}

// Equal reports structural equality: same label, same instructions in
// the same order. Two distinct blocks with identical contents are Equal
// but remain distinct map/set keys, since the graph indexes blocks by
// identity (spec.md §4.5).
func (b *Block) Equal(other *Block) bool {
	if other == nil {
		return false
	}
	if b.label != other.label || b.kind != other.kind || len(b.insns) != len(other.insns) {
		return false
	}
	for i, insn := range b.insns {
		if insn != other.insns[i] {
			return false
		}
	}
	return true
}

// Copy returns a new block. When label is "", the original label carries
// over. When deep is true, every instruction that implements Cloner is
// cloned rather than shared.
func (b *Block) Copy(label Label, deep bool) *Block {
	out := &Block{label: b.label, kind: b.kind, inline: b.inline}
	if label != "" {
		out.label = label
	}
	out.insns = make([]Instruction, len(b.insns))
	for i, insn := range b.insns {
		if deep {
			if c, ok := insn.(Cloner); ok {
				out.insns[i] = c.Clone()
				continue
			}
		}
		out.insns[i] = insn
	}
	return out
}
