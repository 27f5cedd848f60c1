package bytecode

import (
	"encoding/binary"
	"fmt"

	"classfile/internal/cfg"
)

// SwitchCase is one (value, target) pair of a tableswitch or lookupswitch.
type SwitchCase struct {
	Value  int32
	Target int
}

// Insn is one decoded instruction: its offset in the Code array, its
// opcode, and — for the forms that carry one — its resolved absolute
// branch target(s). It implements cfg.Instruction.
type Insn struct {
	Offset int
	Opcode Opcode
	Len    int

	// BranchTarget is set for ifeq.../goto/jsr/goto_w/jsr_w: the single
	// absolute offset control transfers to.
	BranchTarget int

	// SwitchDefault and SwitchCases are set for tableswitch/lookupswitch.
	SwitchDefault int
	SwitchCases   []SwitchCase

	// CPIndex is the two-byte constant-pool index carried by instructions
	// that reference the pool (ldc family, field/method refs, new,
	// checkcast, instanceof, multianewarray). It is 0 where not applicable.
	CPIndex int
}

func (i Insn) Term() cfg.TermKind { return i.Opcode.Term() }

// End returns the offset one past the instruction's last byte.
func (i Insn) End() int { return i.Offset + i.Len }

// ErrMalformedCode reports a Code array that could not be decoded (a
// truncated operand) or whose branch and handler targets do not line up
// with block leaders in Build. Opcode bytes with no entry in the operand
// table are decoded as single-byte instructions, not reported.
type ErrMalformedCode struct {
	Offset int
	Reason string
}

func (e *ErrMalformedCode) Error() string {
	return fmt.Sprintf("bytecode: malformed code at offset %d: %s", e.Offset, e.Reason)
}

// Decode scans code into a sequence of Insn, resolving every branch and
// switch target to an absolute offset within code.
func Decode(code []byte) ([]Insn, error) {
	var out []Insn
	off := 0
	for off < len(code) {
		op := Opcode(code[off])
		insn := Insn{Offset: off, Opcode: op}

		switch op {
		case OpTableswitch, OpLookupswitch:
			n, err := decodeSwitch(code, off, op, &insn)
			if err != nil {
				return nil, err
			}
			insn.Len = n

		case OpWide:
			n, err := decodeWide(code, off, &insn)
			if err != nil {
				return nil, err
			}
			insn.Len = n

		default:
			operandLen := fixedOperandLen[op]
			if off+1+operandLen > len(code) {
				return nil, &ErrMalformedCode{Offset: off, Reason: "truncated operand"}
			}
			insn.Len = 1 + operandLen
			if err := resolveFixedOperand(code, off, op, &insn); err != nil {
				return nil, err
			}
		}

		out = append(out, insn)
		off += insn.Len
	}
	return out, nil
}

func resolveFixedOperand(code []byte, off int, op Opcode, insn *Insn) error {
	operand := code[off+1 : off+insn.Len]
	switch op {
	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpGoto, OpJsr, OpIfnull, OpIfnonnull:
		insn.BranchTarget = off + int(int16(binary.BigEndian.Uint16(operand)))
	case OpGotoW, OpJsrW:
		insn.BranchTarget = off + int(int32(binary.BigEndian.Uint32(operand)))
	case OpLdc:
		insn.CPIndex = int(operand[0])
	case OpLdcW, OpLdc2W, OpGetstatic, OpPutstatic, OpGetfield, OpPutfield,
		OpInvokevirtual, OpInvokespecial, OpInvokestatic, OpNew, OpAnewarray,
		OpCheckcast, OpInstanceof:
		insn.CPIndex = int(binary.BigEndian.Uint16(operand))
	case OpInvokeinterface, OpInvokedynamic:
		insn.CPIndex = int(binary.BigEndian.Uint16(operand[:2]))
	case OpMultianewarray:
		insn.CPIndex = int(binary.BigEndian.Uint16(operand[:2]))
	}
	return nil
}

// decodeSwitch handles tableswitch/lookupswitch, whose operand is padded
// so the default-offset field starts at a multiple of four bytes from the
// start of the method's Code array.
func decodeSwitch(code []byte, off int, op Opcode, insn *Insn) (int, error) {
	pad := (4 - (off+1)%4) % 4
	p := off + 1 + pad
	if p+4 > len(code) {
		return 0, &ErrMalformedCode{Offset: off, Reason: "truncated switch header"}
	}
	def := int32(binary.BigEndian.Uint32(code[p : p+4]))
	insn.SwitchDefault = off + int(def)
	p += 4

	if op == OpTableswitch {
		if p+8 > len(code) {
			return 0, &ErrMalformedCode{Offset: off, Reason: "truncated tableswitch bounds"}
		}
		low := int32(binary.BigEndian.Uint32(code[p : p+4]))
		high := int32(binary.BigEndian.Uint32(code[p+4 : p+8]))
		p += 8
		for v := low; v <= high; v++ {
			if p+4 > len(code) {
				return 0, &ErrMalformedCode{Offset: off, Reason: "truncated tableswitch entries"}
			}
			jump := int32(binary.BigEndian.Uint32(code[p : p+4]))
			insn.SwitchCases = append(insn.SwitchCases, SwitchCase{Value: v, Target: off + int(jump)})
			p += 4
		}
		return p - off, nil
	}

	if p+4 > len(code) {
		return 0, &ErrMalformedCode{Offset: off, Reason: "truncated lookupswitch count"}
	}
	npairs := int32(binary.BigEndian.Uint32(code[p : p+4]))
	p += 4
	for i := int32(0); i < npairs; i++ {
		if p+8 > len(code) {
			return 0, &ErrMalformedCode{Offset: off, Reason: "truncated lookupswitch entries"}
		}
		match := int32(binary.BigEndian.Uint32(code[p : p+4]))
		jump := int32(binary.BigEndian.Uint32(code[p+4 : p+8]))
		insn.SwitchCases = append(insn.SwitchCases, SwitchCase{Value: match, Target: off + int(jump)})
		p += 8
	}
	return p - off, nil
}

// decodeWide handles the wide prefix: either a widened *load/*store/ret
// (1-byte sub-opcode + 2-byte index) or a widened iinc (+ 2-byte const).
func decodeWide(code []byte, off int, insn *Insn) (int, error) {
	if off+2 > len(code) {
		return 0, &ErrMalformedCode{Offset: off, Reason: "truncated wide"}
	}
	sub := Opcode(code[off+1])
	if sub == OpIinc {
		if off+6 > len(code) {
			return 0, &ErrMalformedCode{Offset: off, Reason: "truncated wide iinc"}
		}
		return 6, nil
	}
	if off+4 > len(code) {
		return 0, &ErrMalformedCode{Offset: off, Reason: "truncated wide load/store"}
	}
	return 4, nil
}
