// Package bytecode decodes a method's raw Code array into a sequence of
// instructions with resolved branch targets, and builds the per-method
// internal/cfg graph from that sequence plus its exception table. It sits
// above internal/cfg the way the teacher's internal/disasm sits below
// internal/callgraph: cfg owns the generic graph invariants, bytecode
// supplies the JVM-specific decode that feeds them.
package bytecode

import "classfile/internal/cfg"

// Opcode is a single JVM instruction byte (JVM spec §6.5).
type Opcode byte

const (
	OpNop             Opcode = 0
	OpAconstNull      Opcode = 1
	OpIconstM1        Opcode = 2
	OpBipush          Opcode = 16
	OpSipush          Opcode = 17
	OpLdc             Opcode = 18
	OpLdcW            Opcode = 19
	OpLdc2W           Opcode = 20
	OpIload           Opcode = 21
	OpLload           Opcode = 22
	OpFload           Opcode = 23
	OpDload           Opcode = 24
	OpAload           Opcode = 25
	OpIstore          Opcode = 54
	OpLstore          Opcode = 55
	OpFstore          Opcode = 56
	OpDstore          Opcode = 57
	OpAstore          Opcode = 58
	OpIinc            Opcode = 132
	OpIfeq            Opcode = 153
	OpIfne            Opcode = 154
	OpIflt            Opcode = 155
	OpIfge            Opcode = 156
	OpIfgt            Opcode = 157
	OpIfle            Opcode = 158
	OpIfIcmpeq        Opcode = 159
	OpIfIcmpne        Opcode = 160
	OpIfIcmplt        Opcode = 161
	OpIfIcmpge        Opcode = 162
	OpIfIcmpgt        Opcode = 163
	OpIfIcmple        Opcode = 164
	OpIfAcmpeq        Opcode = 165
	OpIfAcmpne        Opcode = 166
	OpGoto            Opcode = 167
	OpJsr             Opcode = 168
	OpRet             Opcode = 169
	OpTableswitch     Opcode = 170
	OpLookupswitch    Opcode = 171
	OpIreturn         Opcode = 172
	OpLreturn         Opcode = 173
	OpFreturn         Opcode = 174
	OpDreturn         Opcode = 175
	OpAreturn         Opcode = 176
	OpReturn          Opcode = 177
	OpGetstatic       Opcode = 178
	OpPutstatic       Opcode = 179
	OpGetfield        Opcode = 180
	OpPutfield        Opcode = 181
	OpInvokevirtual   Opcode = 182
	OpInvokespecial   Opcode = 183
	OpInvokestatic    Opcode = 184
	OpInvokeinterface Opcode = 185
	OpInvokedynamic   Opcode = 186
	OpNew             Opcode = 187
	OpNewarray        Opcode = 188
	OpAnewarray       Opcode = 189
	OpArraylength     Opcode = 190
	OpAthrow          Opcode = 191
	OpCheckcast       Opcode = 192
	OpInstanceof      Opcode = 193
	OpMonitorenter    Opcode = 194
	OpMonitorexit     Opcode = 195
	OpWide            Opcode = 196
	OpMultianewarray  Opcode = 197
	OpIfnull          Opcode = 198
	OpIfnonnull       Opcode = 199
	OpGotoW           Opcode = 200
	OpJsrW            Opcode = 201
)

// fixedOperandLen gives the operand length (bytes after the opcode byte,
// excluding the opcode itself) for every opcode whose length does not
// depend on alignment or a sub-opcode. tableswitch, lookupswitch, and
// wide are handled separately in Decode.
var fixedOperandLen = map[Opcode]int{
	16: 1, 17: 2, 18: 1, 19: 2, 20: 2,
	21: 1, 22: 1, 23: 1, 24: 1, 25: 1,
	54: 1, 55: 1, 56: 1, 57: 1, 58: 1,
	132: 2,
	153: 2, 154: 2, 155: 2, 156: 2, 157: 2, 158: 2,
	159: 2, 160: 2, 161: 2, 162: 2, 163: 2, 164: 2, 165: 2, 166: 2,
	167: 2, 168: 2, 169: 1,
	178: 2, 179: 2, 180: 2, 181: 2,
	182: 2, 183: 2, 184: 2, 185: 4, 186: 4,
	187: 2, 188: 1, 189: 2, 192: 2, 193: 2,
	197: 3, 198: 2, 199: 2, 200: 4, 201: 4,
}

// Term classifies how op affects control flow; see spec.md §4.5.
func (op Opcode) Term() cfg.TermKind {
	switch op {
	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpIfnull, OpIfnonnull:
		return cfg.KindConditionalJump
	case OpGoto, OpGotoW, OpJsr, OpJsrW:
		return cfg.KindJump
	case OpTableswitch, OpLookupswitch:
		return cfg.KindSwitch
	case OpIreturn, OpLreturn, OpFreturn, OpDreturn, OpAreturn, OpReturn:
		return cfg.KindReturn
	case OpAthrow:
		return cfg.KindThrow
	default:
		return cfg.KindPlain
	}
}

// IsInvoke reports whether op is one of the five method-invocation forms.
func (op Opcode) IsInvoke() bool {
	switch op {
	case OpInvokevirtual, OpInvokespecial, OpInvokestatic, OpInvokeinterface, OpInvokedynamic:
		return true
	}
	return false
}
