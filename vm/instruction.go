package vm

// Opcode is the closed set of TinyVM mnemonics.
type Opcode int

const (
	OpNop Opcode = iota
	OpInt
	OpMov
	OpPush
	OpPop
	OpPushf
	OpPopf
	OpInc
	OpDec
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpRem
	OpNot
	OpXor
	OpOr
	OpAnd
	OpShl
	OpShr
	OpCmp
	OpJmp
	OpCall
	OpRet
	OpJe
	OpJne
	OpJg
	OpJge
	OpJl
	OpJle
	OpPrn
)

var mnemonics = map[string]Opcode{
	"nop": OpNop, "int": OpInt, "mov": OpMov, "push": OpPush, "pop": OpPop,
	"pushf": OpPushf, "popf": OpPopf, "inc": OpInc, "dec": OpDec,
	"add": OpAdd, "sub": OpSub, "mul": OpMul, "div": OpDiv, "mod": OpMod,
	"rem": OpRem, "not": OpNot, "xor": OpXor, "or": OpOr, "and": OpAnd,
	"shl": OpShl, "shr": OpShr, "cmp": OpCmp, "jmp": OpJmp, "call": OpCall,
	"ret": OpRet, "je": OpJe, "jne": OpJne, "jg": OpJg, "jge": OpJge,
	"jl": OpJl, "jle": OpJle, "prn": OpPrn,
}

var mnemonicNames = func() map[Opcode]string {
	m := make(map[Opcode]string, len(mnemonics))
	for name, op := range mnemonics {
		m[op] = name
	}
	return m
}()

func (op Opcode) String() string {
	if name, ok := mnemonicNames[op]; ok {
		return name
	}
	return "invalid"
}

// LookupMnemonic returns the Opcode for a mnemonic token, if any.
func LookupMnemonic(token string) (Opcode, bool) {
	op, ok := mnemonics[token]
	return op, ok
}

// Arity describes the operand shape a mnemonic expects, used by the
// parser to enforce the Source/Target split statically.
type Arity int

const (
	ArityNone      Arity = iota // nop, int, pushf, popf, ret
	ArityTarget                 // inc, dec, pop, not, rem
	AritySource                 // push, jmp, call, je, jne, jg, jge, jl, jle, prn
	ArityTwoSource              // cmp, mod
	ArityTargetSource           // mov, add, sub, mul, div, xor, or, and, shl, shr
)

// Signature returns the operand arity for a mnemonic, used to validate
// operand count and Source/Target kind during parsing.
func Signature(op Opcode) Arity {
	switch op {
	case OpNop, OpInt, OpPushf, OpPopf, OpRet:
		return ArityNone
	case OpInc, OpDec, OpPop, OpNot, OpRem:
		return ArityTarget
	case OpPush, OpJmp, OpCall, OpJe, OpJne, OpJg, OpJge, OpJl, OpJle, OpPrn:
		return AritySource
	case OpCmp, OpMod:
		return ArityTwoSource
	case OpMov, OpAdd, OpSub, OpMul, OpDiv, OpXor, OpOr, OpAnd, OpShl, OpShr:
		return ArityTargetSource
	default:
		return ArityNone
	}
}

// Instruction is a fully-resolved, typed operation ready for execution.
// Labels never survive into an Instruction: any label reference has
// already been collapsed into a Source carrying an instruction index.
type Instruction struct {
	Op     Opcode
	Target Target // valid for ArityTarget, ArityTargetSource
	Src1   Source // valid for AritySource (as the sole source), ArityTwoSource, ArityTargetSource
	Src2   Source // valid for ArityTwoSource (second operand of cmp/mod)
}
