package vm

import (
	"fmt"
	"io"
	"os"
)

// InstructionOutOfRangeError reports an Eip outside [0, len(instructions)].
type InstructionOutOfRangeError struct {
	Index int32
}

func (e *InstructionOutOfRangeError) Error() string {
	return fmt.Sprintf("instruction out of range: %d", e.Index)
}

// ArithmeticFaultError reports a division or modulus by zero.
type ArithmeticFaultError struct{}

func (e *ArithmeticFaultError) Error() string { return "arithmetic fault: division by zero" }

// Program is the immutable result of loading TinyVM assembly: an
// ordered instruction vector and the entry point (the start label's
// instruction index, or 0 if absent).
type Program struct {
	Instructions          []Instruction
	StartInstructionIndex int32
}

// Executor runs a Program against a Memory, one instruction at a time.
// Memory is exclusively owned by the Executor for the run's lifetime;
// construct a fresh Memory (via NewRun) for each independent execution.
type Executor struct {
	Program *Program
	Memory  *Memory

	// OutputWriter receives prn output, one line per print. Defaults to
	// os.Stdout; tests and embedders (service.Session, the debugger, the
	// API server) substitute their own writer to capture output.
	OutputWriter io.Writer
}

// NewRun creates an Executor over prog with a fresh Memory sized per
// memoryWords/stackWords, ready to Step or Run to completion.
func NewRun(prog *Program, memoryWords, stackWords int) *Executor {
	return &Executor{
		Program:      prog,
		Memory:       NewMemoryWithSize(prog.StartInstructionIndex, memoryWords, stackWords),
		OutputWriter: os.Stdout,
	}
}

// Run executes to natural termination or to the first fault.
func (e *Executor) Run() error {
	for {
		halted, err := e.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

// Step executes a single instruction. It returns halted=true when Eip
// has reached len(Instructions), the sole natural termination
// condition; it never advances past that point.
func (e *Executor) Step() (halted bool, err error) {
	ip := e.Memory.Registers[Eip]
	n := int32(len(e.Program.Instructions))

	if ip == n {
		return true, nil
	}
	if ip < 0 || ip > n {
		return false, &InstructionOutOfRangeError{Index: ip}
	}

	inst := e.Program.Instructions[ip]
	branched, err := e.execute(ip, inst)
	if err != nil {
		return false, err
	}
	if !branched {
		e.Memory.Registers[Eip] = ip + 1
	}
	return false, nil
}

// execute performs the semantics of a single decoded instruction.
// It returns branched=true if it set Eip itself (jmp/call/ret/je/jne/
// jg/jge/jl/jle), so the caller must not also advance it.
func (e *Executor) execute(ip int32, inst Instruction) (branched bool, err error) {
	m := e.Memory

	readSrc1 := func() (int32, error) { return m.ReadSource(inst.Src1) }
	readSrc2 := func() (int32, error) { return m.ReadSource(inst.Src2) }
	readTarget := func() (int32, error) { return m.ReadSource(inst.Target.AsSource()) }

	switch inst.Op {
	case OpNop, OpInt:
		// int is a reserved no-op.

	case OpMov:
		v, err := readSrc1()
		if err != nil {
			return false, err
		}
		return false, m.WriteTarget(inst.Target, v)

	case OpPush:
		v, err := readSrc1()
		if err != nil {
			return false, err
		}
		return false, m.Push(v)

	case OpPop:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		return false, m.WriteTarget(inst.Target, v)

	case OpPushf:
		return false, m.Push(m.Flags)

	case OpPopf:
		v, err := m.Pop()
		if err != nil {
			return false, err
		}
		m.Flags = v
		return false, nil

	case OpInc:
		v, err := readTarget()
		if err != nil {
			return false, err
		}
		return false, m.WriteTarget(inst.Target, v+1)

	case OpDec:
		v, err := readTarget()
		if err != nil {
			return false, err
		}
		return false, m.WriteTarget(inst.Target, v-1)

	case OpAdd, OpSub, OpMul, OpDiv:
		t, err := readTarget()
		if err != nil {
			return false, err
		}
		s, err := readSrc1()
		if err != nil {
			return false, err
		}
		var result int32
		switch inst.Op {
		case OpAdd:
			result = t + s
		case OpSub:
			result = t - s
		case OpMul:
			result = t * s
		case OpDiv:
			if s == 0 {
				return false, &ArithmeticFaultError{}
			}
			result = t / s
		}
		return false, m.WriteTarget(inst.Target, result)

	case OpMod:
		a, err := readSrc1()
		if err != nil {
			return false, err
		}
		b, err := readSrc2()
		if err != nil {
			return false, err
		}
		if b == 0 {
			return false, &ArithmeticFaultError{}
		}
		m.Remainder = a % b
		return false, nil

	case OpRem:
		return false, m.WriteTarget(inst.Target, m.Remainder)

	case OpNot:
		v, err := readTarget()
		if err != nil {
			return false, err
		}
		return false, m.WriteTarget(inst.Target, ^v)

	case OpXor, OpOr, OpAnd, OpShl, OpShr:
		t, err := readTarget()
		if err != nil {
			return false, err
		}
		s, err := readSrc1()
		if err != nil {
			return false, err
		}
		var result int32
		switch inst.Op {
		case OpXor:
			result = t ^ s
		case OpOr:
			result = t | s
		case OpAnd:
			result = t & s
		case OpShl:
			result = t << uint32(s)
		case OpShr:
			result = t >> uint32(s)
		}
		return false, m.WriteTarget(inst.Target, result)

	case OpCmp:
		a, err := readSrc1()
		if err != nil {
			return false, err
		}
		b, err := readSrc2()
		if err != nil {
			return false, err
		}
		m.SetCompareFlags(a, b)
		return false, nil

	case OpJmp:
		return e.branchIf(true, inst)

	case OpCall:
		target, err := readSrc1()
		if err != nil {
			return false, err
		}
		if err := m.Push(ip + 1); err != nil {
			return false, err
		}
		m.Registers[Eip] = target
		return true, nil

	case OpRet:
		target, err := m.Pop()
		if err != nil {
			return false, err
		}
		m.Registers[Eip] = target
		return true, nil

	case OpJe:
		return e.branchIf(m.flagEqual(), inst)
	case OpJne:
		return e.branchIf(!m.flagEqual(), inst)
	case OpJg:
		return e.branchIf(m.flagGreater(), inst)
	case OpJge:
		return e.branchIf(m.flagGreaterOrEqual(), inst)
	case OpJl:
		return e.branchIf(m.flagLess(), inst)
	case OpJle:
		return e.branchIf(!m.flagGreater(), inst)

	case OpPrn:
		v, err := readSrc1()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(e.OutputWriter, "%d\n", v)
		return false, nil
	}

	return false, nil
}

func (e *Executor) branchIf(cond bool, inst Instruction) (branched bool, err error) {
	if !cond {
		return false, nil
	}
	target, err := e.Memory.ReadSource(inst.Src1)
	if err != nil {
		return false, err
	}
	e.Memory.Registers[Eip] = target
	return true, nil
}
