package vm

import "fmt"

// Register is a closed enumeration of the 17 general-purpose registers.
// Ordinals are part of the contract: Esp is the stack pointer, Ebp its
// initial frame, Eip the instruction pointer.
type Register int

const (
	Eax Register = iota
	Ebx
	Ecx
	Edx
	Esi
	Edi
	Esp
	Ebp
	Eip
	R08
	R09
	R10
	R11
	R12
	R13
	R14
	R15
)

// NumRegisters is the fixed size of a Memory register file.
const NumRegisters = 17

var registerNames = [NumRegisters]string{
	Eax: "eax", Ebx: "ebx", Ecx: "ecx", Edx: "edx",
	Esi: "esi", Edi: "edi", Esp: "esp", Ebp: "ebp", Eip: "eip",
	R08: "r08", R09: "r09", R10: "r10", R11: "r11",
	R12: "r12", R13: "r13", R14: "r14", R15: "r15",
}

var registerByName = func() map[string]Register {
	m := make(map[string]Register, NumRegisters)
	for i, name := range registerNames {
		m[name] = Register(i)
	}
	return m
}()

func (r Register) String() string {
	if r < 0 || int(r) >= NumRegisters {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerNames[r]
}

// ParseRegister looks up a register by its case-sensitive, lowercase name.
func ParseRegister(name string) (Register, bool) {
	r, ok := registerByName[name]
	return r, ok
}
