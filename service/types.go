package service

import "tinyvm/vm"

// RegisterState is a JSON-friendly snapshot of a single execution's
// register file, flags, and program counter.
type RegisterState struct {
	Registers [vm.NumRegisters]int32 `json:"registers"`
	Flags     int32                  `json:"flags"`
	Remainder int32                  `json:"remainder"`
	Eip       int32                  `json:"eip"`
}

// BreakpointInfo describes one instruction-index breakpoint for UI
// display (the debugger TUI and the API's GET /api/v1/session/{id}/breakpoints).
type BreakpointInfo struct {
	InstructionIndex int32 `json:"instructionIndex"`
	Enabled          bool  `json:"enabled"`
}

// ExecutionState is the coarse status of a session, reported to
// clients that poll or subscribe rather than step interactively.
type ExecutionState string

const (
	StateRunning    ExecutionState = "running"
	StateHalted     ExecutionState = "halted"
	StateBreakpoint ExecutionState = "breakpoint"
	StateError      ExecutionState = "error"
)
