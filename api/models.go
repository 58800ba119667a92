package api

import (
	"time"

	"tinyvm/service"
)

// SessionCreateRequest configures a new session's address space.
type SessionCreateRequest struct {
	MemoryWords int `json:"memoryWords,omitempty"`
	StackWords  int `json:"stackWords,omitempty"`
}

// SessionCreateResponse is returned after creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoadProgramRequest carries the assembly source to parse and load.
type LoadProgramRequest struct {
	Source string `json:"source"`
}

// LoadProgramResponse reports whether loading succeeded.
type LoadProgramResponse struct {
	Success              bool  `json:"success"`
	Error                string `json:"error,omitempty"`
	InstructionCount     int    `json:"instructionCount,omitempty"`
	StartInstructionIndex int32 `json:"startInstructionIndex,omitempty"`
}

// SessionStatusResponse is the combined execution snapshot returned by
// GET /api/v1/session/{id}.
type SessionStatusResponse struct {
	SessionID string                  `json:"sessionId"`
	State     string                  `json:"state"`
	Registers RegistersResponse       `json:"registers"`
	Output    string                  `json:"output"`
	Error     string                  `json:"error,omitempty"`
}

// RegistersResponse is the JSON form of service.RegisterState.
type RegistersResponse struct {
	Registers map[string]int32 `json:"registers"`
	Flags     int32            `json:"flags"`
	Remainder int32            `json:"remainder"`
	Eip       int32            `json:"eip"`
}

// BreakpointRequest adds or removes a single instruction-index breakpoint.
type BreakpointRequest struct {
	InstructionIndex int32 `json:"instructionIndex"`
}

// BreakpointsResponse lists the active breakpoints for a session.
type BreakpointsResponse struct {
	Breakpoints []service.BreakpointInfo `json:"breakpoints"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse is a minimal acknowledgement body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Event is a generic timestamped message envelope. The WebSocket stream
// does not use it: it sends BroadcastEvent values.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// ToRegistersResponse converts a service.RegisterState snapshot into its
// JSON form, keyed by register name rather than ordinal.
func ToRegistersResponse(snap service.RegisterState) RegistersResponse {
	names := []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "esp", "ebp", "eip",
		"r08", "r09", "r10", "r11", "r12", "r13", "r14", "r15"}
	regs := make(map[string]int32, len(names))
	for i, name := range names {
		if i < len(snap.Registers) {
			regs[name] = snap.Registers[i]
		}
	}
	return RegistersResponse{
		Registers: regs,
		Flags:     snap.Flags,
		Remainder: snap.Remainder,
		Eip:       snap.Eip,
	}
}
