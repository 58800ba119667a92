// Package service provides the thread-safe execution backend shared by
// the debugger TUI, the HTTP/WebSocket API, and the GUI front-end. Each
// of those surfaces drives a Session rather than touching vm.Executor
// directly, so breakpoints, output capture, and state snapshots are
// implemented exactly once.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"tinyvm/vm"
)

var sessionLog *log.Logger

func init() {
	if os.Getenv("TINYVM_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "tinyvm-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			sessionLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds)
		} else {
			sessionLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds)
		}
	} else {
		sessionLog = log.New(io.Discard, "", 0)
	}
}

// ErrNoProgram is returned by any Session method that requires a loaded
// program before one has been set via Load.
var ErrNoProgram = fmt.Errorf("session: no program loaded")

// Session wraps a single execution's vm.Executor with the bookkeeping
// a debugger or API client needs: breakpoints, output capture, and an
// execution-state label independent of the underlying fault/halt
// distinction vm.Executor returns as a bare error.
//
// All exported methods acquire mu, so a Session may be driven from the
// TUI's event loop and the API's HTTP handlers concurrently.
type Session struct {
	mu sync.RWMutex

	program *vm.Program
	exec    *vm.Executor
	output  *bytes.Buffer
	writer  *EventEmittingWriter

	breakpoints map[int32]bool
	state       ExecutionState
	lastErr     error

	memoryWords int
	stackWords  int
}

// NewSession creates an empty Session with the given address-space and
// stack sizes (in words); Load must be called before Step or Run.
func NewSession(memoryWords, stackWords int) *Session {
	if memoryWords <= 0 {
		memoryWords = vm.DefaultMemoryWords
	}
	if stackWords <= 0 {
		stackWords = vm.DefaultStackWords
	}
	return &Session{
		breakpoints: make(map[int32]bool),
		state:       StateHalted,
		memoryWords: memoryWords,
		stackWords:  stackWords,
	}
}

// Load installs prog as the session's program and resets execution
// state to the program's entry point. Breakpoints are preserved across
// a reload so "edit, reload, re-run" keeps the debugger's breakpoints
// intact.
func (s *Session) Load(prog *vm.Program, broadcaster OutputBroadcaster, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = prog
	s.output = &bytes.Buffer{}
	s.writer = NewEventEmittingWriter(s.output, broadcaster, sessionID)
	s.exec = vm.NewRun(prog, s.memoryWords, s.stackWords)
	s.exec.OutputWriter = s.writer
	s.state = StateRunning
	s.lastErr = nil
	sessionLog.Printf("loaded program with %d instructions", len(prog.Instructions))
}

// Reset rewinds execution to the program's entry point without
// reloading the program or clearing output already captured.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return ErrNoProgram
	}
	s.exec = vm.NewRun(s.program, s.memoryWords, s.stackWords)
	s.exec.OutputWriter = s.writer
	s.state = StateRunning
	s.lastErr = nil
	return nil
}

// Step executes a single instruction and reports the resulting state.
func (s *Session) Step() (ExecutionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Session) stepLocked() (ExecutionState, error) {
	if s.exec == nil {
		return StateError, ErrNoProgram
	}
	halted, err := s.exec.Step()
	switch {
	case err != nil:
		s.state = StateError
		s.lastErr = err
		return s.state, err
	case halted:
		s.state = StateHalted
		return s.state, nil
	default:
		if s.breakpoints[s.exec.Memory.Registers[vm.Eip]] {
			s.state = StateBreakpoint
		} else {
			s.state = StateRunning
		}
		return s.state, nil
	}
}

// Run steps the session to natural termination, the first fault, or
// the first enabled breakpoint, whichever comes first. ctx cancellation
// stops the loop with StateRunning left in place, so a caller can
// resume with another Run or Step.
func (s *Session) Run(ctx context.Context) (ExecutionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exec == nil {
		return StateError, ErrNoProgram
	}

	for {
		select {
		case <-ctx.Done():
			return s.state, ctx.Err()
		default:
		}

		state, err := s.stepLocked()
		if err != nil {
			return state, err
		}
		if state == StateHalted || state == StateBreakpoint {
			return state, nil
		}
	}
}

// Snapshot returns the current register/flag state. The zero value is
// returned if no program is loaded.
func (s *Session) Snapshot() RegisterState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.exec == nil {
		return RegisterState{}
	}
	m := s.exec.Memory
	return RegisterState{
		Registers: m.Registers,
		Flags:     m.Flags,
		Remainder: m.Remainder,
		Eip:       m.Registers[vm.Eip],
	}
}

// Output returns everything printed by prn so far.
func (s *Session) Output() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.output == nil {
		return ""
	}
	return s.output.String()
}

// State reports the session's current execution state.
func (s *Session) State() ExecutionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetBreakpoint marks instructionIndex as a breakpoint. Run stops (with
// state StateBreakpoint) the moment Eip lands on it.
func (s *Session) SetBreakpoint(instructionIndex int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints[instructionIndex] = true
}

// ClearBreakpoint removes a previously set breakpoint, if any.
func (s *Session) ClearBreakpoint(instructionIndex int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.breakpoints, instructionIndex)
}

// Breakpoints returns the current breakpoint set for display.
func (s *Session) Breakpoints() []BreakpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BreakpointInfo, 0, len(s.breakpoints))
	for idx, enabled := range s.breakpoints {
		out = append(out, BreakpointInfo{InstructionIndex: idx, Enabled: enabled})
	}
	return out
}
