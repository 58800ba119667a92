package service

import (
	"context"
	"testing"

	"tinyvm/vm"
)

func loadedSession(t *testing.T) *Session {
	t.Helper()
	prog := &vm.Program{Instructions: []vm.Instruction{
		{Op: vm.OpMov, Target: vm.TargetRegister(vm.Eax), Src1: vm.SourceImmediate(1)},
		{Op: vm.OpAdd, Target: vm.TargetRegister(vm.Eax), Src1: vm.SourceImmediate(2)},
		{Op: vm.OpPrn, Src1: vm.SourceRegister(vm.Eax)},
	}}
	s := NewSession(64, 16)
	s.Load(prog, nil, "test")
	return s
}

func TestSessionRunToHalt(t *testing.T) {
	s := loadedSession(t)
	state, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state != StateHalted {
		t.Errorf("state = %v, want StateHalted", state)
	}
	if s.Output() != "3\n" {
		t.Errorf("output = %q, want %q", s.Output(), "3\n")
	}
}

func TestSessionStepByStep(t *testing.T) {
	s := loadedSession(t)
	for i := 0; i < 3; i++ {
		state, err := s.Step()
		if err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if i < 2 && state != StateRunning {
			t.Errorf("step %d state = %v, want StateRunning", i, state)
		}
	}
	state, err := s.Step()
	if err != nil || state != StateHalted {
		t.Fatalf("final step: state=%v err=%v, want StateHalted", state, err)
	}
}

func TestSessionBreakpointStopsRun(t *testing.T) {
	s := loadedSession(t)
	s.SetBreakpoint(1)

	state, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state != StateBreakpoint {
		t.Errorf("state = %v, want StateBreakpoint", state)
	}
	if got := s.Snapshot().Eip; got != 1 {
		t.Errorf("Eip = %d, want 1", got)
	}

	s.ClearBreakpoint(1)
	state, err = s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run after clear: %v", err)
	}
	if state != StateHalted {
		t.Errorf("state after clearing breakpoint = %v, want StateHalted", state)
	}
}

func TestSessionResetReplaysFromEntry(t *testing.T) {
	s := loadedSession(t)
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := s.Snapshot().Eip; got != 0 {
		t.Errorf("Eip after Reset = %d, want 0", got)
	}
	if state, err := s.Run(context.Background()); err != nil || state != StateHalted {
		t.Fatalf("second Run: state=%v err=%v", state, err)
	}
}

func TestSessionWithoutLoadReturnsErrNoProgram(t *testing.T) {
	s := NewSession(64, 16)
	if _, err := s.Step(); err != ErrNoProgram {
		t.Errorf("Step error = %v, want ErrNoProgram", err)
	}
}
