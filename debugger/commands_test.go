package debugger

import (
	"strings"
	"testing"

	"tinyvm/service"
	"tinyvm/vm"
)

func newTestDebugger(t *testing.T) *Debugger {
	t.Helper()
	prog := &vm.Program{Instructions: []vm.Instruction{
		{Op: vm.OpMov, Target: vm.TargetRegister(vm.Eax), Src1: vm.SourceImmediate(1)},
		{Op: vm.OpAdd, Target: vm.TargetRegister(vm.Eax), Src1: vm.SourceImmediate(2)},
		{Op: vm.OpPrn, Src1: vm.SourceRegister(vm.Eax)},
	}}
	session := service.NewSession(64, 16)
	session.Load(prog, nil, "test")
	return NewDebugger(session, "mov eax, 1\nadd eax, 2\nprn eax\n", 0)
}

func TestStepAdvancesOneInstruction(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("step"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := dbg.Session.Snapshot().Eip; got != 1 {
		t.Errorf("Eip after one step = %d, want 1", got)
	}
}

func TestRunStopsAtBreakpoint(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("break 1"); err != nil {
		t.Fatalf("break: %v", err)
	}
	if err := dbg.ExecuteCommand("run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := dbg.Session.State(); got != service.StateBreakpoint {
		t.Errorf("state = %v, want StateBreakpoint", got)
	}
	if err := dbg.ExecuteCommand("delete 1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := dbg.ExecuteCommand("continue"); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if got := dbg.Session.State(); got != service.StateHalted {
		t.Errorf("state after continue = %v, want StateHalted", got)
	}
}

func TestEmptyCommandRepeatsLast(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("step"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := dbg.ExecuteCommand(""); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if got := dbg.Session.Snapshot().Eip; got != 2 {
		t.Errorf("Eip after repeated step = %d, want 2", got)
	}
}

func TestUnknownCommandReturnsError(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("frobnicate"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestInfoRegistersReportsEax(t *testing.T) {
	dbg := newTestDebugger(t)
	_ = dbg.ExecuteCommand("step")
	_ = dbg.ExecuteCommand("step")
	if err := dbg.ExecuteCommand("info registers"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if out := dbg.GetOutput(); !strings.Contains(out, "eax=3") {
		t.Errorf("info output = %q, want it to contain eax=3", out)
	}
}
