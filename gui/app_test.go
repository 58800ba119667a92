package main

import (
	"context"
	"testing"

	"tinyvm/service"
)

func TestAppLoadProgram(t *testing.T) {
	a := NewApp()
	source := "mov eax, 42\nprn eax\n"
	if err := a.LoadProgramFromSource(source, "test.vm"); err != nil {
		t.Fatalf("LoadProgramFromSource: %v", err)
	}
	if got := a.GetRegisters().Eip; got != 0 {
		t.Errorf("Eip = %d, want 0", got)
	}
}

func TestAppStepExecution(t *testing.T) {
	a := NewApp()
	if err := a.LoadProgramFromSource("mov eax, 42\nprn eax\n", "test.vm"); err != nil {
		t.Fatalf("LoadProgramFromSource: %v", err)
	}
	if _, err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := a.GetRegisters().Registers[0]; got != 42 {
		t.Errorf("eax = %d, want 42", got)
	}
}

func TestAppRunToHalt(t *testing.T) {
	a := NewApp()
	if err := a.LoadProgramFromSource("mov eax, 42\nprn eax\n", "test.vm"); err != nil {
		t.Fatalf("LoadProgramFromSource: %v", err)
	}
	state, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if state != service.StateHalted {
		t.Errorf("state = %v, want StateHalted", state)
	}
	if a.GetOutput() != "42\n" {
		t.Errorf("output = %q, want %q", a.GetOutput(), "42\n")
	}
}

func TestAppSourceLinesSplitsByNewline(t *testing.T) {
	a := NewApp()
	if err := a.LoadProgramFromSource("mov eax, 1\nprn eax\n", "test.vm"); err != nil {
		t.Fatalf("LoadProgramFromSource: %v", err)
	}
	lines := a.SourceLines()
	if len(lines) != 3 {
		t.Fatalf("SourceLines len = %d, want 3 (two lines plus trailing empty)", len(lines))
	}
	if lines[0] != "mov eax, 1" {
		t.Errorf("lines[0] = %q", lines[0])
	}
}
