package parser

import (
	"bytes"
	"fmt"
	"testing"

	"tinyvm/vm"
)

func noIncludes(name string) (string, error) {
	return "", fmt.Errorf("no includes available: %s", name)
}

func mustLoad(t *testing.T, src string) *vm.Program {
	t.Helper()
	prog, err := Load(src, noIncludes)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return prog
}

func TestLoadSimpleProgram(t *testing.T) {
	src := "mov eax, 10\nadd eax, 5\nprn eax\n"
	prog := mustLoad(t, src)
	if len(prog.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(prog.Instructions))
	}
	if prog.Instructions[0].Op != vm.OpMov {
		t.Errorf("instruction 0 op = %v, want OpMov", prog.Instructions[0].Op)
	}
}

func TestLoadResolvesForwardLabelReference(t *testing.T) {
	src := "jmp skip\nmov eax, 1\nskip:\nprn eax\n"
	prog := mustLoad(t, src)
	// "skip" labels the prn instruction, which lands at index 2 once the
	// preceding jmp and mov have each claimed an index.
	if !prog.Instructions[0].Src1.IsImmediate() || prog.Instructions[0].Src1.Immediate() != 2 {
		t.Errorf("jmp target = %v, want immediate 2", prog.Instructions[0].Src1)
	}
}

func TestLoadDuplicateLabelFails(t *testing.T) {
	src := "a:\nnop\na:\nnop\n"
	_, err := Load(src, noIncludes)
	if err == nil {
		t.Fatal("expected a duplicate-label error")
	}
	if err.Parse == nil || err.Parse.Kind != DuplicateLabel {
		t.Errorf("got %v, want DuplicateLabel", err)
	}
}

func TestLoadUndefinedLabelFails(t *testing.T) {
	src := "jmp nowhere\n"
	_, err := Load(src, noIncludes)
	if err == nil || err.Parse == nil || err.Parse.Kind != UndefinedLabel {
		t.Fatalf("got %v, want UndefinedLabel", err)
	}
}

func TestLoadInvalidInstructionFails(t *testing.T) {
	_, err := Load("frobnicate eax\n", noIncludes)
	if err == nil || err.Parse == nil || err.Parse.Kind != InvalidInstruction {
		t.Fatalf("got %v, want InvalidInstruction", err)
	}
}

func TestLoadMissingOperandFails(t *testing.T) {
	_, err := Load("mov eax\n", noIncludes)
	if err == nil || err.Parse == nil || err.Parse.Kind != MissingOperand {
		t.Fatalf("got %v, want MissingOperand", err)
	}
}

func TestLoadExtraTokenFails(t *testing.T) {
	_, err := Load("nop extra\n", noIncludes)
	if err == nil || err.Parse == nil || err.Parse.Kind != ExtraToken {
		t.Fatalf("got %v, want ExtraToken", err)
	}
}

func TestLoadImmediateAsTargetIsInvalidOperand(t *testing.T) {
	_, err := Load("mov 5, eax\n", noIncludes)
	if err == nil || err.Parse == nil || err.Parse.Kind != InvalidOperand {
		t.Fatalf("got %v, want InvalidOperand", err)
	}
}

func TestLoadStartLabelSetsEntryPoint(t *testing.T) {
	src := "jmp main\nstart:\nnop\nmain:\nprn eax\n"
	prog := mustLoad(t, src)
	if prog.StartInstructionIndex != 1 {
		t.Errorf("StartInstructionIndex = %d, want 1 (the nop right after \"start:\")", prog.StartInstructionIndex)
	}

	src = "start:\nnop\nprn eax\n"
	prog = mustLoad(t, src)
	if prog.StartInstructionIndex != 0 {
		t.Errorf("StartInstructionIndex = %d, want 0", prog.StartInstructionIndex)
	}
}

func TestLoadWithIncludeAndDefine(t *testing.T) {
	resolve := func(name string) (string, error) {
		if name == "macros" {
			return "%define COUNT 5\n", nil
		}
		return "", fmt.Errorf("no includes available: %s", name)
	}
	src := "%include macros\nmov eax, COUNT\nprn eax\n"
	prog, err := Load(src, resolve)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prog.Instructions[0].Src1.Immediate() != 5 {
		t.Errorf("got %v, want immediate 5", prog.Instructions[0].Src1)
	}
}

func TestLoadAndRunEndToEnd(t *testing.T) {
	src := "mov eax, 3\nmov ebx, 4\nadd eax, ebx\nprn eax\n"
	prog := mustLoad(t, src)

	var out bytes.Buffer
	if err := prog.Run(&out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "7\n" {
		t.Errorf("output = %q, want %q", out.String(), "7\n")
	}
}
