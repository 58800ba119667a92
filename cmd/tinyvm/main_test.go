package main

import (
	"bytes"
	"strings"
	"testing"

	"tinyvm/config"
	"tinyvm/loader"
	"tinyvm/parser"
)

func TestRunToCompletionProducesExpectedOutput(t *testing.T) {
	source := "mov eax, 2\nmov ebx, 3\nadd eax, ebx\nprn eax\n"
	prog, loadErr := parser.Load(source, loader.FileIncludeResolver("."))
	if loadErr != nil {
		t.Fatalf("Load: %v", loadErr)
	}

	cfg := config.DefaultConfig()
	var out bytes.Buffer
	if err := runToCompletion(prog, cfg, 0, &out); err != nil {
		t.Fatalf("runToCompletion: %v", err)
	}
	if got := out.String(); got != "5\n" {
		t.Errorf("output = %q, want %q", got, "5\n")
	}
}

func TestRunToCompletionEnforcesCycleBudget(t *testing.T) {
	source := "loop:\njmp loop\n"
	prog, loadErr := parser.Load(source, loader.FileIncludeResolver("."))
	if loadErr != nil {
		t.Fatalf("Load: %v", loadErr)
	}

	cfg := config.DefaultConfig()
	var out bytes.Buffer
	err := runToCompletion(prog, cfg, 10, &out)
	if err == nil {
		t.Fatal("runToCompletion: want error for a program that never halts, got nil")
	}
	if !strings.Contains(err.Error(), "exceeded max-cycles") {
		t.Errorf("error = %v, want exceeded max-cycles", err)
	}
}

func TestRunToCompletionReportsExecutionFault(t *testing.T) {
	source := "mov eax, 1\nmov ebx, 0\ndiv eax, ebx\n"
	prog, loadErr := parser.Load(source, loader.FileIncludeResolver("."))
	if loadErr != nil {
		t.Fatalf("Load: %v", loadErr)
	}

	cfg := config.DefaultConfig()
	var out bytes.Buffer
	if err := runToCompletion(prog, cfg, 0, &out); err == nil {
		t.Fatal("runToCompletion: want a division-by-zero error, got nil")
	}
}
