package tools

import (
	"fmt"
	"testing"
)

func noIncludes(name string) (string, error) {
	return "", fmt.Errorf("no includes available: %s", name)
}

func TestLintReportsLoadError(t *testing.T) {
	findings := Lint("mov eax, undefined_label_target\njmp undefined_label_target\n", noIncludes)
	found := false
	for _, f := range findings {
		if f.Code == "LOAD_ERROR" {
			found = true
		}
	}
	if !found {
		t.Errorf("findings = %v, want a LOAD_ERROR finding", findings)
	}
}

func TestLintFlagsUnusedDefine(t *testing.T) {
	findings := Lint("%define UNUSED 5\nmov eax, 1\n", noIncludes)
	found := false
	for _, f := range findings {
		if f.Code == "UNUSED_DEFINE" {
			found = true
		}
	}
	if !found {
		t.Errorf("findings = %v, want an UNUSED_DEFINE finding", findings)
	}
}

func TestLintDoesNotFlagUsedDefine(t *testing.T) {
	findings := Lint("%define COUNT 5\nmov eax, COUNT\n", noIncludes)
	for _, f := range findings {
		if f.Code == "UNUSED_DEFINE" {
			t.Errorf("unexpected UNUSED_DEFINE finding for a referenced define: %v", f)
		}
	}
}

func TestLintFlagsUnreachableCode(t *testing.T) {
	findings := Lint("jmp skip\nmov eax, 1\nskip:\nprn eax\n", noIncludes)
	found := false
	for _, f := range findings {
		if f.Code == "UNREACHABLE_CODE" && f.Line == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("findings = %v, want an UNREACHABLE_CODE finding on line 1", findings)
	}
}

func TestLintDoesNotFlagCodeAfterLabel(t *testing.T) {
	findings := Lint("jmp skip\nskip:\nmov eax, 1\nprn eax\n", noIncludes)
	for _, f := range findings {
		if f.Code == "UNREACHABLE_CODE" {
			t.Errorf("unexpected UNREACHABLE_CODE finding: %v", f)
		}
	}
}
