package tools

import (
	"strings"
	"testing"
)

func TestFormatAlignsMnemonicAndOperands(t *testing.T) {
	out := Format("mov eax, 1", nil)
	if !strings.HasPrefix(out, strings.Repeat(" ", DefaultFormatOptions().InstructionColumn)+"mov") {
		t.Errorf("Format output = %q, want mnemonic at instruction column", out)
	}
}

func TestFormatPreservesDirectiveLines(t *testing.T) {
	out := Format("%define FOO 1", nil)
	if out != "%define FOO 1" {
		t.Errorf("Format directive = %q, want unchanged", out)
	}
}

func TestFormatSplitsLabelOntoOwnLine(t *testing.T) {
	out := Format("start: mov eax, 1", nil)
	lines := strings.Split(out, "\n")
	if lines[0] != "start:" {
		t.Errorf("first line = %q, want %q", lines[0], "start:")
	}
}

func TestFormatPreservesBlankLines(t *testing.T) {
	out := Format("mov eax, 1\n\nprn eax", nil)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 || lines[1] != "" {
		t.Errorf("Format blank-line handling = %q", out)
	}
}

func TestFormatPushesCommentToColumn(t *testing.T) {
	out := Format("mov eax, 1 # set eax", nil)
	idx := strings.Index(out, "#")
	if idx < DefaultFormatOptions().CommentColumn {
		t.Errorf("comment column = %d, want >= %d", idx, DefaultFormatOptions().CommentColumn)
	}
}
