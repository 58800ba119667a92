// Package tools provides source-level utilities over TinyVM assembly:
// a column-aligning formatter and a linter that flags issues outside
// the load-time error taxonomy (dead defines, unreachable code).
package tools

import (
	"strings"
)

// FormatOptions controls the formatter's column layout.
type FormatOptions struct {
	InstructionColumn int // column the mnemonic starts at
	OperandColumn     int // column the first operand starts at
	CommentColumn     int // column a trailing comment starts at
}

// DefaultFormatOptions matches the column layout used throughout the
// example programs: labels at column 0, everything else lined up in
// fixed columns so a block of instructions reads as a table.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		InstructionColumn: 8,
		OperandColumn:     16,
		CommentColumn:     40,
	}
}

// Format re-indents and column-aligns src: labels stay at column 0,
// mnemonics and operands are aligned per opts, and comments are pushed
// out to a fixed column. Directive lines (%include/%define) and blank
// lines are trimmed of surrounding whitespace but otherwise unchanged.
func Format(src string, opts *FormatOptions) string {
	if opts == nil {
		opts = DefaultFormatOptions()
	}

	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = formatLine(line, opts)
	}
	return strings.Join(out, "\n")
}

func formatLine(line string, opts *FormatOptions) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "%include") || strings.HasPrefix(trimmed, "%define") {
		return trimmed
	}

	code, comment := splitComment(trimmed)
	code = strings.TrimSpace(code)

	var labels []string
	fields := strings.Fields(code)
	idx := 0
	for idx < len(fields) && strings.HasSuffix(fields[idx], ":") {
		labels = append(labels, fields[idx])
		idx++
	}
	rest := fields[idx:]

	outLines := append([]string{}, labels...)

	var instrLine strings.Builder
	if len(rest) > 0 {
		mnemonic := rest[0]
		operands := strings.Join(rest[1:], ", ")

		pad(&instrLine, opts.InstructionColumn)
		instrLine.WriteString(mnemonic)
		if operands != "" {
			pad(&instrLine, opts.OperandColumn)
			instrLine.WriteString(operands)
		}
	}

	if comment != "" {
		col := currentColumn(instrLine.String())
		if col == 0 {
			pad(&instrLine, opts.InstructionColumn)
		} else if col < opts.CommentColumn {
			instrLine.WriteString(strings.Repeat(" ", opts.CommentColumn-col))
		} else {
			instrLine.WriteByte(' ')
		}
		instrLine.WriteString("# " + strings.TrimSpace(comment))
	}

	if instrLine.Len() > 0 {
		outLines = append(outLines, instrLine.String())
	}
	return strings.Join(outLines, "\n")
}

// splitComment separates a line's code from its trailing "# ..." comment.
func splitComment(line string) (code, comment string) {
	if idx := strings.IndexByte(line, '#'); idx != -1 {
		return line[:idx], line[idx+1:]
	}
	return line, ""
}

// pad appends spaces up to a minimum run length, relative to the
// current line being built (not the whole builder).
func pad(b *strings.Builder, n int) {
	col := currentColumn(b.String())
	for col < n {
		b.WriteByte(' ')
		col++
	}
}

func currentColumn(built string) int {
	if idx := strings.LastIndexByte(built, '\n'); idx != -1 {
		return len(built) - idx - 1
	}
	return len(built)
}
