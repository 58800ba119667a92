// Package debugger implements an interactive command interpreter and a
// tcell/tview text UI over a service.Session, grounded on the teacher's
// breakpoint/history/TUI conventions but scoped to instruction-index
// breakpoints rather than byte-address ones.
package debugger

import (
	"fmt"
	"strings"

	"tinyvm/service"
)

// Debugger drives a service.Session from a line-oriented command
// language. It holds no VM state of its own; every execution query
// goes through Session so the API and debugger surfaces never drift.
type Debugger struct {
	Session *service.Session

	// SourceLines is the assembly source, split by line, used by the
	// "list" command and the TUI's instruction pane. Index is advisory
	// only: Session tracks execution by instruction index, which does
	// not necessarily match source line number once %include/%define
	// expansion and blank/comment lines are accounted for.
	SourceLines []string

	History *CommandHistory

	Running     bool
	LastCommand string

	Output strings.Builder
}

// NewDebugger creates a Debugger over an already-loaded session.
// historySize bounds the command REPL's scrollback (<= 0 uses
// DefaultHistorySize); callers typically pass
// config.Config.Debugger.HistorySize.
func NewDebugger(session *service.Session, source string, historySize int) *Debugger {
	return &Debugger{
		Session:     session,
		SourceLines: strings.Split(source, "\n"),
		History:     NewCommandHistory(historySize),
	}
}

// ExecuteCommand parses and runs one command line. An empty line
// repeats the last non-empty command, matching the teacher's REPL
// convention for stepping commands.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s":
		return d.cmdStep(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList(args)
	case "reset":
		return d.cmdReset(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// GetOutput returns and clears the debugger's own message buffer
// (status lines, command errors) as distinct from the session's
// captured prn output.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
