package debugger

// DisplayUpdateFrequency is a redraw interval in instructions executed.
// The TUI does not read it: it redraws once after each command.
const DisplayUpdateFrequency = 100

// Code view context: how many lines around the current instruction
// the "list" command and the TUI's source pane show by default.
const (
	CodeContextLinesBeforeCompact = 5
	CodeContextLinesAfterCompact  = 10
)

// RegisterViewRows is the fixed height of the TUI's register panel.
const RegisterViewRows = 9

// DefaultHistorySize is the command-history length used when a caller
// doesn't supply one (or supplies <= 0), matching config.DefaultConfig's
// Debugger.HistorySize.
const DefaultHistorySize = 1000
