package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the tcell/tview text interface over a Debugger: a source
// pane, a register pane, a breakpoints pane, an output pane, and a
// command input line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout      *tview.Flex
	SourceView      *tview.TextView
	RegisterView    *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI creates a TUI driving the real terminal screen.
func NewTUI(dbg *Debugger) *TUI {
	return newTUI(dbg, tview.NewApplication())
}

// NewTUIWithScreen creates a TUI bound to an already-constructed
// tcell.Screen, so tests can drive it against a SimulationScreen
// without a real terminal.
func NewTUIWithScreen(dbg *Debugger, screen tcell.Screen) *TUI {
	app := tview.NewApplication().SetScreen(screen)
	return newTUI(dbg, app)
}

func newTUI(dbg *Debugger, app *tview.Application) *TUI {
	t := &TUI{Debugger: dbg, App: app}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, RegisterViewRows, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SourceView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

// executeCommand runs cmd against the Debugger and refreshes every
// pane with the result. It is unexported; internal tests (in this
// package) drive it directly without a running event loop.
func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output pane and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every pane from the current session state.
func (t *TUI) RefreshAll() {
	t.updateSourceView()
	t.updateRegisterView()
	t.updateBreakpointsView()
	if t.App != nil {
		t.App.Draw()
	}
}

func (t *TUI) updateSourceView() {
	snap := t.Debugger.Session.Snapshot()
	center := int(snap.Eip)

	start := center - CodeContextLinesBeforeCompact
	if start < 0 {
		start = 0
	}
	end := center + CodeContextLinesAfterCompact
	if end > len(t.Debugger.SourceLines) {
		end = len(t.Debugger.SourceLines)
	}

	t.SourceView.Clear()
	for i := start; i < end; i++ {
		line := t.Debugger.SourceLines[i]
		if i == center {
			fmt.Fprintf(t.SourceView, "[yellow]-> %4d  %s[white]\n", i, line)
		} else {
			fmt.Fprintf(t.SourceView, "   %4d  %s\n", i, line)
		}
	}
}

func (t *TUI) updateRegisterView() {
	snap := t.Debugger.Session.Snapshot()
	t.RegisterView.Clear()
	fmt.Fprintf(t.RegisterView, "eip: %d\nflags: %d\nremainder: %d\n\n", snap.Eip, snap.Flags, snap.Remainder)
	names := []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "esp", "ebp"}
	for i, name := range names {
		fmt.Fprintf(t.RegisterView, "%s: %d\n", name, snap.Registers[i])
	}
}

func (t *TUI) updateBreakpointsView() {
	t.BreakpointsView.Clear()
	for _, bp := range t.Debugger.Session.Breakpoints() {
		fmt.Fprintf(t.BreakpointsView, "instruction %d (enabled=%v)\n", bp.InstructionIndex, bp.Enabled)
	}
}

// Run starts the tview event loop; it blocks until the app stops.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
