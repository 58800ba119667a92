package debugger

import (
	"context"
	"fmt"
	"strconv"

	"tinyvm/service"
)

// cmdRun restarts execution from the entry point and runs to
// completion, the first fault, or the first breakpoint.
func (d *Debugger) cmdRun(args []string) error {
	if err := d.Session.Reset(); err != nil {
		return err
	}
	d.Println("Starting program execution...")
	return d.runToStop()
}

// cmdContinue resumes execution from the current instruction.
func (d *Debugger) cmdContinue(args []string) error {
	if d.Session.State() == service.StateHalted {
		return fmt.Errorf("program is not running")
	}
	d.Println("Continuing...")
	return d.runToStop()
}

func (d *Debugger) runToStop() error {
	state, err := d.Session.Run(context.Background())
	d.reportState(state, err)
	return nil
}

// cmdStep executes exactly one instruction.
func (d *Debugger) cmdStep(args []string) error {
	state, err := d.Session.Step()
	d.reportState(state, err)
	return nil
}

func (d *Debugger) reportState(state service.ExecutionState, err error) {
	snap := d.Session.Snapshot()
	switch state {
	case service.StateHalted:
		d.Printf("Program halted at instruction %d.\n", snap.Eip)
	case service.StateBreakpoint:
		d.Printf("Stopped at breakpoint, instruction %d.\n", snap.Eip)
	case service.StateError:
		d.Printf("Runtime error at instruction %d: %v\n", snap.Eip, err)
	case service.StateRunning:
		d.Printf("Stepped to instruction %d.\n", snap.Eip)
	}
	if out := d.Session.Output(); out != "" {
		d.Printf("%s", out)
	}
}

// cmdBreak sets a breakpoint at an instruction index.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <instruction-index>")
	}
	idx, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid instruction index: %s", args[0])
	}
	d.Session.SetBreakpoint(int32(idx))
	d.Printf("Breakpoint set at instruction %d.\n", idx)
	return nil
}

// cmdDelete clears a breakpoint at an instruction index.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <instruction-index>")
	}
	idx, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid instruction index: %s", args[0])
	}
	d.Session.ClearBreakpoint(int32(idx))
	d.Printf("Breakpoint cleared at instruction %d.\n", idx)
	return nil
}

// cmdInfo prints registers, flags, and active breakpoints.
func (d *Debugger) cmdInfo(args []string) error {
	topic := "registers"
	if len(args) > 0 {
		topic = args[0]
	}

	switch topic {
	case "registers", "reg", "r":
		snap := d.Session.Snapshot()
		d.Printf("eip=%d flags=%d remainder=%d\n", snap.Eip, snap.Flags, snap.Remainder)
		names := []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "esp", "ebp"}
		for i, name := range names {
			d.Printf("%s=%d ", name, snap.Registers[i])
		}
		d.Println()
	case "breakpoints", "break", "b":
		bps := d.Session.Breakpoints()
		if len(bps) == 0 {
			d.Println("No breakpoints set.")
			return nil
		}
		for _, bp := range bps {
			d.Printf("instruction %d (enabled=%v)\n", bp.InstructionIndex, bp.Enabled)
		}
	default:
		return fmt.Errorf("unknown info topic: %s", topic)
	}
	return nil
}

// cmdList prints source lines around the current instruction.
func (d *Debugger) cmdList(args []string) error {
	snap := d.Session.Snapshot()
	center := int(snap.Eip)

	start := center - CodeContextLinesBeforeCompact
	if start < 0 {
		start = 0
	}
	end := center + CodeContextLinesAfterCompact
	if end > len(d.SourceLines) {
		end = len(d.SourceLines)
	}

	for i := start; i < end; i++ {
		marker := "  "
		if i == center {
			marker = "->"
		}
		d.Printf("%s %4d  %s\n", marker, i, d.SourceLines[i])
	}
	return nil
}

// cmdReset rewinds execution to the entry point without clearing
// captured output or breakpoints.
func (d *Debugger) cmdReset(args []string) error {
	if err := d.Session.Reset(); err != nil {
		return err
	}
	d.Println("Session reset to entry point.")
	return nil
}

// cmdHelp lists available commands.
func (d *Debugger) cmdHelp(args []string) error {
	d.Println("Available commands:")
	d.Println("  run (r)              restart and run to completion/breakpoint")
	d.Println("  continue (c)         resume execution")
	d.Println("  step (s)             execute one instruction")
	d.Println("  break (b) <index>    set a breakpoint at instruction index")
	d.Println("  delete (d) <index>   clear a breakpoint")
	d.Println("  info (i) [registers|breakpoints]")
	d.Println("  list (l)             show source around the current instruction")
	d.Println("  reset                rewind to the entry point")
	d.Println("  help (h, ?)          show this message")
	return nil
}
