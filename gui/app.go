// Package main implements the Fyne desktop front end for TinyVM: a
// register grid, an output log, and run/step/reset controls wired to
// a service.Session.
package main

import (
	"context"
	"io"
	"log"
	"os"

	"tinyvm/loader"
	"tinyvm/parser"
	"tinyvm/service"
)

var debugLog *log.Logger

func init() {
	if os.Getenv("TINYVM_DEBUG") != "" {
		f, err := os.OpenFile("/tmp/tinyvm-gui-debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			debugLog = log.New(os.Stderr, "GUI: ", log.Ltime|log.Lmicroseconds)
		} else {
			debugLog = log.New(f, "GUI: ", log.Ltime|log.Lmicroseconds)
		}
	} else {
		debugLog = log.New(io.Discard, "", 0)
	}
}

// App is the GUI's model: a single service.Session plus the source it
// was loaded from, kept separately from any Fyne widget so the core
// logic is testable headlessly.
type App struct {
	session    *service.Session
	sourcePath string
	lastSource string
}

// NewApp creates an App with a default-sized address space.
func NewApp() *App {
	return &App{session: service.NewSession(0, 0)}
}

// LoadProgramFromSource parses source and loads it into the session.
func (a *App) LoadProgramFromSource(source, path string) error {
	prog, err := parser.Load(source, loader.FileIncludeResolver("."))
	if err != nil {
		return err
	}
	a.session.Load(prog, nil, path)
	a.sourcePath = path
	a.lastSource = source
	debugLog.Printf("loaded %s (%d instructions)", path, len(prog.Instructions))
	return nil
}

// LoadProgramFromFile reads path and loads it via LoadProgramFromSource.
func (a *App) LoadProgramFromFile(path string) error {
	source, err := loader.ReadSource(path)
	if err != nil {
		return err
	}
	return a.LoadProgramFromSource(source, path)
}

// Step executes a single instruction.
func (a *App) Step() (service.ExecutionState, error) {
	return a.session.Step()
}

// Run executes to completion, fault, or breakpoint.
func (a *App) Run(ctx context.Context) (service.ExecutionState, error) {
	return a.session.Run(ctx)
}

// Reset rewinds to the program's entry point.
func (a *App) Reset() error {
	return a.session.Reset()
}

// GetRegisters returns the current register/flag snapshot.
func (a *App) GetRegisters() service.RegisterState {
	return a.session.Snapshot()
}

// GetOutput returns everything printed so far.
func (a *App) GetOutput() string {
	return a.session.Output()
}

// GetState reports the session's current execution state.
func (a *App) GetState() service.ExecutionState {
	return a.session.State()
}

// SetBreakpoint and ClearBreakpoint expose the session's breakpoint
// table. The window has no breakpoint control of its own.
func (a *App) SetBreakpoint(instructionIndex int32)   { a.session.SetBreakpoint(instructionIndex) }
func (a *App) ClearBreakpoint(instructionIndex int32) { a.session.ClearBreakpoint(instructionIndex) }

// Breakpoints lists the active breakpoints.
func (a *App) Breakpoints() []service.BreakpointInfo {
	return a.session.Breakpoints()
}

// SourcePath returns the path the currently loaded program was read
// from, or "" if nothing has been loaded yet.
func (a *App) SourcePath() string {
	return a.sourcePath
}

// SourceLines returns the loaded source split into lines.
func (a *App) SourceLines() []string {
	if a.lastSource == "" {
		return nil
	}
	lines := []string{}
	start := 0
	for i, c := range a.lastSource {
		if c == '\n' {
			lines = append(lines, a.lastSource[start:i])
			start = i + 1
		}
	}
	lines = append(lines, a.lastSource[start:])
	return lines
}
