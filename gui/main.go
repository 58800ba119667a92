package main

import (
	"context"
	"flag"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"tinyvm/service"
)

type window struct {
	app *App

	registerGrid *widget.TextGrid
	outputLog    *widget.TextGrid
	statusLabel  *widget.Label
	fyneWindow   fyne.Window
}

func newWindow(fyneApp fyne.App, a *App) *window {
	w := &window{app: a, fyneWindow: fyneApp.NewWindow("TinyVM")}

	w.registerGrid = widget.NewTextGrid()
	w.outputLog = widget.NewTextGrid()
	w.statusLabel = widget.NewLabel("no program loaded")

	openButton := widget.NewButton("Open...", w.handleOpen)
	stepButton := widget.NewButton("Step", w.handleStep)
	runButton := widget.NewButton("Run", w.handleRun)
	resetButton := widget.NewButton("Reset", w.handleReset)

	toolbar := container.NewHBox(openButton, stepButton, runButton, resetButton)

	content := container.NewBorder(
		toolbar,
		w.statusLabel,
		nil,
		nil,
		container.NewHSplit(
			container.NewVScroll(w.outputLog),
			container.NewVScroll(w.registerGrid),
		),
	)

	w.fyneWindow.SetContent(content)
	w.fyneWindow.Resize(fyne.NewSize(900, 600))
	return w
}

func (w *window) handleOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		if loadErr := w.app.LoadProgramFromFile(path); loadErr != nil {
			dialog.ShowError(loadErr, w.fyneWindow)
			return
		}
		w.refresh()
	}, w.fyneWindow)
	fd.Show()
}

func (w *window) handleStep() {
	if _, err := w.app.Step(); err != nil {
		dialog.ShowError(err, w.fyneWindow)
	}
	w.refresh()
}

func (w *window) handleRun() {
	if _, err := w.app.Run(context.Background()); err != nil {
		dialog.ShowError(err, w.fyneWindow)
	}
	w.refresh()
}

func (w *window) handleReset() {
	if err := w.app.Reset(); err != nil {
		dialog.ShowError(err, w.fyneWindow)
	}
	w.refresh()
}

func (w *window) refresh() {
	snap := w.app.GetRegisters()
	names := []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "esp", "ebp"}
	text := fmt.Sprintf("eip: %d  flags: %d  remainder: %d\n\n", snap.Eip, snap.Flags, snap.Remainder)
	for i, name := range names {
		text += fmt.Sprintf("%s: %d\n", name, snap.Registers[i])
	}
	w.registerGrid.SetText(text)
	w.outputLog.SetText(w.app.GetOutput())
	w.statusLabel.SetText(statusText(w.app.GetState()))
}

func statusText(state service.ExecutionState) string {
	switch state {
	case service.StateHalted:
		return "halted"
	case service.StateBreakpoint:
		return "stopped at breakpoint"
	case service.StateError:
		return "runtime error"
	default:
		return "running"
	}
}

func main() {
	path := flag.String("file", "", "assembly source file to load on startup")
	flag.Parse()

	fyneApp := app.New()
	model := NewApp()
	win := newWindow(fyneApp, model)

	if *path != "" {
		if err := model.LoadProgramFromFile(*path); err != nil {
			dialog.ShowError(err, win.fyneWindow)
		} else {
			win.refresh()
		}
	}

	win.fyneWindow.ShowAndRun()
}
