// Command tinyvm loads and runs TinyVM assembly programs. With no
// flags it runs the given program to completion and exits; -debug and
// -api-server switch to the interactive debugger or the HTTP/WebSocket
// API server instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tinyvm/api"
	"tinyvm/config"
	"tinyvm/debugger"
	"tinyvm/loader"
	"tinyvm/parser"
	"tinyvm/service"
	"tinyvm/vm"
)

func main() {
	var (
		debugFlag   = flag.Bool("debug", false, "launch the interactive debugger TUI")
		apiServer   = flag.Bool("api-server", false, "launch the HTTP/WebSocket API server")
		port        = flag.Int("port", 0, "API server port (overrides config)")
		guiFlag     = flag.Bool("gui", false, "launch the desktop GUI")
		maxCycles   = flag.Uint64("max-cycles", 0, "instruction budget for default-mode runs (0 = config default)")
		configPath  = flag.String("config", "", "path to a config.toml (default: platform config dir)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Println("tinyvm 0.1.0")
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinyvm: %v\n", err)
		os.Exit(1)
	}

	if *guiFlag {
		fmt.Fprintln(os.Stderr, "tinyvm: the desktop GUI is a separate binary; run: go run ./gui")
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(cfg, *port)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	path := args[0]

	source, err := loader.ReadSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinyvm: %v\n", err)
		os.Exit(1)
	}

	prog, loadErr := parser.Load(source, loader.FileIncludeResolver(filepath.Dir(path)))
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "tinyvm: %v\n", loadErr)
		os.Exit(1)
	}

	budget := cfg.Execution.MaxCycles
	if *maxCycles > 0 {
		budget = *maxCycles
	}

	if *debugFlag {
		runDebugger(prog, source, cfg)
		return
	}

	if err := runToCompletion(prog, cfg, budget, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tinyvm: %s: %v\n", path, err)
		os.Exit(1)
	}
}

// errCyclesExceeded is returned by runToCompletion when a program runs
// past its instruction budget without halting.
var errCyclesExceeded = errors.New("exceeded max-cycles")

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func runDebugger(prog *vm.Program, source string, cfg *config.Config) {
	session := service.NewSession(cfg.Execution.MemoryWords, cfg.Execution.StackWords)
	session.Load(prog, nil, "debug")

	dbg := debugger.NewDebugger(session, source, cfg.Debugger.HistorySize)
	if err := debugger.RunTUI(dbg); err != nil {
		fmt.Fprintf(os.Stderr, "tinyvm: debugger: %v\n", err)
		os.Exit(1)
	}
}

// runToCompletion steps the program directly rather than through
// service.Session.Run, since the default CLI mode enforces an
// instruction budget that Session has no notion of.
func runToCompletion(prog *vm.Program, cfg *config.Config, budget uint64, out io.Writer) error {
	exec := vm.NewRun(prog, cfg.Execution.MemoryWords, cfg.Execution.StackWords)
	exec.OutputWriter = out

	var cycles uint64
	for {
		if budget > 0 && cycles >= budget {
			return fmt.Errorf("%w (%d)", errCyclesExceeded, budget)
		}
		halted, err := exec.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		cycles++
	}
}

func runAPIServer(cfg *config.Config, portOverride int) {
	port := cfg.API.Port
	if portOverride > 0 {
		port = portOverride
	}

	server := api.NewServer(port)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Printf("tinyvm API server listening on :%d\n", port)
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "tinyvm: api server: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `tinyvm - a register-based assembly interpreter

Usage:
  tinyvm [flags] <program.vm>
  tinyvm -debug <program.vm>
  tinyvm -api-server [-port N]

Flags:
`)
	flag.PrintDefaults()
}
