package debugger

import (
	"strings"
	"sync"
)

// CommandHistory is the REPL's scrollback for the debugger's command
// line: every non-empty, non-repeat line the user entered (run, step,
// break 4, info registers, ...), navigable like a shell history.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
	position int // index the next Previous/Next call reads from
}

// NewCommandHistory creates a history capped at maxSize entries;
// maxSize <= 0 falls back to DefaultHistorySize (the debugger wires
// this from config.Config.Debugger.HistorySize).
func NewCommandHistory(maxSize int) *CommandHistory {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &CommandHistory{
		commands: make([]string, 0, 16),
		maxSize:  maxSize,
	}
}

// Add records cmd, unless it's blank or a repeat of the immediately
// preceding entry (so holding Enter to repeat "step" doesn't flood the
// history with identical lines).
func (h *CommandHistory) Add(cmd string) {
	cmd = strings.TrimRight(cmd, " \t")
	if cmd == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) > 0 && h.commands[len(h.commands)-1] == cmd {
		h.position = len(h.commands)
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
	h.position = len(h.commands)
}

// Previous moves one step back through history and returns the
// command there, or "" if already at the oldest entry.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}
	h.position--
	return h.commands[h.position]
}

// Next moves one step forward through history, returning "" (and
// resetting to the end) once the most recent command is passed.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 {
		return ""
	}
	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}
	h.position++
	return h.commands[h.position]
}

// GetLast returns the most recently recorded command without moving
// the navigation cursor.
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}
	return h.commands[len(h.commands)-1]
}

// GetAll returns a copy of the full history, oldest first.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	copy(result, h.commands)
	return result
}

// Clear empties the history and resets the navigation cursor.
func (h *CommandHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = h.commands[:0]
	h.position = 0
}

// Size returns the number of recorded commands.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.commands)
}

// Search returns every recorded command starting with prefix, in the
// order they were entered.
func (h *CommandHistory) Search(prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var results []string
	for _, cmd := range h.commands {
		if strings.HasPrefix(cmd, prefix) {
			results = append(results, cmd)
		}
	}
	return results
}
