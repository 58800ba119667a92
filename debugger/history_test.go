package debugger

import "testing"

func TestCommandHistoryAddAndGetAll(t *testing.T) {
	h := NewCommandHistory(0)

	h.Add("step")
	h.Add("continue")
	h.Add("break 4")

	if h.Size() != 3 {
		t.Errorf("Size = %d, want 3", h.Size())
	}

	all := h.GetAll()
	want := []string{"step", "continue", "break 4"}
	for i, cmd := range want {
		if all[i] != cmd {
			t.Errorf("GetAll()[%d] = %q, want %q", i, all[i], cmd)
		}
	}
}

func TestCommandHistoryIgnoresEmptyLines(t *testing.T) {
	h := NewCommandHistory(0)

	h.Add("step")
	h.Add("")
	h.Add("info registers")

	if h.Size() != 2 {
		t.Errorf("Size = %d, want 2 (blank lines should be ignored)", h.Size())
	}
}

func TestCommandHistoryIgnoresImmediateRepeat(t *testing.T) {
	h := NewCommandHistory(0)

	h.Add("step")
	h.Add("step")
	h.Add("continue")

	if h.Size() != 2 {
		t.Errorf("Size = %d, want 2 (repeated step should collapse)", h.Size())
	}
	all := h.GetAll()
	if all[0] != "step" || all[1] != "continue" {
		t.Errorf("GetAll() = %v, want [step continue]", all)
	}
}

func TestCommandHistoryPreviousAndNext(t *testing.T) {
	h := NewCommandHistory(0)
	h.Add("break 0")
	h.Add("break 1")
	h.Add("run")

	if got := h.Previous(); got != "run" {
		t.Errorf("Previous() = %q, want run", got)
	}
	if got := h.Previous(); got != "break 1" {
		t.Errorf("Previous() = %q, want break 1", got)
	}
	if got := h.Previous(); got != "break 0" {
		t.Errorf("Previous() = %q, want break 0", got)
	}
	if got := h.Previous(); got != "" {
		t.Errorf("Previous() at oldest = %q, want empty", got)
	}

	if got := h.Next(); got != "break 1" {
		t.Errorf("Next() = %q, want break 1", got)
	}
	if got := h.Next(); got != "run" {
		t.Errorf("Next() = %q, want run", got)
	}
	if got := h.Next(); got != "" {
		t.Errorf("Next() at newest = %q, want empty", got)
	}
}

func TestCommandHistoryGetLastDoesNotMoveCursor(t *testing.T) {
	h := NewCommandHistory(0)
	h.Add("step")
	h.Add("info registers")

	if got := h.GetLast(); got != "info registers" {
		t.Errorf("GetLast() = %q, want 'info registers'", got)
	}
	if got := h.GetLast(); got != "info registers" {
		t.Errorf("second GetLast() = %q, want unchanged", got)
	}
}

func TestCommandHistoryClear(t *testing.T) {
	h := NewCommandHistory(0)
	h.Add("step")
	h.Add("run")

	h.Clear()

	if h.Size() != 0 {
		t.Errorf("Size after Clear = %d, want 0", h.Size())
	}
	if got := h.GetLast(); got != "" {
		t.Errorf("GetLast after Clear = %q, want empty", got)
	}
}

func TestCommandHistorySearchByPrefix(t *testing.T) {
	h := NewCommandHistory(0)
	h.Add("break 0")
	h.Add("break 4")
	h.Add("step")
	h.Add("continue")

	results := h.Search("break")
	want := []string{"break 0", "break 4"}
	if len(results) != len(want) {
		t.Fatalf("Search results = %v, want %v", results, want)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, results[i], want[i])
		}
	}
}

func TestCommandHistorySearchNoMatches(t *testing.T) {
	h := NewCommandHistory(0)
	h.Add("step")
	h.Add("continue")

	if results := h.Search("break"); len(results) != 0 {
		t.Errorf("Search results = %v, want none", results)
	}
}

func TestCommandHistoryRespectsConfiguredMaxSize(t *testing.T) {
	h := NewCommandHistory(5)

	for i := 0; i < 20; i++ {
		h.Add("step")
		h.Add("continue")
	}

	if h.Size() > 5 {
		t.Errorf("Size = %d, want <= 5 (configured maxSize)", h.Size())
	}
}

func TestCommandHistoryZeroSizeFallsBackToDefault(t *testing.T) {
	h := NewCommandHistory(0)
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d, want DefaultHistorySize (%d)", h.maxSize, DefaultHistorySize)
	}
}

func TestCommandHistoryEmpty(t *testing.T) {
	h := NewCommandHistory(0)

	if h.Size() != 0 {
		t.Errorf("new history Size = %d, want 0", h.Size())
	}
	if got := h.GetLast(); got != "" {
		t.Errorf("GetLast on empty history = %q, want empty", got)
	}
	if got := h.Previous(); got != "" {
		t.Errorf("Previous on empty history = %q, want empty", got)
	}
	if got := h.Next(); got != "" {
		t.Errorf("Next on empty history = %q, want empty", got)
	}
}
