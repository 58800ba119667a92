package vm

import "testing"

func TestPushPopRoundTrip(t *testing.T) {
	m := NewMemoryWithSize(0, 1024, 16)

	if err := m.Push(42); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := m.Push(7); err != nil {
		t.Fatalf("Push: %v", err)
	}

	v, err := m.Pop()
	if err != nil || v != 7 {
		t.Fatalf("Pop = (%d, %v), want (7, nil)", v, err)
	}
	v, err = m.Pop()
	if err != nil || v != 42 {
		t.Fatalf("Pop = (%d, %v), want (42, nil)", v, err)
	}
}

// The stack starts at the top of a 16-word memory, so popping the empty
// stack reads mem_space[16], one past the end.
func TestPopUnderflowFaults(t *testing.T) {
	m := NewMemoryWithSize(0, 16, 16)
	if _, err := m.Pop(); err == nil {
		t.Error("expected Pop to fault when the stack is empty")
	}
}

func TestReadWriteTargetAddress(t *testing.T) {
	m := NewMemoryWithSize(0, 16, 4)
	tgt := TargetAddress(3)
	if err := m.WriteTarget(tgt, 99); err != nil {
		t.Fatalf("WriteTarget: %v", err)
	}
	v, err := m.ReadSource(tgt.AsSource())
	if err != nil || v != 99 {
		t.Fatalf("ReadSource = (%d, %v), want (99, nil)", v, err)
	}
}

func TestAddressOutOfRange(t *testing.T) {
	m := NewMemoryWithSize(0, 4, 0)
	if err := m.WriteTarget(TargetAddress(100), 1); err == nil {
		t.Error("expected a DataAddressOutOfRangeError")
	}
	if _, ok := (error)(&DataAddressOutOfRangeError{Address: 100}).(error); !ok {
		t.Fatal("DataAddressOutOfRangeError must implement error")
	}
}

func TestCompareFlags(t *testing.T) {
	m := NewMemoryWithSize(0, 4, 0)

	m.SetCompareFlags(5, 5)
	if !m.flagEqual() || m.flagGreater() {
		t.Error("5 == 5 should set equal, not greater")
	}

	m.SetCompareFlags(9, 5)
	if m.flagEqual() || !m.flagGreater() {
		t.Error("9 > 5 should set greater, not equal")
	}

	m.SetCompareFlags(1, 5)
	if m.flagEqual() || m.flagGreater() {
		t.Error("1 < 5 should set neither flag")
	}
	if !m.flagLess() {
		t.Error("flagLess should fire when neither bit is set")
	}
}

// popf can inject arbitrary flag bits; jle/jge must use the documented
// bitwise tests rather than a derived "less than" flag.
func TestPopfArbitraryFlagsDriveJleJge(t *testing.T) {
	m := NewMemoryWithSize(0, 4, 4)
	m.Flags = flagEqual | flagGreater // never produced by SetCompareFlags alone
	if !m.flagGreaterOrEqual() {
		t.Error("flagGreaterOrEqual should fire when either bit is set")
	}
	if m.flagLess() {
		t.Error("flagLess should not fire when the equal bit is set")
	}
}
