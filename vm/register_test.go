package vm

import "testing"

func TestRegisterString(t *testing.T) {
	cases := map[Register]string{
		Eax: "eax",
		Esp: "esp",
		Eip: "eip",
		R15: "r15",
	}
	for reg, want := range cases {
		if got := reg.String(); got != want {
			t.Errorf("Register(%d).String() = %q, want %q", reg, got, want)
		}
	}
}

func TestRegisterStringOutOfRange(t *testing.T) {
	if got := Register(99).String(); got == "" {
		t.Error("expected a non-empty fallback string")
	}
}

func TestParseRegister(t *testing.T) {
	reg, ok := ParseRegister("ebx")
	if !ok || reg != Ebx {
		t.Errorf("ParseRegister(ebx) = (%v, %v), want (Ebx, true)", reg, ok)
	}

	if _, ok := ParseRegister("not-a-register"); ok {
		t.Error("expected ParseRegister to reject an unknown name")
	}
}
