package bits

import "testing"

func TestGF256MulDivInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		inv := Inverse(byte(a))
		if got := Mul(byte(a), inv); got != 1 {
			t.Fatalf("Mul(%d, inverse)=%d, want 1", a, got)
		}
		if got := Div(byte(a), byte(a)); got != 1 {
			t.Fatalf("Div(%d,%d)=%d, want 1", a, a, got)
		}
	}
}

func TestGF256ExpLogAreInverses(t *testing.T) {
	for i := 0; i < 255; i++ {
		e := Exp(i)
		if e == 0 {
			t.Fatalf("Exp(%d) unexpectedly zero", i)
		}
		if got := Log(e); got != i {
			t.Fatalf("Log(Exp(%d))=%d, want %d", i, got, i)
		}
	}
}
