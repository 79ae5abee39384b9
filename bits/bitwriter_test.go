package bits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterPacksMSBFirst(t *testing.T) {
	w := NewWriter()
	if err := w.Write(0x3, 2); err != nil { // 11
		t.Fatal(err)
	}
	if err := w.Write(0x0, 6); err != nil { // 000000
		t.Fatal(err)
	}
	got := w.Bytes()
	want := []byte{0xC0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
}

func TestWriterRejectsOversizeWrite(t *testing.T) {
	w := NewWriter()
	if err := w.Write(1, 33); err == nil {
		t.Fatal("expected error writing 33 bits, got nil")
	}
}

func TestWriterByteAlignedField(t *testing.T) {
	w := NewWriter()
	w.Write(0xABCD, 16)
	got := w.Bytes()
	want := []byte{0xAB, 0xCD}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
}
