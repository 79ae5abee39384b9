package fic

import "testing"

func TestPackFIBsPadsAndChecksums(t *testing.T) {
	f := FIG{Type: FIGType0, Field: 0, Body: []byte{0x01, 0x02, 0x03}}
	fibs, err := PackFIBs([]FIG{f}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fibs) != 1 {
		t.Fatalf("expected 1 FIB, got %d", len(fibs))
	}
	if len(fibs[0]) != FIBLen {
		t.Fatalf("FIB length = %d, want %d", len(fibs[0]), FIBLen)
	}
	payload := fibs[0][:FIBPayloadLen]
	for i := 4; i < FIBPayloadLen; i++ {
		if payload[i] != 0xFF {
			t.Fatalf("padding byte %d = %#x, want 0xFF", i, payload[i])
		}
	}
}

func TestPackFIBsSplitsAcrossMultipleFIBsWhenFull(t *testing.T) {
	var figs []FIG
	for i := 0; i < 5; i++ {
		// 9 octets each: three fit in one 30-octet FIB, so five need two.
		figs = append(figs, FIG{Type: FIGType0, Field: uint8(i), Body: make([]byte, 8)})
	}
	fibs, err := PackFIBs(figs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fibs) != 2 {
		t.Fatalf("expected 2 FIBs, got %d", len(fibs))
	}
}

func TestPackFIBsOverflowsCapacity(t *testing.T) {
	var figs []FIG
	for i := 0; i < 20; i++ {
		figs = append(figs, FIG{Type: FIGType0, Field: uint8(i % 32), Body: make([]byte, 10)})
	}
	if _, err := PackFIBs(figs, 1); err == nil {
		t.Fatal("expected FIC capacity overflow error")
	}
}

func TestFIGRejectsOversizeField(t *testing.T) {
	f := FIG{Type: FIGType0, Field: 0x20, Body: nil}
	if _, err := f.Bytes(); err == nil {
		t.Fatal("expected error for 5-bit field overflow")
	}
}
