package edi

import (
	"bytes"
	"testing"
)

func TestAFPacketRoundTrip(t *testing.T) {
	tags := []Tag{
		NewPointerTag(ProtocolTAG, 3, 0),
		NewDETITag([]byte{0x01, 0x02, 0x03, 0x04}),
		NewESTTag(0, []byte{0xDE, 0xAD, 0xBE, 0xEF}),
	}
	pkt, err := NewAFPacket(42, true, tags)
	if err != nil {
		t.Fatalf("NewAFPacket: %v", err)
	}
	b, err := pkt.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	got, err := VerifyAFPacket(b)
	if err != nil {
		t.Fatalf("VerifyAFPacket: %v", err)
	}
	if got.Seq != 42 {
		t.Errorf("seq = %d, want 42", got.Seq)
	}
	if !got.HasRS {
		t.Error("expected HasRS to be true")
	}
	if !bytes.Equal(got.Payload, pkt.Payload) {
		t.Error("payload mismatch after round trip")
	}
}

func TestAFPacketRejectsCorruptedCRC(t *testing.T) {
	pkt, _ := NewAFPacket(1, false, []Tag{NewPointerTag(ProtocolTAG, 3, 0)})
	b, _ := pkt.Bytes()
	b[len(b)-1] ^= 0xFF
	if _, err := VerifyAFPacket(b); err == nil {
		t.Fatal("expected CRC mismatch error")
	}
}

func TestAFPacketSequenceWrap(t *testing.T) {
	pkt, _ := NewAFPacket(0xFFFF, false, nil)
	b, err := pkt.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got, err := VerifyAFPacket(b)
	if err != nil {
		t.Fatalf("VerifyAFPacket: %v", err)
	}
	if got.Seq != 0xFFFF {
		t.Errorf("seq = %d, want 0xFFFF", got.Seq)
	}
}
