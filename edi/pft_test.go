package edi

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestFragmentReassembleRoundTrip(t *testing.T) {
	fr := NewFragmenter(4, 2)
	af := bytes.Repeat([]byte{0x55}, 97) // Not evenly divisible by k.
	frags, err := fr.Fragment(af)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if len(frags) != 6 {
		t.Fatalf("fragment count = %d, want 6", len(frags))
	}

	out, err := Reassemble(frags, len(af))
	if err != nil {
		t.Fatalf("Reassemble: %v", err)
	}
	if !bytes.Equal(out, af) {
		t.Fatal("reassembled data mismatch")
	}
}

func TestReassembleFromAnyKFragments(t *testing.T) {
	fr := NewFragmenter(5, 3)
	rng := rand.New(rand.NewSource(7))
	af := make([]byte, 200)
	rng.Read(af)

	frags, err := fr.Fragment(af)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	// Drop 3 of the 8 fragments, keeping exactly k=5.
	subset := []Fragment{frags[1], frags[3], frags[4], frags[6], frags[7]}
	out, err := Reassemble(subset, len(af))
	if err != nil {
		t.Fatalf("Reassemble: %v", err)
	}
	if !bytes.Equal(out, af) {
		t.Fatal("reassembled data mismatch from fragment subset")
	}
}

func TestReassembleFailsWithTooFewFragments(t *testing.T) {
	fr := NewFragmenter(4, 2)
	af := bytes.Repeat([]byte{0x01}, 64)
	frags, err := fr.Fragment(af)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if _, err := Reassemble(frags[:2], len(af)); err == nil {
		t.Fatal("expected error with fewer than k fragments")
	}
}

func TestFragmentHeaderRoundTrip(t *testing.T) {
	f := Fragment{Group: 5, Index: 1, K: 4, N: 6, Data: []byte{0xAA, 0xBB}}
	b := f.Bytes()
	got, err := ParseFragment(b)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if got.Group != 5 || got.Index != 1 || got.K != 4 || got.N != 6 {
		t.Fatalf("parsed fragment header mismatch: %+v", got)
	}
	if !bytes.Equal(got.Data, f.Data) {
		t.Fatal("data mismatch")
	}
}
