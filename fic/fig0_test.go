package fic

import (
	"testing"

	"github.com/ausocean/dabmux/ensemble"
)

func TestEncodeEnsembleInfoLength(t *testing.T) {
	f := EncodeEnsembleInfo(0xCE15, false, 7)
	b, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(b) != 1+5 { // header + C/N,OE,P/D,ext(1) + EId(2) + change/AL/cifCountHi(1) + cifCountLo(1).
		t.Fatalf("length = %d, want 6", len(b))
	}
	if ext := f.Body[0] & 0x1F; ext != Ext0EnsembleInfo {
		t.Errorf("extension = %d, want %d", ext, Ext0EnsembleInfo)
	}
}

func TestEncodeSubchannelOrgLongForm(t *testing.T) {
	subs := []ensemble.Subchannel{
		{SubChId: 0, StartCU: 0, SizeCU: 42, Protection: ensemble.ProtectionDescriptor{Form: ensemble.ProtectionEEPFormA, Level: 3}},
	}
	f, err := EncodeSubchannelOrg(subs, map[uint8]int{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
}

func TestEncodeDateTimeShortForm(t *testing.T) {
	f := EncodeDateTime(60000, 12, 30, 0, false)
	b, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(b) != 1+5 { // header + flags octet(8) + 17+1+5+6 bits = 37 bits -> 5 bytes.
		t.Fatalf("length = %d, want 6", len(b))
	}
}

func TestEncodeProgrammeType(t *testing.T) {
	f := EncodeProgrammeType(0x1001, 10, 0x09, false)
	if _, err := f.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if ext := f.Body[0] & 0x1F; ext != Ext0ProgrammeType {
		t.Errorf("extension = %d, want %d", ext, Ext0ProgrammeType)
	}
}
