package ensemble

import "testing"

// TestAllocateThreeSubchannels mirrors spec.md scenario S2: three
// subchannels at 64/96/128 kbps under EEP_3A.
func TestAllocateThreeSubchannels(t *testing.T) {
	subs := []Subchannel{
		{SubChId: 0, Kind: SubchannelDABPlusAudio, BitrateKbps: 64, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3}},
		{SubChId: 1, Kind: SubchannelDABPlusAudio, BitrateKbps: 96, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3}},
		{SubChId: 2, Kind: SubchannelDABPlusAudio, BitrateKbps: 128, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3}},
	}
	res, err := Allocate(ModeI, subs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantCU := map[uint8]int{0: 42, 1: 63, 2: 84}
	wantStart := map[uint8]int{0: 0, 1: 42, 2: 105}
	total := 0
	for _, sc := range res.Subchannels {
		if sc.SizeCU != wantCU[sc.SubChId] {
			t.Errorf("subchannel %d: size_cu=%d, want %d", sc.SubChId, sc.SizeCU, wantCU[sc.SubChId])
		}
		if sc.StartCU != wantStart[sc.SubChId] {
			t.Errorf("subchannel %d: start_cu=%d, want %d", sc.SubChId, sc.StartCU, wantStart[sc.SubChId])
		}
		total += sc.SizeCU
	}
	if total != 189 {
		t.Errorf("total CU = %d, want 189", total)
	}
	if total > ModeI.CUCap() {
		t.Errorf("total CU %d exceeds cap %d", total, ModeI.CUCap())
	}
}

// TestAllocateCapacityOverflow mirrors spec.md scenario S3: eleven
// 128kbps EEP_3A subchannels overflow Mode I's 864 CU cap.
func TestAllocateCapacityOverflow(t *testing.T) {
	var subs []Subchannel
	for i := 0; i < 11; i++ {
		subs = append(subs, Subchannel{
			SubChId:     uint8(i),
			Kind:        SubchannelDABPlusAudio,
			BitrateKbps: 128,
			Protection:  ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3},
		})
	}
	_, err := Allocate(ModeI, subs)
	if err == nil {
		t.Fatal("expected CapacityExceeded error, got nil")
	}
	ce, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if ce.Cause != CauseCapacityExceeded {
		t.Errorf("cause = %q, want %q", ce.Cause, CauseCapacityExceeded)
	}
}

func TestAllocateDuplicateSubchannel(t *testing.T) {
	subs := []Subchannel{
		{SubChId: 0, Kind: SubchannelDABPlusAudio, BitrateKbps: 64, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3}},
		{SubChId: 0, Kind: SubchannelDABPlusAudio, BitrateKbps: 64, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3}},
	}
	_, err := Allocate(ModeI, subs)
	if err == nil {
		t.Fatal("expected duplicate subchannel id error")
	}
}

// TestProtectionMismatch covers spec.md §9's Open Question resolution:
// (DAB+, UEP) must fail.
func TestProtectionMismatch(t *testing.T) {
	subs := []Subchannel{
		{SubChId: 0, Kind: SubchannelDABPlusAudio, BitrateKbps: 128, Protection: ProtectionDescriptor{Form: ProtectionUEPShort, Level: 3}},
	}
	_, err := Allocate(ModeI, subs)
	if err == nil {
		t.Fatal("expected protection mismatch error for (DAB+, UEP)")
	}
	if _, ok := err.(*ErrProtectionMismatch); !ok {
		t.Fatalf("expected *ErrProtectionMismatch, got %T: %v", err, err)
	}
}

func TestAllocateAtExactCapacity(t *testing.T) {
	// Single subchannel exactly at cap: choose bitrate/level whose CU
	// equals ModeI.CUCap() using EEP level 1 (ratio 1.0).
	subs := []Subchannel{
		{SubChId: 0, Kind: SubchannelStreamData, BitrateKbps: 864, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 1}},
	}
	res, err := Allocate(ModeI, subs)
	if err != nil {
		t.Fatalf("unexpected error at exact capacity: %v", err)
	}
	if res.Subchannels[0].SizeCU != 864 {
		t.Fatalf("size_cu = %d, want 864", res.Subchannels[0].SizeCU)
	}
}
