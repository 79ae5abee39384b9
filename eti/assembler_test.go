package eti

import (
	"testing"

	"github.com/ausocean/dabmux/ensemble"
)

func testValidated(t *testing.T) *ensemble.Validated {
	t.Helper()
	return testValidatedWithTIST(t, false, 0)
}

// testValidatedWithTIST mirrors spec.md scenario S1's minimal ensemble
// (EId 0xCE15, ecc 0xE1, one 128 kbps EEP_3A subchannel), optionally
// enabling TIST per scenario S4.
func testValidatedWithTIST(t *testing.T, tistEnabled bool, tistOffsetMS uint32) *ensemble.Validated {
	t.Helper()
	e := ensemble.Ensemble{
		EId:          0xCE15,
		ECC:          0xE1,
		Mode:         ensemble.ModeI,
		TISTEnabled:  tistEnabled,
		TISTOffsetMS: tistOffsetMS,
		Services: []ensemble.Service{
			{UID: 1, SId: 0x1001, Label: "Test Service"},
		},
		Components: []ensemble.ServiceComponent{
			{ServiceUID: 1, SubChId: 0, Primary: true},
		},
		Subchannels: []ensemble.Subchannel{
			{SubChId: 0, Kind: ensemble.SubchannelDABAudio, BitrateKbps: 128, Protection: ensemble.ProtectionDescriptor{Form: ensemble.ProtectionEEPFormA, Level: 3}},
		},
	}
	v, err := ensemble.Validate(e)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return v
}

func TestAssembleFrameLength(t *testing.T) {
	v := testValidated(t)
	a, err := NewAssembler(v)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	mp, _ := v.Mode.Params()
	fic := make([]byte, mp.FICBytes)
	mst := make([]byte, mp.MSTBytes)
	frame, err := a.Assemble(Frame{FIC: fic, MST: mst, TIST: 0x12345678})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(frame) != a.Len() {
		t.Fatalf("frame length = %d, want %d", len(frame), a.Len())
	}
}

func TestAssembleFrameRejectsWrongFICLength(t *testing.T) {
	v := testValidated(t)
	a, err := NewAssembler(v)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	mp, _ := v.Mode.Params()
	_, err = a.Assemble(Frame{FIC: make([]byte, mp.FICBytes+1), MST: make([]byte, mp.MSTBytes)})
	if err == nil {
		t.Fatal("expected error for wrong FIC length")
	}
}

func TestFCTWrapsModulus(t *testing.T) {
	v := testValidated(t)
	a, err := NewAssembler(v)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	mp, _ := v.Mode.Params()
	fic := make([]byte, mp.FICBytes)
	mst := make([]byte, mp.MSTBytes)
	for i := 0; i < FCTModulus+5; i++ {
		if _, err := a.Assemble(Frame{FIC: fic, MST: mst}); err != nil {
			t.Fatalf("Assemble at iteration %d: %v", i, err)
		}
	}
	if a.fct != 5 {
		t.Fatalf("fct after wrap = %d, want 5", a.fct)
	}
}

// TestFrameLeadsWithERRAndFSYNC covers scenario S1: the first emitted
// ETI frame's leading 4 octets are the nominal ERR byte followed by the
// fixed FSYNC sync word 0x073AB6.
func TestFrameLeadsWithERRAndFSYNC(t *testing.T) {
	v := testValidated(t)
	a, err := NewAssembler(v)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	mp, _ := v.Mode.Params()
	fic := make([]byte, mp.FICBytes)
	mst := make([]byte, mp.MSTBytes)
	frame, err := a.Assemble(Frame{FIC: fic, MST: mst})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x00, 0x07, 0x3A, 0xB6}
	if len(frame) < 4 || string(frame[0:4]) != string(want) {
		t.Fatalf("frame[0:4] = % X, want % X", frame[0:4], want)
	}
}

// TestAssembleOmitsTISTWhenDisabled covers the without-TIST half of
// spec.md §6/§8's length invariant: a frame built from an ensemble with
// TISTEnabled=false carries no trailing TIST octets and Len() agrees.
func TestAssembleOmitsTISTWhenDisabled(t *testing.T) {
	v := testValidatedWithTIST(t, false, 0)
	a, err := NewAssembler(v)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	mp, _ := v.Mode.Params()
	fic := make([]byte, mp.FICBytes)
	mst := make([]byte, mp.MSTBytes)
	frame, err := a.Assemble(Frame{FIC: fic, MST: mst, TIST: 0xAABBCCDD})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(frame) != a.Len() {
		t.Fatalf("frame length = %d, want %d", len(frame), a.Len())
	}

	vTIST := testValidatedWithTIST(t, true, 0)
	aTIST, err := NewAssembler(vTIST)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	if aTIST.Len() != a.Len()+4 {
		t.Fatalf("TIST-enabled Len() = %d, want %d (disabled Len()+4)", aTIST.Len(), a.Len()+4)
	}
}

// TestTISTEmbeddedInFrame covers scenario S4: with TIST enabled and a
// configured offset, the trailing 4 octets equal the frame's raw tick
// value plus tist_offset_ms×16384.
func TestTISTEmbeddedInFrame(t *testing.T) {
	v := testValidatedWithTIST(t, true, 1000)
	a, err := NewAssembler(v)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	mp, _ := v.Mode.Params()
	fic := make([]byte, mp.FICBytes)
	mst := make([]byte, mp.MSTBytes)
	const rawTick = uint32(0xAABBCCDD)
	frame, err := a.Assemble(Frame{FIC: fic, MST: mst, TIST: rawTick})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(frame) != a.Len() {
		t.Fatalf("frame length = %d, want %d", len(frame), a.Len())
	}
	tist := uint32(frame[len(frame)-4])<<24 | uint32(frame[len(frame)-3])<<16 | uint32(frame[len(frame)-2])<<8 | uint32(frame[len(frame)-1])
	want := rawTick + 1000*16384
	if tist != want {
		t.Fatalf("TIST = %#x, want %#x", tist, want)
	}
}
