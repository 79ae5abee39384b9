package ensemble

import "testing"

func minimalEnsemble() Ensemble {
	return Ensemble{
		EId:   0xCE15,
		ECC:   0xE1,
		Mode:  ModeI,
		Label: "Test",
		Services: []Service{
			{UID: 1, SId: 0x1001, Label: "Test Service"},
		},
		Components: []ServiceComponent{
			{ServiceUID: 1, SubChId: 0, Primary: true},
		},
		Subchannels: []Subchannel{
			{SubChId: 0, Kind: SubchannelDABAudio, BitrateKbps: 128, Protection: ProtectionDescriptor{Form: ProtectionEEPFormA, Level: 3}},
		},
	}
}

func TestValidateMinimalEnsemble(t *testing.T) {
	v, err := Validate(minimalEnsemble())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Allocation.Subchannels) != 1 {
		t.Fatalf("expected 1 allocated subchannel, got %d", len(v.Allocation.Subchannels))
	}
}

func TestValidateOrphanService(t *testing.T) {
	e := minimalEnsemble()
	e.Services = append(e.Services, Service{UID: 2, SId: 0x1002, Label: "Orphan"})
	_, err := Validate(e)
	if err == nil {
		t.Fatal("expected orphan service error")
	}
}

func TestValidateEmptyLabel(t *testing.T) {
	e := minimalEnsemble()
	e.Label = ""
	if _, err := Validate(e); err != nil {
		t.Fatalf("empty label should be a valid boundary case: %v", err)
	}
}

func TestValidateLabelTooLong(t *testing.T) {
	e := minimalEnsemble()
	e.Label = "ThisLabelIsSeventeen!"
	_, err := Validate(e)
	if err == nil {
		t.Fatal("expected label too long error")
	}
}

func TestValidateUnsupportedCharacter(t *testing.T) {
	e := minimalEnsemble()
	e.Services[0].Label = "Привет"
	_, err := Validate(e)
	if err == nil {
		t.Fatal("expected unsupported character error")
	}
}

func TestValidateSixteenCharLabel(t *testing.T) {
	e := minimalEnsemble()
	e.Label = "SixteenCharLabel" // exactly 16.
	if _, err := Validate(e); err != nil {
		t.Fatalf("16-char label should be valid: %v", err)
	}
}
