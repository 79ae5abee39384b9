package config

import (
	"testing"

	"github.com/ausocean/dabmux/ensemble"
)

type dumbLogger struct {
	warnings int
}

func (l *dumbLogger) SetLevel(int8)                {}
func (l *dumbLogger) Debug(string, ...interface{}) {}
func (l *dumbLogger) Info(string, ...interface{})  {}
func (l *dumbLogger) Warning(string, ...interface{}) {
	l.warnings++
}
func (l *dumbLogger) Error(string, ...interface{})             {}
func (l *dumbLogger) Fatal(string, ...interface{})             {}
func (l *dumbLogger) Log(int8, string, ...interface{})         {}

func baseEnsemble() ensemble.Ensemble {
	return ensemble.Ensemble{
		EId:  0xCE15,
		ECC:  0xE1,
		Mode: ensemble.ModeI,
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
}

func TestValidateAppliesDefaults(t *testing.T) {
	log := &dumbLogger{}
	c := Config{
		Ensemble: baseEnsemble(),
		Readers:  []ReaderSpec{{SubChId: 0, Kind: ReaderFile, Path: "/tmp/sub0"}},
		Logger:   log,
	}
	if _, err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.ReaderBudgetFraction != defaultReaderBudgetFraction {
		t.Errorf("ReaderBudgetFraction = %v, want default %v", c.ReaderBudgetFraction, defaultReaderBudgetFraction)
	}
}

func TestValidateRejectsDuplicateReaderSubChId(t *testing.T) {
	c := Config{
		Ensemble: baseEnsemble(),
		Readers: []ReaderSpec{
			{SubChId: 0, Kind: ReaderFile, Path: "/tmp/a"},
			{SubChId: 0, Kind: ReaderFile, Path: "/tmp/b"},
		},
		Logger: &dumbLogger{},
	}
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for duplicate reader subchannel id")
	}
}

func TestValidateRejectsReaderMissingPath(t *testing.T) {
	c := Config{
		Ensemble: baseEnsemble(),
		Readers:  []ReaderSpec{{SubChId: 0, Kind: ReaderFile}},
		Logger:   &dumbLogger{},
	}
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for reader missing Path")
	}
}

func TestValidateRejectsSinkMissingAddr(t *testing.T) {
	c := Config{
		Ensemble: baseEnsemble(),
		Sinks:    []SinkSpec{{Name: "edi-udp", Kind: SinkEDIUDP, RSDataShards: 4, RSParityShards: 2}},
		Logger:   &dumbLogger{},
	}
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error for EDI UDP sink missing Addr")
	}
}

func TestValidateRequiresLogger(t *testing.T) {
	c := Config{Ensemble: baseEnsemble()}
	if _, err := c.Validate(); err == nil {
		t.Fatal("expected error when Logger is nil")
	}
}

func TestUpdateAppliesReaderBudgetFraction(t *testing.T) {
	c := Config{Logger: &dumbLogger{}}
	c.Update(map[string]string{KeyReaderBudgetFraction: "0.5"})
	if c.ReaderBudgetFraction != 0.5 {
		t.Errorf("ReaderBudgetFraction = %v, want 0.5", c.ReaderBudgetFraction)
	}
}
