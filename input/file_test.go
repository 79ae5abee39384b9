package input

import (
	"os"
	"testing"

	"github.com/ausocean/utils/logging"
)

type testLogger struct{}

func (testLogger) SetLevel(int8) {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{}) {}
func (testLogger) Warning(string, ...interface{}) {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}
func (testLogger) Log(int8, string, ...interface{}) {}

var _ logging.Logger = testLogger{}

func TestFileReaderReadsContent(t *testing.T) {
	f, err := os.CreateTemp("", "dabmux-input-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	want := []byte("subchannel payload bytes")
	if _, err := f.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	r := NewFileReader(testLogger{}, f.Name(), false)
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Close()

	buf := make([]byte, len(want))
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(want) || string(buf) != string(want) {
		t.Fatalf("got %q, want %q", buf[:n], want)
	}
}

func TestFileReaderLoops(t *testing.T) {
	f, err := os.CreateTemp("", "dabmux-input-loop-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	content := []byte("abc")
	f.Write(content)
	f.Close()

	r := NewFileReader(testLogger{}, f.Name(), true)
	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 3)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("first read: %v", err)
	}
	// Next read should loop back to the start rather than returning EOF.
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("looped read: %v", err)
	}
	if n == 0 {
		t.Fatal("expected looped read to return data")
	}
}

func TestFileReaderNotStarted(t *testing.T) {
	r := NewFileReader(testLogger{}, "/nonexistent", false)
	buf := make([]byte, 8)
	if _, err := r.Read(buf); err == nil {
		t.Fatal("expected error reading unstarted reader")
	}
}
