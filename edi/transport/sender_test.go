package transport

import (
	"encoding/binary"
	"net"
	"testing"
	"time"
)

type testLogger struct{}

func (testLogger) SetLevel(int8)                                {}
func (testLogger) Debug(string, ...interface{})                {}
func (testLogger) Info(string, ...interface{})                 {}
func (testLogger) Warning(string, ...interface{})              {}
func (testLogger) Error(string, ...interface{})                {}
func (testLogger) Fatal(string, ...interface{})                {}
func (testLogger) Log(int8, string, ...interface{})            {}

func TestUDPSenderWritesDatagram(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer pc.Close()

	var reported int
	sender, err := NewUDPSender(pc.LocalAddr().String(), WithReportCallback(func(n int) { reported = n }))
	if err != nil {
		t.Fatalf("NewUDPSender: %v", err)
	}
	defer sender.Close()

	want := []byte{0x01, 0x02, 0x03}
	if _, err := sender.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 64)
	pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != len(want) {
		t.Fatalf("got %d bytes, want %d", n, len(want))
	}
	if reported != len(want) {
		t.Errorf("report callback got %d, want %d", reported, len(want))
	}
}

func TestTCPSenderWritesLengthPrefixedPayload(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	sender, err := NewTCPSender(ln.Addr().String(), testLogger{})
	if err != nil {
		t.Fatalf("NewTCPSender: %v", err)
	}
	defer sender.Close()

	srv := <-accepted
	defer srv.Close()

	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	if _, err := sender.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	hdr := make([]byte, 4)
	srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(srv, hdr); err != nil {
		t.Fatalf("read length prefix: %v", err)
	}
	gotLen := binary.BigEndian.Uint32(hdr)
	if int(gotLen) != len(payload) {
		t.Fatalf("length prefix = %d, want %d", gotLen, len(payload))
	}

	body := make([]byte, gotLen)
	if _, err := readFull(srv, body); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	for i, b := range body {
		if b != payload[i] {
			t.Fatalf("payload mismatch at %d: got %x, want %x", i, b, payload[i])
		}
	}
}

func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
