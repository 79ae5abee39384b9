/*
NAME
  sink.go - EDI output sink adapters.

DESCRIPTION
  An EDISink accepts one AF packet per tick. PFTUDPSink fragments it
  with edi.Fragmenter and writes each PFT fragment as its own datagram,
  matching real EDI/UDP practice where Reed-Solomon-protected
  fragmentation guards against datagram loss. RawTCPSink writes the AF
  packet directly, relying on TCP's own reliability (matching real
  EDI/TCP practice, which forgoes PFT). Both wrap a plain io.Writer so
  either transport.UDPSender or transport.TCPSender (or a file/test
  writer) can sit underneath, the same pluggable-sender shape as the
  teacher's mtsSender wrapping an arbitrary io.WriteCloser destination
  (revid/senders.go).

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scheduler

import (
	"fmt"
	"io"

	"github.com/ausocean/dabmux/edi"
)

// EDISink delivers one AF packet to its transport.
type EDISink interface {
	Name() string
	Send(pkt edi.AFPacket) error
}

// PFTUDPSink fragments every AF packet into a protected PFT fragment
// group before writing each fragment to w.
type PFTUDPSink struct {
	name string
	w    io.Writer
	fr   *edi.Fragmenter
}

// NewPFTUDPSink returns a PFTUDPSink producing k data shards and r
// parity shards per AF packet.
func NewPFTUDPSink(name string, w io.Writer, k, r int) *PFTUDPSink {
	return &PFTUDPSink{name: name, w: w, fr: edi.NewFragmenter(k, r)}
}

func (s *PFTUDPSink) Name() string { return s.name }

// Send fragments pkt and writes each fragment as one Write call.
func (s *PFTUDPSink) Send(pkt edi.AFPacket) error {
	b, err := pkt.Bytes()
	if err != nil {
		return fmt.Errorf("scheduler: could not encode AF packet: %w", err)
	}
	frags, err := s.fr.Fragment(b)
	if err != nil {
		return fmt.Errorf("scheduler: could not fragment AF packet: %w", err)
	}
	for _, f := range frags {
		if _, err := s.w.Write(f.Bytes()); err != nil {
			return fmt.Errorf("scheduler: fragment write failed: %w", err)
		}
	}
	return nil
}

// RawTCPSink writes the AF packet verbatim, unfragmented.
type RawTCPSink struct {
	name string
	w    io.Writer
}

// NewRawTCPSink returns a RawTCPSink writing to w.
func NewRawTCPSink(name string, w io.Writer) *RawTCPSink {
	return &RawTCPSink{name: name, w: w}
}

func (s *RawTCPSink) Name() string { return s.name }

// Send writes pkt's encoded bytes to the underlying writer.
func (s *RawTCPSink) Send(pkt edi.AFPacket) error {
	b, err := pkt.Bytes()
	if err != nil {
		return fmt.Errorf("scheduler: could not encode AF packet: %w", err)
	}
	if _, err := s.w.Write(b); err != nil {
		return fmt.Errorf("scheduler: AF packet write failed: %w", err)
	}
	return nil
}
