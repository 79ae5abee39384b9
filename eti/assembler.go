/*
NAME
  assembler.go - ETI(NI) frame assembly.

DESCRIPTION
  Assembles one ETI(NI, G.703) frame per spec.md §4.5/§6 from a frame's
  FIC and MST octets: a 1-octet ERR field, a 3-octet FSYNC sync word
  (0x073AB6), a 4-octet Frame Characterization (FC) field, a 4-octet
  Stream Characterization (STC) entry per subchannel, a 4-octet
  End-Of-Header (EOH) field carrying a CRC-16 over FC||STC, the FIC
  octets, the MST octets, a 4-octet End-Of-Frame (EOF) field with a
  CRC-16 over the FIC||MST payload region, and, when the ensemble
  enables it, a 4-octet TIST timestamp.

  The manual, field-by-field MSB-first packing here follows the same
  discipline as the teacher's mts.Encoder/psi writers
  (container/mts/encoder.go, container/mts/psi/psi.go): every field gets
  its own named constant and an explicit width, rather than an opaque
  byte-offset table.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package eti assembles ETI(NI) transport frames from FIC and MST
// octet streams, per spec.md §4.5.
package eti

import (
	"fmt"

	"github.com/ausocean/dabmux/bits"
	"github.com/ausocean/dabmux/ensemble"
)

// FCTModulus is the modulus of the wrapping frame counter.
const FCTModulus = 250

// errNominal is the nominal (no-error) value of the 1-octet ERR field.
const errNominal = 0x00

// fsync is the fixed 3-octet ETI(NI) frame sync word, per spec.md §6.
const fsync = 0x073AB6

// tistTicksPerMS is the number of TIST units (1/16,384,000 s each) per
// millisecond, used to fold TISTOffsetMS into the emitted timestamp.
const tistTicksPerMS = 16384

// Assembler builds successive ETI(NI) frames for a validated ensemble.
type Assembler struct {
	mode        ensemble.TransmissionMode
	mstLen      int
	ficLen      int
	subs        []ensemble.Subchannel
	fct         uint8
	tistEnabled bool
	tistOff     uint32
}

// NewAssembler builds an Assembler for a validated ensemble's
// transmission mode and allocated subchannels.
func NewAssembler(e *ensemble.Validated) (*Assembler, error) {
	mp, ok := e.Mode.Params()
	if !ok {
		return nil, fmt.Errorf("eti: unknown transmission mode %v", e.Mode)
	}
	return &Assembler{
		mode:        e.Mode,
		mstLen:      mp.MSTBytes,
		ficLen:      mp.FICBytes,
		subs:        e.Allocation.Subchannels,
		tistEnabled: e.TISTEnabled,
		tistOff:     e.TISTOffsetMS,
	}, nil
}

// Len returns the total octet length of one assembled ETI frame,
// including the trailing TIST only if the ensemble enables it.
func (a *Assembler) Len() int {
	n := 1 + 3 + 4 + 4*len(a.subs) + 4 + a.ficLen + a.mstLen + 4
	if a.tistEnabled {
		n += 4
	}
	return n
}

// FCT returns the frame counter value that the next call to Assemble
// will write into the frame header.
func (a *Assembler) FCT() uint8 {
	return a.fct
}

// TISTLen returns the number of trailing TIST octets Assemble appends:
// 4 if the ensemble enables TIST, 0 otherwise.
func (a *Assembler) TISTLen() int {
	if a.tistEnabled {
		return 4
	}
	return 0
}

// SkipFrames advances the frame counter by n frames without emitting
// them, per spec.md §4.7's lateness-recovery rule: the multiplexer
// never emits a partial frame, so catching up after lateness only
// means the FCT sequence jumps rather than stalls.
func (a *Assembler) SkipFrames(n int) {
	if n <= 0 {
		return
	}
	a.fct = uint8((int(a.fct) + n) % FCTModulus)
}

// Frame holds the components needed to assemble one ETI frame.
type Frame struct {
	FIC []byte
	MST []byte

	// TIST is the raw UTC-derived tick value before TISTOffsetMS is
	// folded in; Assemble adds the Assembler's configured offset and
	// omits this field entirely when the ensemble disables TIST.
	TIST uint32
}

// Assemble builds one ETI(NI) frame and advances the frame counter.
// fic must be exactly a.ficLen bytes and mst exactly a.mstLen bytes.
func (a *Assembler) Assemble(f Frame) ([]byte, error) {
	if len(f.FIC) != a.ficLen {
		return nil, fmt.Errorf("eti: FIC length %d, want %d", len(f.FIC), a.ficLen)
	}
	if len(f.MST) != a.mstLen {
		return nil, fmt.Errorf("eti: MST length %d, want %d", len(f.MST), a.mstLen)
	}

	header := bits.NewWriter()
	a.writeFC(header)
	for _, sc := range a.subs {
		writeSTC(header, sc)
	}
	headerBytes := header.Bytes()
	eohCRC := bits.CRC16(headerBytes)
	header.Write(uint32(eohCRC), 16)
	header.Write(0xFFFF, 16) // EOH RFU.

	payload := bits.NewWriter()
	payload.WriteBytes(f.FIC)
	payload.WriteBytes(f.MST)
	payloadBytes := payload.Bytes()
	eofCRC := bits.CRC16(payloadBytes)

	out := make([]byte, 0, a.Len())
	out = append(out, errNominal, byte(fsync>>16), byte(fsync>>8&0xFF), byte(fsync&0xFF))
	out = append(out, header.Bytes()...)
	out = append(out, payloadBytes...)
	out = append(out, byte(eofCRC>>8), byte(eofCRC))
	out = append(out, 0xFF, 0xFF) // EOF RFU.
	if a.tistEnabled {
		tist := f.TIST + a.tistOff*tistTicksPerMS
		out = append(out, byte(tist>>24), byte(tist>>16), byte(tist>>8), byte(tist))
	}

	a.fct = uint8((int(a.fct) + 1) % FCTModulus)
	return out, nil
}

// writeFC writes the 4-octet Frame Characterization field: FCT, number
// of subchannels, FICF, frame phase, transmission mode id and RFU.
func (a *Assembler) writeFC(w *bits.Writer) {
	w.Write(uint32(a.fct), 8)
	w.Write(uint32(len(a.subs)), 7)
	w.Write(1, 1) // FICF: FIC always present.
	mid := modeID(a.mode)
	w.Write(0, 3) // FP: frame phase, not modelled beyond single-phase streams.
	w.Write(uint32(mid), 2)
	w.Write(0, 11) // RFU.
}

func modeID(m ensemble.TransmissionMode) uint8 {
	switch m {
	case ensemble.ModeI:
		return 0
	case ensemble.ModeII:
		return 1
	case ensemble.ModeIII:
		return 2
	case ensemble.ModeIV:
		return 3
	default:
		return 0
	}
}

// writeSTC writes one subchannel's 4-octet Stream Characterization
// entry: SubChId, start address, table index/protection and size.
func writeSTC(w *bits.Writer, sc ensemble.Subchannel) {
	w.Write(uint32(sc.SubChId), 6)
	w.Write(uint32(sc.StartCU), 10)
	tpl := protectionCode(sc)
	w.Write(uint32(tpl), 6)
	w.Write(uint32(sc.SizeCU), 10)
}

func protectionCode(sc ensemble.Subchannel) uint8 {
	form := uint8(sc.Protection.Form)
	level := uint8(sc.Protection.Level)
	return form<<4 | (level & 0x0F)
}
