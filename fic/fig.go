/*
NAME
  fig.go - FIG header framing and FIB assembly.

DESCRIPTION
  A FIG begins with a 1-octet header: 3-bit Type in the top bits, and a
  5-bit field whose meaning depends on Type (Length for FIG type 0,
  Extension directly for FIG type 1/2), per spec.md §4.4. FIBs are
  30-octet payloads with a trailing CRC-16, matching the teacher's
  psi.PSI.Bytes()/AddCRC() pattern in container/mts/psi/psi.go and
  psi/crc.go, generalised from MPEG-TS PSI sectioning to DAB FIC framing.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package fic

import (
	"fmt"

	"github.com/ausocean/dabmux/bits"
)

// FIBPayloadLen is the payload size of a FIB, excluding its trailing
// CRC-16, per spec.md §6.
const FIBPayloadLen = 30

// FIBLen is the total size of a FIB including its CRC-16.
const FIBLen = FIBPayloadLen + 2

// FIGType identifies a FIG's top-level type.
type FIGType uint8

const (
	FIGType0 FIGType = 0
	FIGType1 FIGType = 1
	FIGType2 FIGType = 2
)

// FIG is a single, already-encoded Fast Information Group: a type, a
// 5-bit field (length for type 0, extension for types 1/2) and a body.
type FIG struct {
	Type  FIGType
	Field uint8 // 5 bits.
	Body  []byte
}

// Bytes returns the header-prefixed byte representation of the FIG.
func (f FIG) Bytes() ([]byte, error) {
	if f.Field > 0x1F {
		return nil, fmt.Errorf("fic: FIG field %d exceeds 5 bits", f.Field)
	}
	w := bits.NewWriter()
	w.Write(uint32(f.Type), 3)
	w.Write(uint32(f.Field), 5)
	if err := w.WriteBytes(f.Body); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Len returns the total encoded length of the FIG, including its
// 1-octet header.
func (f FIG) Len() int { return 1 + len(f.Body) }

// PackFIBs greedily packs figs, in the given priority order, into FIBs
// of FIBPayloadLen bytes, padding unused bytes with 0xFF and appending a
// CRC-16 to each, per spec.md §4.4 step 4. Each FIG goes into the first
// FIB that still has room for it, and a new FIB is opened only when none
// has; a FIG larger than FIBPayloadLen is itself an error, since
// fragmentation of FIGs across FIBs is not modeled in this
// implementation (FIG 2 segments itself into FIB-sized chunks upstream,
// see fig2.go).
func PackFIBs(figs []FIG, fibCount int) ([][]byte, error) {
	fibs := make([][]byte, 0, fibCount)
	var open [][]byte

	flush := func(cur []byte) {
		padded := make([]byte, FIBPayloadLen)
		copy(padded, cur)
		for i := len(cur); i < FIBPayloadLen; i++ {
			padded[i] = 0xFF
		}
		fibs = append(fibs, bits.AppendCRC16(padded))
	}

	for _, f := range figs {
		b, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		if len(b) > FIBPayloadLen {
			return nil, fmt.Errorf("fic: FIG of %d bytes does not fit in a FIB", len(b))
		}
		i := 0
		for i < len(open) && len(open[i])+len(b) > FIBPayloadLen {
			i++
		}
		if i == len(open) {
			open = append(open, nil)
		}
		open[i] = append(open[i], b...)
	}
	if len(open) == 0 {
		open = append(open, nil)
	}
	for _, cur := range open {
		flush(cur)
	}
	for len(fibs) < fibCount {
		flush(nil)
	}
	if len(fibs) > fibCount {
		return nil, fmt.Errorf("fic: FIGs overflow FIC capacity of %d FIB(s)", fibCount)
	}
	return fibs, nil
}
