/*
NAME
  grid.go - MSC capacity-unit grid assembly.

DESCRIPTION
  Lays per-subchannel payload octets into their allocated byte ranges
  within one CIF (Common Interleaved Frame), the MST's per-frame
  payload, per spec.md §4.3/§4.5. One Capacity Unit equals 8 octets
  (64 bits) per EN 300 401; a subchannel's StartCU/SizeCU (set by
  ensemble.Allocate) therefore map directly onto a byte range of the
  MST buffer.

  Underrun (too few bytes from a subchannel's reader this frame) is
  repaired by zero-filling the remainder of its slot rather than
  shifting or dropping other subchannels, per spec.md §7's recoverable
  Underrun class. Overrun (too many bytes) is a caller/reader bug and
  fails the frame, matching the teacher's bounds-checked packet writers
  in container/mts/mts.go that refuse to silently truncate on misuse.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package msc assembles the Main Service Channel payload (the MST) for
// one transmission frame from per-subchannel capacity-unit slots.
package msc

import (
	"fmt"

	"github.com/ausocean/dabmux/ensemble"
)

// BytesPerCU is the fixed octet width of one Capacity Unit.
const BytesPerCU = 8

// ErrSubchannelOverrun is returned by Grid.Assemble when a subchannel
// supplies more bytes than its allocated slot can hold.
type ErrSubchannelOverrun struct {
	SubChId uint8
	Got     int
	Want    int
}

func (e *ErrSubchannelOverrun) Error() string {
	return fmt.Sprintf("subchannel %d supplied %d bytes, slot holds %d", e.SubChId, e.Got, e.Want)
}

// Grid maps allocated subchannels onto byte ranges of an MST buffer of
// a fixed size (mstBytes), per transmission mode.
type Grid struct {
	mstBytes int
	subs     []ensemble.Subchannel
}

// NewGrid builds a Grid for the given MST size and allocated
// subchannels (ensemble.AllocationResult.Subchannels).
func NewGrid(mstBytes int, subs []ensemble.Subchannel) *Grid {
	return &Grid{mstBytes: mstBytes, subs: subs}
}

// Assemble builds one CIF's MST bytes. payload maps each subchannel id
// to the octets its reader produced this frame; a missing or short
// entry is zero-filled, per the Underrun recovery rule. It fails with
// *ErrSubchannelOverrun if any entry exceeds its subchannel's slot.
func (g *Grid) Assemble(payload map[uint8][]byte) ([]byte, error) {
	buf := make([]byte, g.mstBytes)
	for _, sc := range g.subs {
		start := sc.StartCU * BytesPerCU
		size := sc.SizeCU * BytesPerCU
		if start+size > len(buf) {
			return nil, fmt.Errorf("msc: subchannel %d slot [%d,%d) exceeds MST size %d", sc.SubChId, start, start+size, len(buf))
		}
		data := payload[sc.SubChId]
		if len(data) > size {
			return nil, &ErrSubchannelOverrun{SubChId: sc.SubChId, Got: len(data), Want: size}
		}
		copy(buf[start:start+size], data)
		// Bytes beyond len(data) within the slot are already zero from
		// make([]byte, ...): this is the Underrun zero-fill.
	}
	return buf, nil
}

// SlotFor returns the byte range, within the MST, allocated to
// subChId, and false if no such subchannel is in the grid.
func (g *Grid) SlotFor(subChId uint8) (start, size int, ok bool) {
	for _, sc := range g.subs {
		if sc.SubChId == subChId {
			return sc.StartCU * BytesPerCU, sc.SizeCU * BytesPerCU, true
		}
	}
	return 0, 0, false
}
