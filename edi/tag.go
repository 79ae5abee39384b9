/*
NAME
  tag.go - EDI TAG item encoding.

DESCRIPTION
  A TAG item is a self-describing 4-byte ASCII name, a 4-byte bit-length
  and a value padded out to a byte boundary, per spec.md §4.6. dabmux
  emits four TAG item kinds per AF packet: *ptr (the pointer item that
  must open every TAG packet), deti (the ETI(NI) frame from its ERR
  octet through the FIC, without MST, EOF or TIST), est/estN (one subchannel's
  MST slice) and *dmy (padding to round an AF packet out to a fixed
  size, when the transport prefers constant-size packets).

  Mirrors the teacher's self-describing-field style used throughout
  container/mts/psi (each descriptor/table is tag + length + payload),
  generalised from MPEG-TS's 1-byte tag/1-byte length to EDI's 4+4 byte
  fields.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package edi assembles EDI TAG items, AF packets and PFT fragments
// from assembled ETI frames, per spec.md §4.6.
package edi

import "fmt"

// TagName identifies a 4-character EDI TAG item name.
type TagName [4]byte

var (
	TagPointer = TagName{'*', 'p', 't', 'r'}
	TagDETI    = TagName{'d', 'e', 't', 'i'}
	TagEST     = TagName{'e', 's', 't', '0'} // estN: '0'+subchannel index mod 10, see Tag.
	TagDummy   = TagName{'*', 'd', 'm', 'y'}
)

// Tag is one encoded TAG item.
type Tag struct {
	Name  TagName
	Value []byte
}

// estTagName returns the estN tag name for a given subchannel index.
// Indices above 9 wrap the single decimal digit, matching the
// informal "estN" convention used in practice for low subchannel
// counts; ensembles with more than 10 subchannels disambiguate via the
// deti tag's companion STC table rather than the tag name alone.
func estTagName(subChId uint8) TagName {
	return TagName{'e', 's', 't', '0' + byte(subChId%10)}
}

// NewPointerTag builds the mandatory *ptr item that must be the first
// TAG item in every AF packet's payload. protocolType identifies the
// payload protocol ('T' for TAG items, per spec.md §4.6).
func NewPointerTag(protocolType byte, majorRev, minorRev uint8) Tag {
	return Tag{Name: TagPointer, Value: []byte{protocolType, majorRev, minorRev}}
}

// NewDETITag wraps the leading part of one ETI(NI) frame (its header
// fields and FIC; the MST travels as separate est/estN items) as a deti
// TAG item.
func NewDETITag(etiHeader []byte) Tag {
	return Tag{Name: TagDETI, Value: etiHeader}
}

// NewESTTag wraps one subchannel's MST octets for this frame.
func NewESTTag(subChId uint8, data []byte) Tag {
	return Tag{Name: estTagName(subChId), Value: data}
}

// NewDummyTag builds a *dmy padding item of exactly n octets.
func NewDummyTag(n int) Tag {
	return Tag{Name: TagDummy, Value: make([]byte, n)}
}

// Bytes encodes the TAG item: 4-byte name, 4-byte big-endian bit
// length, value, zero-padded to the next byte boundary (always a
// no-op here since every Value is already byte-granular).
func (t Tag) Bytes() ([]byte, error) {
	if len(t.Value) > (1<<32-1)/8 {
		return nil, fmt.Errorf("edi: TAG item %q value too large", t.Name)
	}
	bitLen := uint32(len(t.Value)) * 8
	out := make([]byte, 0, 8+len(t.Value))
	out = append(out, t.Name[:]...)
	out = append(out, byte(bitLen>>24), byte(bitLen>>16), byte(bitLen>>8), byte(bitLen))
	out = append(out, t.Value...)
	return out, nil
}
