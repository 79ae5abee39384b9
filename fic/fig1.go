/*
NAME
  fig1.go - FIG type 1 label encoders (1/0, 1/1, 1/4, 1/5).

DESCRIPTION
  All FIG 1 extensions share the same shape: an identifier (EId or SId,
  optionally with SCIdS), a 16-octet EBU Latin label padded with spaces,
  and a 16-bit short-label character flag mask selecting which
  characters survive in an 8-character abbreviated display, per
  spec.md §4.4. The per-extension functions here just choose the
  identifier field; encodeLabelBody does the shared packing, mirroring
  how the teacher's psi writers share one section-trailer helper across
  several PSI table types (container/mts/psi/psi.go).

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

import "github.com/ausocean/dabmux/bits"

// FIG 1 extension numbers, placed directly in the FIG header's 5-bit
// field per fig.go's simplified header model.
const (
	Ext1EnsembleLabel          uint8 = 0
	Ext1ProgrammeServiceLabel  uint8 = 1
	Ext1ServiceComponentLabel  uint8 = 4
	Ext1DataServiceLabel       uint8 = 5
)

// encodeLabelBody packs a Charset/OE flags octet, an identifier (of any
// width), a 16-octet padded label and a 16-bit short-label mask into a
// FIG 1 body.
func encodeLabelBody(charset uint8, oe bool, id []byte, label string, shortMask uint16) (FIG, error) {
	enc, err := bits.EncodeLabel(label)
	if err != nil {
		return FIG{}, err
	}
	padded := bits.PadLabel(enc)

	w := bits.NewWriter()
	oeb := uint32(0)
	if oe {
		oeb = 1
	}
	w.Write(uint32(charset), 4)
	w.Write(oeb, 1)
	w.Write(0, 3) // reserved.
	if err := w.WriteBytes(id); err != nil {
		return FIG{}, err
	}
	if err := w.WriteBytes(padded[:]); err != nil {
		return FIG{}, err
	}
	w.Write(uint32(shortMask), 16)
	return FIG{Type: FIGType1, Body: w.Bytes()}, nil
}

// EncodeEnsembleLabel builds FIG 1/0: the ensemble label.
func EncodeEnsembleLabel(eid uint16, label string, shortMask uint16) (FIG, error) {
	id := []byte{byte(eid >> 8), byte(eid)}
	f, err := encodeLabelBody(0, false, id, label, shortMask)
	if err != nil {
		return FIG{}, err
	}
	f.Field = Ext1EnsembleLabel
	return f, nil
}

// EncodeServiceLabel builds FIG 1/1: a programme service's label. sid
// must fit in 16 bits (audio/programme services).
func EncodeServiceLabel(sid uint32, label string, shortMask uint16) (FIG, error) {
	id := []byte{byte(sid >> 8), byte(sid)}
	f, err := encodeLabelBody(0, false, id, label, shortMask)
	if err != nil {
		return FIG{}, err
	}
	f.Field = Ext1ProgrammeServiceLabel
	return f, nil
}

// EncodeComponentLabel builds FIG 1/4: a service component's label,
// qualified by the service's 16-bit SId and the component's SCIdS.
func EncodeComponentLabel(sid uint32, scids uint8, label string, shortMask uint16) (FIG, error) {
	id := []byte{byte(sid >> 8), byte(sid), scids}
	f, err := encodeLabelBody(0, false, id, label, shortMask)
	if err != nil {
		return FIG{}, err
	}
	f.Field = Ext1ServiceComponentLabel
	return f, nil
}

// EncodeDataServiceLabel builds FIG 1/5: a data service's label,
// keyed by the service's 32-bit SId.
func EncodeDataServiceLabel(sid uint32, label string, shortMask uint16) (FIG, error) {
	id := []byte{byte(sid >> 24), byte(sid >> 16), byte(sid >> 8), byte(sid)}
	f, err := encodeLabelBody(0, false, id, label, shortMask)
	if err != nil {
		return FIG{}, err
	}
	f.Field = Ext1DataServiceLabel
	return f, nil
}
