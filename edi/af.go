/*
NAME
  af.go - EDI AF packet framing.

DESCRIPTION
  An AF packet carries one frame's worth of TAG items: a 2-octet "AF"
  sync, a 4-octet payload length, a 2-octet sequence number, a 1-octet
  AR field (top bit: RS-protection flag; other bits zero), a 1-octet protocol
  type, the TAG item payload, and a trailing CRC-16, per spec.md §4.6.
  The sequence number increments per packet and wraps modulo 2^16,
  letting a receiver detect lost or reordered packets.

  Framing style matches the teacher's mts.Packet.Bytes() fixed-header
  layout (container/mts/mts.go): named constant-width fields followed
  by a variable payload and a checksum trailer.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package edi

import (
	"encoding/binary"
	"fmt"

	"github.com/ausocean/dabmux/bits"
)

// AFSync is the 2-octet synchronization marker opening every AF packet.
var AFSync = [2]byte{'A', 'F'}

// ProtocolTAG identifies a TAG-item payload in the AF packet's PT field.
const ProtocolTAG = 'T'

// arRSFlag marks, in the AR field's top bit, that this packet's parent
// PFT fragment group carries Reed-Solomon protection.
const arRSFlag = 0x80

// AFPacket is one encoded AF packet.
type AFPacket struct {
	Seq     uint16
	HasRS   bool
	PT      byte
	Payload []byte
}

// NewAFPacket concatenates tags into one AF packet's payload.
func NewAFPacket(seq uint16, hasRS bool, tags []Tag) (AFPacket, error) {
	var payload []byte
	for _, t := range tags {
		b, err := t.Bytes()
		if err != nil {
			return AFPacket{}, err
		}
		payload = append(payload, b...)
	}
	return AFPacket{Seq: seq, HasRS: hasRS, PT: ProtocolTAG, Payload: payload}, nil
}

// Bytes encodes the AF packet, including its trailing CRC-16.
func (p AFPacket) Bytes() ([]byte, error) {
	if len(p.Payload) > 0xFFFFFFFF {
		return nil, fmt.Errorf("edi: AF payload too large")
	}
	header := make([]byte, 0, 2+4+2+1+1)
	header = append(header, AFSync[:]...)
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(p.Payload)))
	header = append(header, lenBuf...)
	seqBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(seqBuf, p.Seq)
	header = append(header, seqBuf...)
	ar := byte(0)
	if p.HasRS {
		ar |= arRSFlag
	}
	header = append(header, ar)
	header = append(header, p.PT)

	body := append(header, p.Payload...)
	crc := bits.CRC16(body)
	out := append(body, byte(crc>>8), byte(crc))
	return out, nil
}

// VerifyAFPacket checks b's trailing CRC-16 and, if valid, returns the
// decoded sync/len/seq/ar/pt header fields and payload slice.
func VerifyAFPacket(b []byte) (AFPacket, error) {
	const headerLen = 2 + 4 + 2 + 1 + 1
	if len(b) < headerLen+2 {
		return AFPacket{}, fmt.Errorf("edi: AF packet too short")
	}
	if b[0] != AFSync[0] || b[1] != AFSync[1] {
		return AFPacket{}, fmt.Errorf("edi: bad AF sync")
	}
	body := b[:len(b)-2]
	if !bits.VerifyCRC16(b) {
		return AFPacket{}, fmt.Errorf("edi: AF packet CRC mismatch")
	}
	payloadLen := binary.BigEndian.Uint32(b[2:6])
	if int(payloadLen) != len(body)-headerLen {
		return AFPacket{}, fmt.Errorf("edi: AF payload length field mismatch")
	}
	seq := binary.BigEndian.Uint16(b[6:8])
	ar := b[8]
	pt := b[9]
	return AFPacket{
		Seq:     seq,
		HasRS:   ar&arRSFlag != 0,
		PT:      pt,
		Payload: b[headerLen : headerLen+int(payloadLen)],
	}, nil
}
