/*
NAME
  crc16.go - CRC-16/CCITT used by FIB, AF and ETI EOH/EOF checksums.

DESCRIPTION
  Table-driven CRC-16 with polynomial 0x1021, initial value 0xFFFF and
  XOR-out 0xFFFF, matching ETSI EN 300 401 and EN 300 799. Adapted from
  the table-generation style of the teacher's
  container/mts/psi/crc.go (crc32_MakeTable/crc32_Update), generalised
  from CRC-32/MPEG-2 to CRC-16/CCITT and the bit-reflection removed
  since FIC/ETI/EDI checksums are computed MSB-first without reflection.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import "encoding/binary"

const (
	crc16Poly   = 0x1021
	crc16Init   = 0xFFFF
	crc16XorOut = 0xFFFF
)

var crc16Table = makeCRC16Table(crc16Poly)

func makeCRC16Table(poly uint16) *[256]uint16 {
	var t [256]uint16
	for i := range t {
		crc := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// CRC16 computes the CCITT CRC-16 (poly 0x1021, init 0xFFFF, xor-out
// 0xFFFF) of b.
func CRC16(b []byte) uint16 {
	crc := uint16(crc16Init)
	for _, v := range b {
		crc = (crc << 8) ^ crc16Table[byte(crc>>8)^v]
	}
	return crc ^ crc16XorOut
}

// AppendCRC16 appends the big-endian CRC-16 of b to b and returns the
// result. Used to finalize FIBs and AF packets.
func AppendCRC16(b []byte) []byte {
	out := make([]byte, len(b)+2)
	copy(out, b)
	binary.BigEndian.PutUint16(out[len(b):], CRC16(b))
	return out
}

// VerifyCRC16 reports whether the last two bytes of b are the correct
// big-endian CRC-16 of the bytes preceding them. b must be at least 2
// bytes long.
func VerifyCRC16(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	want := binary.BigEndian.Uint16(b[len(b)-2:])
	return CRC16(b[:len(b)-2]) == want
}
