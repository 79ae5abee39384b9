/*
NAME
  ebulatin.go - EBU Latin single-octet character encoding.

DESCRIPTION
  Maps the Latin subset of Unicode code points used by DAB labels
  (ensemble/service/component labels, FIG 1/x) to the single-octet EBU
  Latin table defined in ETSI EN 300 401 Annex C. Any character absent
  from the table fails with ErrUnsupportedCharacter rather than being
  silently substituted, per spec.md §4.4 and scenario S6.

  Lives in bits rather than fic so that ensemble (which validates label
  encodability) and fic (which emits FIG 1/x label fields) can both
  depend on it without depending on each other - ensemble never needs
  FIG encoding and fic never needs the ensemble graph for this check.

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

import "fmt"

// MaxLabelLen is the maximum length, in octets, of a DAB label (spec.md §3).
const MaxLabelLen = 16

// ErrUnsupportedCharacter is returned by EncodeLabel when s contains a
// rune with no EBU Latin mapping.
type ErrUnsupportedCharacter struct {
	Rune rune
}

func (e *ErrUnsupportedCharacter) Error() string {
	return fmt.Sprintf("character %q has no EBU Latin mapping", e.Rune)
}

// ErrLabelTooLong is returned by EncodeLabel when the encoded label
// exceeds MaxLabelLen octets.
type ErrLabelTooLong struct {
	Len int
}

func (e *ErrLabelTooLong) Error() string {
	return fmt.Sprintf("label is %d octets, maximum is %d", e.Len, MaxLabelLen)
}

// runeToEBU maps the printable ASCII range directly (it is a subset of
// EBU Latin at identical code points) plus a practical subset of
// accented Latin characters, mapped to single octets in the 0x80-0xA6
// range (sufficient for European-language service labels).
var runeToEBU = buildRuneToEBU()

func buildRuneToEBU() map[rune]byte {
	m := make(map[rune]byte, 128+32)
	// 0x20-0x7E is shared verbatim with ASCII in EBU Latin.
	for r := rune(0x20); r <= 0x7E; r++ {
		m[r] = byte(r)
	}
	// A practical subset of accented Latin characters, mapped to their
	// EN 300 401 Annex C single-octet code points.
	extra := map[rune]byte{
		'á': 0x81, 'à': 0x85, 'â': 0x83, 'ä': 0x84, 'ã': 0x88,
		'é': 0x8A, 'è': 0x8D, 'ê': 0x8B, 'ë': 0x8C,
		'í': 0x93, 'ì': 0x95, 'î': 0x94, 'ï': 0x96,
		'ó': 0x9B, 'ò': 0x9D, 'ô': 0x9C, 'ö': 0x9A, 'õ': 0x9E,
		'ú': 0xA3, 'ù': 0xA5, 'û': 0xA4, 'ü': 0xA1,
		'ñ': 0x99, 'ç': 0x87,
		'Á': 0x80, 'À': 0x8E, 'Ä': 0x8F, 'É': 0x89, 'Ñ': 0x98,
		'Ö': 0x90, 'Ü': 0x91, 'ß': 0xA2,
		'€': 0xA6,
	}
	for r, b := range extra {
		m[r] = b
	}
	return m
}

var ebuToRune = buildEBUToRune()

func buildEBUToRune() map[byte]rune {
	m := make(map[byte]rune, len(runeToEBU))
	for r, b := range runeToEBU {
		m[b] = r
	}
	return m
}

// EncodeRune looks up r's single-octet EBU Latin code point.
func EncodeRune(r rune) (byte, bool) {
	b, ok := runeToEBU[r]
	return b, ok
}

// EncodeLabel converts s into its EBU Latin octet representation,
// failing with ErrUnsupportedCharacter for any rune outside the table
// and ErrLabelTooLong if the result exceeds MaxLabelLen octets.
func EncodeLabel(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := EncodeRune(r)
		if !ok {
			return nil, &ErrUnsupportedCharacter{Rune: r}
		}
		out = append(out, b)
	}
	if len(out) > MaxLabelLen {
		return nil, &ErrLabelTooLong{Len: len(out)}
	}
	return out, nil
}

// DecodeLabel converts EBU Latin octets back to a Go string. Bytes
// without a known mapping are rendered as U+FFFD.
func DecodeLabel(b []byte) string {
	rs := make([]rune, len(b))
	for i, v := range b {
		r, ok := ebuToRune[v]
		if !ok {
			r = 0xFFFD
		}
		rs[i] = r
	}
	return string(rs)
}

// PadLabel right-pads an encoded label to MaxLabelLen octets with
// spaces (0x20), as required before FIG 1/x transmission.
func PadLabel(b []byte) [MaxLabelLen]byte {
	var out [MaxLabelLen]byte
	for i := range out {
		out[i] = 0x20
	}
	copy(out[:], b)
	return out
}
