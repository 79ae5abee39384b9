/*
NAME
  gf256.go - GF(2^8) arithmetic over the primitive polynomial 0x11D.

DESCRIPTION
  Precomputed exp/log tables supporting multiplication, division and
  inversion in GF(2^8), the field underlying the EDI PFT Reed-Solomon
  codec (edi/rs). Table-driven precompute mirrors the teacher's
  crc32_MakeTable construction style in container/mts/psi/crc.go, here
  building exponential/logarithm tables instead of a CRC table.

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

// PrimPoly is the primitive polynomial x^8+x^4+x^3+x^2+1 used by the
// EDI PFT Reed-Solomon codec.
const PrimPoly = 0x11D

// Generator is the field generator element, alpha=0x02.
const Generator = 0x02

var (
	expTable [512]byte // Extended to 512 to avoid modulo in Mul.
	logTable [256]byte
)

func init() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		expTable[i] = x
		logTable[x] = byte(i)
		hi := x&0x80 != 0
		x <<= 1
		if hi {
			x ^= PrimPoly & 0xFF // The x^8 term was shifted out; reduce by the rest.
		}
	}
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}
}

// Exp returns Generator^i in GF(2^8), for any non-negative i.
func Exp(i int) byte {
	return expTable[i%255]
}

// Log returns the discrete log base Generator of nonzero a. Log(0) is
// undefined and returns 0.
func Log(a byte) int {
	return int(logTable[a])
}

// Mul multiplies a and b in GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div divides a by nonzero b in GF(2^8).
func Div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	if b == 0 {
		panic("gf256: division by zero")
	}
	return expTable[(int(logTable[a])-int(logTable[b])+255)%255]
}

// Inverse returns the multiplicative inverse of nonzero a in GF(2^8).
func Inverse(a byte) byte {
	if a == 0 {
		panic("gf256: no inverse of zero")
	}
	return expTable[255-int(logTable[a])]
}

// Pow returns a^n in GF(2^8).
func Pow(a byte, n int) byte {
	if a == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	e := (int(logTable[a]) * n) % 255
	if e < 0 {
		e += 255
	}
	return expTable[e]
}
