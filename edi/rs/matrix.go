/*
NAME
  matrix.go - GF(2^8) matrix arithmetic for Reed-Solomon erasure coding.

DESCRIPTION
  A small dense-matrix layer over bits.GF256 arithmetic: multiply and
  Gauss-Jordan inversion, the two operations RS(255,k) erasure encoding
  and reconstruction need. Generalises the teacher's table-precompute
  style (bits.GF256's exp/log tables) up one level, from scalar field
  arithmetic to the matrices built from it.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rs implements Reed-Solomon(255,k) erasure coding over
// GF(2^8), used by edi/pft.go to protect PFT fragment groups.
package rs

import (
	"fmt"

	"github.com/ausocean/dabmux/bits"
)

// matrix is a dense row-major matrix of GF(2^8) elements.
type matrix [][]byte

func newMatrix(rows, cols int) matrix {
	m := make(matrix, rows)
	for i := range m {
		m[i] = make([]byte, cols)
	}
	return m
}

func identity(n int) matrix {
	m := newMatrix(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}

// multiply returns a*b.
func (a matrix) multiply(b matrix) matrix {
	rows, inner, cols := len(a), len(b), len(b[0])
	out := newMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum byte
			for k := 0; k < inner; k++ {
				sum ^= bits.Mul(a[i][k], b[k][j])
			}
			out[i][j] = sum
		}
	}
	return out
}

// subMatrix returns the rows indexed by rowIdx (each of the full width).
func (a matrix) subMatrix(rowIdx []int) matrix {
	out := make(matrix, len(rowIdx))
	for i, r := range rowIdx {
		out[i] = a[r]
	}
	return out
}

// invert returns a's inverse via Gauss-Jordan elimination over GF(2^8),
// augmenting a with the identity. a must be square and non-singular.
func (a matrix) invert() (matrix, error) {
	n := len(a)
	aug := newMatrix(n, 2*n)
	for i := 0; i < n; i++ {
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if aug[row][col] != 0 {
				pivot = row
				break
			}
		}
		if pivot == -1 {
			return nil, fmt.Errorf("rs: matrix is singular, cannot invert")
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv := bits.Inverse(aug[col][col])
		for j := 0; j < 2*n; j++ {
			aug[col][j] = bits.Mul(aug[col][j], inv)
		}

		for row := 0; row < n; row++ {
			if row == col || aug[row][col] == 0 {
				continue
			}
			factor := aug[row][col]
			for j := 0; j < 2*n; j++ {
				aug[row][j] ^= bits.Mul(factor, aug[col][j])
			}
		}
	}

	out := newMatrix(n, n)
	for i := 0; i < n; i++ {
		copy(out[i], aug[i][n:])
	}
	return out, nil
}
