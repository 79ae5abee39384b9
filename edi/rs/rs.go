/*
NAME
  rs.go - Reed-Solomon(255,k) erasure encoder/decoder.

DESCRIPTION
  Builds a systematic Vandermonde-derived encoding matrix over GF(2^8)
  (bits.GF256), normalised so its first k rows form the identity matrix
  - the k data shards pass through the code unmodified, and the
  remaining r = n-k rows are parity shards - following the standard
  Reed-Solomon erasure-coding construction used by systematic RS
  implementations generally. PFT fragment groups (edi/pft.go) are
  protected this way: any k of the n fragments recover the whole group.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rs

import (
	"fmt"

	"github.com/ausocean/dabmux/bits"
)

// MaxTotalShards is the largest total (data+parity) shard count the
// field supports: GF(2^8) has 255 non-zero elements.
const MaxTotalShards = 255

// Codec encodes and reconstructs a (n, k) Reed-Solomon erasure code:
// k data shards plus n-k parity shards.
type Codec struct {
	n, k      int
	encMatrix matrix
}

// New builds a Codec for k data shards and r parity shards.
func New(k, r int) (*Codec, error) {
	n := k + r
	if k <= 0 || r < 0 {
		return nil, fmt.Errorf("rs: k must be positive and r non-negative, got k=%d r=%d", k, r)
	}
	if n > MaxTotalShards {
		return nil, fmt.Errorf("rs: n=%d exceeds GF(2^8) capacity of %d", n, MaxTotalShards)
	}

	vm := vandermonde(n, k)
	top := vm[:k]
	topInv, err := matrix(top).invert()
	if err != nil {
		return nil, fmt.Errorf("rs: degenerate Vandermonde submatrix for k=%d: %w", k, err)
	}
	enc := matrix(vm).multiply(topInv)

	return &Codec{n: n, k: k, encMatrix: enc}, nil
}

// vandermonde builds an n x k Vandermonde matrix over distinct
// non-zero GF(2^8) elements 1..n.
func vandermonde(n, k int) matrix {
	m := newMatrix(n, k)
	for i := 0; i < n; i++ {
		x := byte(i + 1) // 1..n, all non-zero and distinct for n<=255.
		for j := 0; j < k; j++ {
			m[i][j] = bits.Pow(x, j)
		}
	}
	return m
}

// N returns the total shard count (data + parity).
func (c *Codec) N() int { return c.n }

// K returns the data shard count.
func (c *Codec) K() int { return c.k }

// Encode takes k data shards of equal length and returns the n-k
// parity shards.
func (c *Codec) Encode(data [][]byte) ([][]byte, error) {
	if len(data) != c.k {
		return nil, fmt.Errorf("rs: Encode got %d data shards, want %d", len(data), c.k)
	}
	shardLen := len(data[0])
	for _, d := range data {
		if len(d) != shardLen {
			return nil, fmt.Errorf("rs: all data shards must share one length")
		}
	}

	parity := make([][]byte, c.n-c.k)
	for p := 0; p < c.n-c.k; p++ {
		row := c.encMatrix[c.k+p]
		out := make([]byte, shardLen)
		for j := 0; j < c.k; j++ {
			coef := row[j]
			if coef == 0 {
				continue
			}
			for b := 0; b < shardLen; b++ {
				out[b] ^= bits.Mul(coef, data[j][b])
			}
		}
		parity[p] = out
	}
	return parity, nil
}

// Reconstruct recovers the k data shards from shards, a slice of
// length n where present[i] indicates shards[i] holds valid data
// (either an original data shard or a parity shard) and is ignored
// otherwise. It fails if fewer than k shards are present.
func (c *Codec) Reconstruct(shards [][]byte, present []bool) ([][]byte, error) {
	if len(shards) != c.n || len(present) != c.n {
		return nil, fmt.Errorf("rs: Reconstruct needs exactly n=%d shard slots", c.n)
	}

	var haveIdx []int
	for i := 0; i < c.n && len(haveIdx) < c.k; i++ {
		if present[i] {
			haveIdx = append(haveIdx, i)
		}
	}
	if len(haveIdx) < c.k {
		return nil, fmt.Errorf("rs: only %d of %d required shards present", len(haveIdx), c.k)
	}

	sub := c.encMatrix.subMatrix(haveIdx)
	inv, err := sub.invert()
	if err != nil {
		return nil, fmt.Errorf("rs: chosen shard combination is not invertible: %w", err)
	}

	shardLen := len(shards[haveIdx[0]])
	data := make([][]byte, c.k)
	for r := 0; r < c.k; r++ {
		out := make([]byte, shardLen)
		row := inv[r]
		for j, idx := range haveIdx {
			coef := row[j]
			if coef == 0 {
				continue
			}
			src := shards[idx]
			for b := 0; b < shardLen; b++ {
				out[b] ^= bits.Mul(coef, src[b])
			}
		}
		data[r] = out
	}
	return data, nil
}
