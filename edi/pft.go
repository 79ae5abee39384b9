/*
NAME
  pft.go - PFT fragmentation and Reed-Solomon protection.

DESCRIPTION
  PFT (Protection, Fragmentation and Transport) splits one AF packet
  into a group of fixed-size fragments, computes Reed-Solomon(255,k)
  parity fragments over the group using edi/rs, and prefixes each
  fragment with a small header identifying its group, index and the
  group's total fragment/parity counts, per spec.md §4.6. A receiver
  that collects any k of the n fragments recovers the complete AF
  packet even after losing up to n-k fragments - the point of sending
  EDI over lossy transports (UDP) rather than the lossless-but-blocking
  TCP framing ETI normally assumes.

  Fragment header layout deliberately mirrors the AF header's style
  (fixed fields, no variable-length prefix) for the same reason the
  teacher keeps mts.Packet's header fixed-width: fixed offsets make a
  receiver's parser trivial.

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

	"github.com/ausocean/dabmux/edi/rs"
)

// FragmentHeaderLen is the fixed octet width of a PFT fragment header.
const FragmentHeaderLen = 2 + 4 + 2 + 2 + 2 // Psync + group(4) + index(2) + k(2) + n(2).

// PSync is the 2-octet synchronization marker opening every PFT
// fragment.
var PSync = [2]byte{'P', 'F'}

// Fragment is one PFT fragment: header fields plus its data (either a
// slice of the original AF packet, for a data fragment, or a
// Reed-Solomon parity shard).
type Fragment struct {
	Group uint32 // Identifies which AF packet this fragment belongs to.
	Index uint16 // 0-based position within the group, data shards first.
	K     uint16 // Number of data shards in the group.
	N     uint16 // Total shards (data + parity) in the group.
	Data  []byte
}

// Bytes encodes the fragment, header followed by data.
func (f Fragment) Bytes() []byte {
	out := make([]byte, 0, FragmentHeaderLen+len(f.Data))
	out = append(out, PSync[:]...)
	var groupBuf [4]byte
	binary.BigEndian.PutUint32(groupBuf[:], f.Group)
	out = append(out, groupBuf[:]...)
	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], f.Index)
	out = append(out, u16[:]...)
	binary.BigEndian.PutUint16(u16[:], f.K)
	out = append(out, u16[:]...)
	binary.BigEndian.PutUint16(u16[:], f.N)
	out = append(out, u16[:]...)
	out = append(out, f.Data...)
	return out
}

// ParseFragment decodes a fragment previously produced by Bytes.
func ParseFragment(b []byte) (Fragment, error) {
	if len(b) < FragmentHeaderLen {
		return Fragment{}, fmt.Errorf("edi: PFT fragment shorter than header")
	}
	if b[0] != PSync[0] || b[1] != PSync[1] {
		return Fragment{}, fmt.Errorf("edi: bad PFT sync")
	}
	return Fragment{
		Group: binary.BigEndian.Uint32(b[2:6]),
		Index: binary.BigEndian.Uint16(b[6:8]),
		K:     binary.BigEndian.Uint16(b[8:10]),
		N:     binary.BigEndian.Uint16(b[10:12]),
		Data:  b[FragmentHeaderLen:],
	}, nil
}

// Fragmenter splits AF packets into protected PFT fragment groups of a
// fixed data-shard count and parity-shard count.
type Fragmenter struct {
	k, r  int
	group uint32
}

// NewFragmenter returns a Fragmenter producing k data shards and r
// parity shards per group.
func NewFragmenter(k, r int) *Fragmenter {
	return &Fragmenter{k: k, r: r}
}

// Fragment splits af into k data shards (zero-padded so every shard
// shares one length) and appends r Reed-Solomon parity shards,
// returning the whole group as wire-ready Fragments. The group counter
// advances so the receiver can tell fragments of different packets
// apart even if reordered.
func (fr *Fragmenter) Fragment(af []byte) ([]Fragment, error) {
	shardLen := (len(af) + fr.k - 1) / fr.k
	if shardLen == 0 {
		shardLen = 1
	}
	data := make([][]byte, fr.k)
	for i := range data {
		shard := make([]byte, shardLen)
		start := i * shardLen
		if start < len(af) {
			end := start + shardLen
			if end > len(af) {
				end = len(af)
			}
			copy(shard, af[start:end])
		}
		data[i] = shard
	}

	codec, err := rs.New(fr.k, fr.r)
	if err != nil {
		return nil, fmt.Errorf("edi: could not build RS(%d,%d) codec: %w", fr.k+fr.r, fr.k, err)
	}
	parity, err := codec.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("edi: RS encode failed: %w", err)
	}

	n := uint16(fr.k + fr.r)
	k := uint16(fr.k)
	group := fr.group
	fr.group++

	frags := make([]Fragment, 0, n)
	for i, d := range data {
		frags = append(frags, Fragment{Group: group, Index: uint16(i), K: k, N: n, Data: d})
	}
	for i, p := range parity {
		frags = append(frags, Fragment{Group: group, Index: uint16(fr.k + i), K: k, N: n, Data: p})
	}
	return frags, nil
}

// Reassemble recovers the original AF packet octets from any k of a
// group's n fragments. originalLen trims the zero-padding Fragment
// added to make shards equal-length.
func Reassemble(frags []Fragment, originalLen int) ([]byte, error) {
	if len(frags) == 0 {
		return nil, fmt.Errorf("edi: no fragments to reassemble")
	}
	k := int(frags[0].K)
	n := int(frags[0].N)

	shards := make([][]byte, n)
	present := make([]bool, n)
	for _, f := range frags {
		if int(f.K) != k || int(f.N) != n {
			return nil, fmt.Errorf("edi: fragment group parameters disagree")
		}
		shards[f.Index] = f.Data
		present[f.Index] = true
	}

	codec, err := rs.New(k, n-k)
	if err != nil {
		return nil, fmt.Errorf("edi: could not build RS(%d,%d) codec: %w", n, k, err)
	}
	data, err := codec.Reconstruct(shards, present)
	if err != nil {
		return nil, fmt.Errorf("edi: could not reconstruct group: %w", err)
	}

	var out []byte
	for _, d := range data {
		out = append(out, d...)
	}
	if originalLen > len(out) {
		return nil, fmt.Errorf("edi: originalLen %d exceeds reconstructed length %d", originalLen, len(out))
	}
	return out[:originalLen], nil
}
