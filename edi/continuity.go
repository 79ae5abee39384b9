/*
NAME
  continuity.go - frame counter continuity diagnostic.

DESCRIPTION
  ContinuityChecker flags a gap when the ETI frame counter (FCT) handed
  to a sink does not advance by exactly one, modulo the counter's
  wraparound, between successive checks. It generalises the teacher's
  continuity-counter-aware MPEG-TS repair
  (container/mts/discontinuity.go's DiscontinuityRepairer) from an
  active repair of a 4-bit CC into a read-only diagnostic over ETI's
  8-bit FCT: unlike MPEG-TS, a DAB multiplexer never repairs a dropped
  frame, it only needs to tell a scheduler-side skipped tick (FCT jumps
  by more than one, expected when the scheduler calls
  eti.Assembler.SkipFrames) apart from a sink-side drop (a fragment or
  frame never reached the sink at all).

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

// ContinuityChecker tracks the last frame counter value seen for one
// sink and reports whether the next one is discontinuous.
type ContinuityChecker struct {
	modulus int
	have    bool
	last    uint8
}

// NewContinuityChecker returns a checker for a counter that wraps at
// modulus (eti.FCTModulus for ETI's FCT).
func NewContinuityChecker(modulus int) *ContinuityChecker {
	return &ContinuityChecker{modulus: modulus}
}

// Check reports whether fct is discontinuous with the value from the
// previous call, then records fct as the new reference point. The
// first call after construction never reports a discontinuity, since
// there is nothing yet to compare against.
func (c *ContinuityChecker) Check(fct uint8) bool {
	if !c.have {
		c.have = true
		c.last = fct
		return false
	}
	want := uint8((int(c.last) + 1) % c.modulus)
	c.last = fct
	return fct != want
}
