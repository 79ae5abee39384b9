/*
NAME
  observer.go - scheduler diagnostics observer interface.

DESCRIPTION
  Observer is the narrow seam through which the scheduler reports the
  fault/backpressure events named in spec.md §7 (Underrun, ReaderFault,
  SinkFault) plus basic timing, without depending on any particular
  metrics backend - mirroring how the teacher keeps bitrate.Calculator
  and cfg.Logger as separate, independently substitutable observation
  points rather than baking one telemetry implementation into Revid
  itself (revid/revid.go's bitrate field, config.Config's Logger
  field).

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package scheduler

import "time"

// Observer receives diagnostic events from a running Scheduler. A nil
// Observer is never passed to callbacks; Scheduler substitutes a no-op
// implementation when none is configured.
type Observer interface {
	// Underrun reports that subChId's reader delivered less than a full
	// slot by the tick deadline, or is faulty; the rest of the slot was
	// zero-filled.
	Underrun(subChId uint8)

	// ReaderFault reports an unrecoverable reader I/O error; the reader
	// is henceforth treated as closed.
	ReaderFault(subChId uint8, err error)

	// SinkFault reports a transmit error on a named sink.
	SinkFault(name string, err error)

	// FramesSkipped reports that n frames were skipped to catch up
	// after lateness exceeded one period.
	FramesSkipped(n int)

	// SinkDiscontinuity reports that the frame counter handed to the
	// named sink did not advance by exactly one since the previous
	// frame, despite no scheduler-side skip having occurred - evidence
	// of a sink-side drop rather than a scheduler catch-up.
	SinkDiscontinuity(name string)

	// TickDuration reports how long one tick's assembly took.
	TickDuration(d time.Duration)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) Underrun(subChId uint8)               {}
func (NopObserver) ReaderFault(subChId uint8, err error) {}
func (NopObserver) SinkFault(name string, err error)     {}
func (NopObserver) FramesSkipped(n int)                  {}
func (NopObserver) SinkDiscontinuity(name string)        {}
func (NopObserver) TickDuration(d time.Duration)         {}
