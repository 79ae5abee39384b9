/*
NAME
  validate.go - ensemble validation (spec.md §3 invariants, §4.2).

DESCRIPTION
  Validates the static configuration described in spec.md §3 before the
  allocator runs: unique ids, label encodability/length, every service
  referenced by at least one component, unique (sid, SCIdS) pairs, and
  the UEP/EEP legality matrix from §9's Open Question (enforced inside
  Allocate via the protection table). Mirrors the teacher's
  Config.Validate() entrypoint in revid/config/config.go, generalised
  from a single flat struct to a multi-table ensemble graph.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ensemble

import (
	"github.com/ausocean/dabmux/bits"
)

// Validated is an ensemble that has passed Validate and had its
// subchannels seated by Allocate. It is treated as immutable for the
// life of a scheduler run, per spec.md §3's lifecycle rule.
type Validated struct {
	Ensemble
	Allocation *AllocationResult
}

// Validate checks e against the invariants of spec.md §3 and runs the
// capacity allocator, returning a Validated snapshot or the first
// InvalidConfiguration-class error encountered.
func Validate(e Ensemble) (*Validated, error) {
	if _, ok := e.Mode.Params(); !ok {
		return nil, newConfigError("ensemble.mode", CauseUnknownMode)
	}

	if err := validateLabel("ensemble.label", e.Label); err != nil {
		return nil, err
	}

	svcBySID := make(map[uint32]bool, len(e.Services))
	svcByUID := make(map[uint32]Service, len(e.Services))
	for _, s := range e.Services {
		if svcBySID[s.SId] {
			return nil, newConfigError("service.sid", CauseDuplicateService)
		}
		svcBySID[s.SId] = true
		svcByUID[s.UID] = s
		if err := validateLabel("service.label", s.Label); err != nil {
			return nil, err
		}
	}

	refCount := make(map[uint32]int, len(e.Services))
	scids := make(map[[2]uint32]bool, len(e.Components))
	for _, c := range e.Components {
		if _, ok := svcByUID[c.ServiceUID]; !ok {
			return nil, newConfigError("component.service_uid", "component references unknown service")
		}
		key := [2]uint32{c.ServiceUID, uint32(c.SCIdS)}
		if scids[key] {
			return nil, newConfigError("component.scids", "duplicate (sid, SCIdS) pair")
		}
		scids[key] = true
		refCount[c.ServiceUID]++
		if err := validateLabel("component.label", c.Label); err != nil {
			return nil, err
		}
	}
	for _, s := range e.Services {
		if refCount[s.UID] == 0 {
			return nil, newConfigError("service", CauseOrphanService)
		}
	}

	alloc, err := Allocate(e.Mode, e.Subchannels)
	if err != nil {
		return nil, err
	}

	out := e
	out.Subchannels = alloc.Subchannels
	return &Validated{Ensemble: out, Allocation: alloc}, nil
}

// validateLabel is a no-op for empty labels (the empty label is a valid
// boundary case per spec.md §8) and otherwise delegates to EBU Latin
// encodability/length checks, surfacing InvalidConfiguration causes.
func validateLabel(field, label string) error {
	if label == "" {
		return nil
	}
	_, err := bits.EncodeLabel(label)
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *bits.ErrLabelTooLong:
		return newConfigError(field, CauseLabelTooLong)
	case *bits.ErrUnsupportedCharacter:
		return newConfigError(field, CauseUnsupportedChar)
	default:
		return newConfigError(field, err.Error())
	}
}
