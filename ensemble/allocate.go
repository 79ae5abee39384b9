/*
NAME
  allocate.go - capacity unit allocator (spec.md §4.2).

DESCRIPTION
  Converts a validated ensemble's declared subchannels into a final
  seating on the MSC capacity-unit grid: CU sizing via the closed
  protection table, stable ordering by SubChId, contiguous start_cu
  assignment honouring any explicit constraint, and a CU-range -> SubChId
  inverse map for FIG 0/1 emission. Structured as a pure function over
  []Subchannel, in the spirit of the teacher's allocator-less but
  validate-then-derive style in revid/config (Validate/Update acting on
  a flat struct) generalised to a multi-entity capacity budget.

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

import "sort"

// AllocationResult is the outcome of Allocate: the seated subchannels in
// SubChId order (with StartCU/SizeCU populated), the UEP table index
// used by FIG 0/1 short-form entries (0 for EEP subchannels), and the
// inverse CU-range -> SubChId map.
type AllocationResult struct {
	Subchannels []Subchannel
	TableIndex  map[uint8]int // SubChId -> short-form table index (UEP only).
	CURange     map[uint8][2]int // SubChId -> [startCU, startCU+sizeCU).
}

// Allocate performs the five-step allocation algorithm of spec.md §4.2
// and returns InvalidConfiguration-class errors (ConfigError,
// ErrProtectionMismatch, ErrUnknownProtection) without mutating
// subchannels.
func Allocate(mode TransmissionMode, subchannels []Subchannel) (*AllocationResult, error) {
	mp, ok := mode.Params()
	if !ok {
		return nil, newConfigError("ensemble.mode", CauseUnknownMode)
	}

	seen := make(map[uint8]bool, len(subchannels))
	for _, sc := range subchannels {
		if seen[sc.SubChId] {
			return nil, newConfigError("subchannel.subchid", CauseDuplicateSubchannel)
		}
		seen[sc.SubChId] = true
	}

	// Step 1: size_cu by table lookup.
	sized := make([]Subchannel, len(subchannels))
	copy(sized, subchannels)
	tableIdx := make(map[uint8]int, len(sized))
	for i := range sized {
		cu, idx, err := sizeCU(sized[i])
		if err != nil {
			return nil, err
		}
		sized[i].SizeCU = cu
		if sized[i].Protection.Form == ProtectionUEPShort {
			tableIdx[sized[i].SubChId] = idx
		}
	}

	// Step 2: stable-sort by SubChId.
	sort.SliceStable(sized, func(i, j int) bool { return sized[i].SubChId < sized[j].SubChId })

	// Step 3: assign start_cu, respecting explicit constraints.
	end := 0
	for i := range sized {
		if sized[i].StartCUHint != nil {
			hint := *sized[i].StartCUHint
			if hint < end {
				return nil, newConfigError("subchannel.start_cu", CauseConflictingStartCU)
			}
			sized[i].StartCU = hint
		} else {
			sized[i].StartCU = end
		}
		end = sized[i].StartCU + sized[i].SizeCU
	}

	// Detect overlap explicitly (possible when explicit hints are used
	// out of SubChId order).
	sort.SliceStable(sized, func(i, j int) bool { return sized[i].StartCU < sized[j].StartCU })
	for i := 1; i < len(sized); i++ {
		if sized[i].StartCU < sized[i-1].StartCU+sized[i-1].SizeCU {
			return nil, newConfigError("subchannel.start_cu", CauseOverlappingCU)
		}
	}
	sort.SliceStable(sized, func(i, j int) bool { return sized[i].SubChId < sized[j].SubChId })

	// Step 4: verify total capacity.
	total := 0
	for _, sc := range sized {
		total += sc.SizeCU
	}
	if total > mp.CUCap {
		return nil, newConfigError("ensemble.subchannels", CauseCapacityExceeded)
	}

	// Step 5: inverse CU-range -> SubChId map.
	ranges := make(map[uint8][2]int, len(sized))
	for _, sc := range sized {
		ranges[sc.SubChId] = [2]int{sc.StartCU, sc.StartCU + sc.SizeCU}
	}

	return &AllocationResult{Subchannels: sized, TableIndex: tableIdx, CURange: ranges}, nil
}
