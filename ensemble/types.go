/*
NAME
  types.go - ensemble data model: ensemble, service, component, subchannel.

DESCRIPTION
  Mirrors the teacher's flat, struct-field configuration style (see
  revid/config/config.go) rather than an object graph with live pointers:
  services, components and subchannels are held in flat tables keyed by
  stable id, cross-referencing each other only by id (per spec.md §9's
  "cyclic references" design note), never by direct pointer, so the
  graph can never contain an ownership cycle.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ensemble provides the in-memory ensemble/service/subchannel
// data model and the capacity-unit allocator.
package ensemble

// TransmissionMode identifies one of the four DAB transmission modes.
type TransmissionMode uint8

const (
	ModeI TransmissionMode = iota + 1
	ModeII
	ModeIII
	ModeIV
)

// modeParams holds the fixed per-mode constants from spec.md §6.
type modeParams struct {
	FramePeriodMS int
	FICBytes      int
	MSTBytes      int // 0 for modes with variable/derived MST (mode IV).
	CUCap         int
	FIBCount      int
}

var modeTable = map[TransmissionMode]modeParams{
	ModeI:   {FramePeriodMS: 96, FICBytes: 96, MSTBytes: 5760, CUCap: 864, FIBCount: 3},
	ModeII:  {FramePeriodMS: 24, FICBytes: 32, MSTBytes: 3000, CUCap: 432, FIBCount: 1},
	ModeIII: {FramePeriodMS: 24, FICBytes: 32, MSTBytes: 3000, CUCap: 864, FIBCount: 1},
	ModeIV:  {FramePeriodMS: 48, FICBytes: 32, MSTBytes: 0, CUCap: 432, FIBCount: 1},
}

// Params returns the fixed constants for m, and false if m is unknown.
func (m TransmissionMode) Params() (modeParams, bool) {
	p, ok := modeTable[m]
	return p, ok
}

// CUCap returns the MSC capacity-unit cap for the mode, per spec.md §4.2.
func (m TransmissionMode) CUCap() int {
	p, _ := m.Params()
	return p.CUCap
}

// SubchannelKind identifies the payload type carried by a subchannel.
type SubchannelKind uint8

const (
	SubchannelDABAudio SubchannelKind = iota // MPEG-1 Layer II.
	SubchannelDABPlusAudio                   // HE-AAC v2 superframes.
	SubchannelPacketData
	SubchannelStreamData
)

// ProtectionForm identifies the FEC scheme applied to a subchannel.
type ProtectionForm uint8

const (
	ProtectionUEPShort ProtectionForm = iota
	ProtectionEEPFormA
	ProtectionEEPFormB
)

// ProtectionDescriptor describes the protection applied to a subchannel.
// For UEP, Level is 1-5. For EEP, Level is 1-4.
type ProtectionDescriptor struct {
	Form  ProtectionForm
	Level int
}

// Ensemble is the top-level, statically configured entity described in
// spec.md §3. It owns the service, component and subchannel tables.
type Ensemble struct {
	EId              uint16
	ECC              uint8
	Mode             TransmissionMode
	Label            string
	ShortLabelMask   uint16
	LocalTimeOffset  int8 // Half-hour units, signed, per EN 300 401.
	TISTEnabled      bool
	TISTOffsetMS     uint32

	Services   []Service
	Components []ServiceComponent
	Subchannels []Subchannel
}

// Service is a logical radio station, identified by a 16- or 32-bit SId.
type Service struct {
	UID            uint32 // Internal stable id, not transmitted.
	SId            uint32
	Label          string
	ShortLabelMask uint16
	ProgrammeType  uint8 // 5 bits, 0-31.
	Language       uint8
	CountryECC     *uint8
	LTO            *int8
}

// IsDataService reports whether Sid implies a 32-bit data service SId.
func (s Service) IsDataService() bool { return s.SId > 0xFFFF }

// TransportType identifies how a service component reaches its subchannel.
type TransportType uint8

const (
	TransportStreamAudio TransportType = iota
	TransportStreamData
	TransportPacketData
	TransportFIDC
)

// UserApplication is a FIG 0/13 user application descriptor entry.
type UserApplication struct {
	Uaptype uint16
	Data    []byte
}

// ServiceComponent links a Service to a Subchannel.
type ServiceComponent struct {
	ServiceUID     uint32
	SubChId        uint8
	SCIdS          uint8 // 4 bits.
	Transport      TransportType
	Label          string
	ShortLabelMask uint16
	Language       uint8
	Primary        bool
	UserApps       []UserApplication
	PacketAddr     uint16 // For packet-mode components.
}

// Subchannel is a capacity-allocated MSC slot carrying one coded stream.
type Subchannel struct {
	SubChId      uint8 // 6 bits.
	Kind         SubchannelKind
	BitrateKbps  int
	Protection   ProtectionDescriptor
	StartCUHint  *int // Optional explicit start_cu constraint from configuration.

	// Populated by the allocator (ensemble.Allocate):
	StartCU int
	SizeCU  int
}
