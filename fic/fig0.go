/*
NAME
  fig0.go - FIG type 0 extension encoders.

DESCRIPTION
  Implements the FIG 0 extensions enumerated in spec.md §4.4: ensemble
  information (0/0), subchannel organization (0/1), service/component
  definition (0/2), packet-mode components (0/3), component language
  (0/5), service component global definition (0/8), country/LTO (0/9),
  date & time (0/10), user application information (0/13), programme
  type (0/17) and announcement support (0/19).

  Each FIG 0 body leads with a 1-octet flags field - C/N (1 bit), OE (1
  bit), P/D (1 bit) and the 5-bit extension number - mirroring the
  teacher's habit of a small fixed flags octet ahead of a variable body
  (see container/mts/psi tables). The FIG header's 5-bit Field carries
  the body length (fig.go), so this flags octet is the only place the
  extension number appears.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package fic

import (
	"github.com/ausocean/dabmux/bits"
	"github.com/ausocean/dabmux/ensemble"
)

const (
	Ext0EnsembleInfo          uint8 = 0
	Ext0SubchannelOrg         uint8 = 1
	Ext0ServiceComponentOrg   uint8 = 2
	Ext0PacketModeComponent   uint8 = 3
	Ext0ComponentLanguage     uint8 = 5
	Ext0ServiceComponentGlob  uint8 = 8
	Ext0CountryLTO            uint8 = 9
	Ext0DateTime              uint8 = 10
	Ext0UserApplication       uint8 = 13
	Ext0ProgrammeType         uint8 = 17
	Ext0AnnouncementSupport   uint8 = 19
)

func fig0Header(w *bits.Writer, cn, oe, pd bool, ext uint8) {
	put := func(b bool) uint32 {
		if b {
			return 1
		}
		return 0
	}
	w.Write(put(cn), 1)
	w.Write(put(oe), 1)
	w.Write(put(pd), 1)
	w.Write(uint32(ext), 5)
}

func fig0(ext uint8, w *bits.Writer) FIG {
	body := w.Bytes()
	return FIG{Type: FIGType0, Field: uint8(len(body)), Body: body}
}

// EncodeEnsembleInfo builds FIG 0/0: ensemble id, a change/alarm flag
// pair and the current CIF count within the current FIC repetition,
// per spec.md §4.4.
func EncodeEnsembleInfo(eid uint16, alarm bool, cifCount uint16) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0EnsembleInfo)
	w.Write(uint32(eid), 16)
	al := uint32(0)
	if alarm {
		al = 1
	}
	w.Write(0, 2) // change flags: none modelled.
	w.Write(al, 1)
	w.Write(uint32(cifCount>>8), 5)
	w.Write(uint32(cifCount&0xFF), 8)
	return fig0(Ext0EnsembleInfo, w)
}

// EncodeSubchannelOrg builds FIG 0/1 entries for every allocated
// subchannel: start address, size/protection in short form (a table
// index into the UEP table) or long form (explicit EEP level and
// size), per spec.md §4.2/§4.4.
func EncodeSubchannelOrg(subs []ensemble.Subchannel, tableIndex map[uint8]int) (FIG, error) {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0SubchannelOrg)
	for _, sc := range subs {
		w.Write(uint32(sc.SubChId), 6)
		w.Write(uint32(sc.StartCU), 10)
		if sc.Protection.Form == ensemble.ProtectionUEPShort {
			w.Write(1, 1) // short form.
			w.Write(0, 1) // table switch: primary table.
			w.Write(uint32(tableIndex[sc.SubChId]), 6)
			continue
		}
		w.Write(0, 1) // long form.
		option := uint32(0)
		if sc.Protection.Form == ensemble.ProtectionEEPFormB {
			option = 1
		}
		w.Write(option, 3)
		w.Write(uint32(sc.Protection.Level-1), 2)
		w.Write(uint32(sc.SizeCU), 10)
	}
	return fig0(Ext0SubchannelOrg, w), nil
}

// EncodeServiceComponentOrg builds FIG 0/2 for one service: its SId
// and the transport-type-tagged list of its components' subchannel or
// packet addresses, per spec.md §4.4.
func EncodeServiceComponentOrg(svc ensemble.Service, comps []ensemble.ServiceComponent) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, svc.IsDataService(), Ext0ServiceComponentOrg)
	if svc.IsDataService() {
		w.Write(svc.SId, 32)
	} else {
		w.Write(svc.SId, 16)
	}
	w.Write(0, 3) // CAId: none modelled.
	w.Write(uint32(len(comps)), 4)
	for _, c := range comps {
		tmid := tmIDFor(c.Transport)
		w.Write(uint32(tmid), 2)
		switch c.Transport {
		case ensemble.TransportStreamAudio, ensemble.TransportStreamData:
			w.Write(0, 6) // ASCTy/DSCTy: not modelled beyond transport kind.
			w.Write(uint32(c.SubChId), 6)
		case ensemble.TransportPacketData:
			w.Write(0, 6)
			w.Write(uint32(c.PacketAddr), 10)
		default:
			w.Write(0, 6)
			w.Write(uint32(c.SubChId), 6)
		}
		ps := uint32(0)
		if c.Primary {
			ps = 1
		}
		w.Write(ps, 1)
		w.Write(0, 1) // CA flag.
	}
	return fig0(Ext0ServiceComponentOrg, w)
}

func tmIDFor(t ensemble.TransportType) uint8 {
	switch t {
	case ensemble.TransportStreamAudio:
		return 0
	case ensemble.TransportStreamData:
		return 1
	case ensemble.TransportFIDC:
		return 2
	case ensemble.TransportPacketData:
		return 3
	default:
		return 0
	}
}

// EncodePacketModeComponent builds FIG 0/3: the packet address and
// datagroup flag for a single packet-mode service component.
func EncodePacketModeComponent(c ensemble.ServiceComponent, datagroup bool) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, true, Ext0PacketModeComponent)
	scid := uint32(c.ServiceUID)<<4 | uint32(c.SCIdS)
	w.Write(scid&0xFFF, 12)
	w.Write(0, 3)
	dg := uint32(0)
	if datagroup {
		dg = 1
	}
	w.Write(dg, 1)
	w.Write(uint32(c.SubChId), 6)
	w.Write(uint32(c.PacketAddr), 10)
	w.Write(0, 1) // CAOrg flag.
	w.Write(0, 7)
	return fig0(Ext0PacketModeComponent, w)
}

// EncodeComponentLanguage builds FIG 0/5: one subchannel-to-language
// mapping per entry.
func EncodeComponentLanguage(subChId uint8, language uint8) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0ComponentLanguage)
	w.Write(1, 1) // long form: SubChId addressed.
	w.Write(0, 1)
	w.Write(uint32(subChId), 6)
	w.Write(uint32(language), 8)
	return fig0(Ext0ComponentLanguage, w)
}

// EncodeServiceComponentGlobal builds FIG 0/8: the SCIdS-to-SubChId
// binding for one service component.
func EncodeServiceComponentGlobal(sid uint32, isDataSvc bool, scids uint8, subChId uint8) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, isDataSvc, Ext0ServiceComponentGlob)
	if isDataSvc {
		w.Write(sid, 32)
	} else {
		w.Write(sid, 16)
	}
	w.Write(0, 4)
	w.Write(uint32(scids), 4)
	w.Write(1, 1) // long form: SubChId.
	w.Write(0, 1)
	w.Write(uint32(subChId), 6)
	return fig0(Ext0ServiceComponentGlob, w)
}

// EncodeCountryLTO builds FIG 0/9: ensemble-wide ECC and local time
// offset in units of half hours, per spec.md §3's Ensemble fields.
func EncodeCountryLTO(ecc uint8, ltoHalfHours int8, ensembleECC uint8) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0CountryLTO)
	w.Write(0, 4) // ensemble LTO sign/value split for simplicity below.
	sign := uint32(0)
	v := ltoHalfHours
	if v < 0 {
		sign = 1
		v = -v
	}
	w.Write(sign, 1)
	w.Write(uint32(v)&0x1F, 5)
	w.Write(uint32(ensembleECC), 8)
	w.Write(uint32(ecc), 8)
	return fig0(Ext0CountryLTO, w)
}

// EncodeDateTime builds FIG 0/10: Modified Julian Day plus UTC
// hour/minute, with an optional seconds/milliseconds long form.
func EncodeDateTime(mjd uint32, hour, minute, second uint8, longForm bool) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0DateTime)
	w.Write(mjd&0x1FFFF, 17)
	lf := uint32(0)
	if longForm {
		lf = 1
	}
	w.Write(lf, 1)
	w.Write(uint32(hour), 5)
	w.Write(uint32(minute), 6)
	if longForm {
		w.Write(uint32(second), 6)
		w.Write(0, 10) // milliseconds: not modelled beyond whole seconds.
	}
	return fig0(Ext0DateTime, w)
}

// EncodeUserApplication builds FIG 0/13: the user applications signalled
// for one service component, per spec.md §4.4.
func EncodeUserApplication(sid uint32, isDataSvc bool, scids uint8, apps []ensemble.UserApplication) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, isDataSvc, Ext0UserApplication)
	if isDataSvc {
		w.Write(sid, 32)
	} else {
		w.Write(sid, 16)
	}
	w.Write(uint32(scids), 4)
	w.Write(uint32(len(apps)), 4)
	for _, a := range apps {
		w.Write(uint32(a.Uaptype), 11)
		w.Write(uint32(len(a.Data)), 5)
		w.WriteBytes(a.Data)
	}
	return fig0(Ext0UserApplication, w)
}

// EncodeProgrammeType builds FIG 0/17: a service's programme type code
// under the international table.
func EncodeProgrammeType(sid uint32, programmeType uint8, language uint8, dynamic bool) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0ProgrammeType)
	w.Write(sid, 16)
	w.Write(0, 2)
	w.Write(1, 1) // international table flag.
	dyn := uint32(0)
	if dynamic {
		dyn = 1
	}
	w.Write(dyn, 1)
	w.Write(uint32(programmeType)&0x1F, 5)
	w.Write(uint32(language), 8)
	return fig0(Ext0ProgrammeType, w)
}

// EncodeAnnouncementSupport builds FIG 0/19: the cluster id and
// announcement-type bitmap a service participates in.
func EncodeAnnouncementSupport(clusterID uint8, sid uint32, asuFlags uint16) FIG {
	w := bits.NewWriter()
	fig0Header(w, false, false, false, Ext0AnnouncementSupport)
	w.Write(sid, 16)
	w.Write(uint32(asuFlags), 16)
	w.Write(uint32(clusterID), 8)
	return fig0(Ext0AnnouncementSupport, w)
}
