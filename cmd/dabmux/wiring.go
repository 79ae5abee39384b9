/*
NAME
  wiring.go - builds readers, sinks and the scheduler from config.

DESCRIPTION
  buildReaders/buildSinks translate config.ReaderSpec/SinkSpec into live
  input.Reader/scheduler.EDISink values and start them, mirroring the
  teacher's revid.Start building up its input device and sender chain
  from Config before handing them to the pipeline
  (revid/revid.go, revid/pipeline.go).

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"
	"os"

	"github.com/ausocean/dabmux/config"
	"github.com/ausocean/dabmux/edi/transport"
	"github.com/ausocean/dabmux/input"
	"github.com/ausocean/dabmux/scheduler"
	"github.com/ausocean/utils/logging"
)

// etiFileSink adapts an *os.File to the Write([]byte) (int, error) shape
// scheduler.Config.ETISinks expects.
type etiFileSink struct{ f *os.File }

func (s etiFileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

func buildReaders(cfg *config.Config, log logging.Logger) ([]scheduler.ReaderSpec, []func() error, error) {
	var specs []scheduler.ReaderSpec
	var closers []func() error

	for _, rs := range cfg.Readers {
		var r input.Reader
		switch rs.Kind {
		case config.ReaderFile:
			r = input.NewFileReader(log, rs.Path, rs.Loop)
		case config.ReaderUDP:
			r = input.NewUDPReader(rs.Addr, rs.MulticastAddr, nil)
		case config.ReaderTCP:
			r = input.NewTCPReader(log, rs.Addr)
		default:
			return nil, nil, fmt.Errorf("dabmux: reader for subchannel %d has unsupported kind", rs.SubChId)
		}
		if err := r.Start(); err != nil {
			return nil, nil, fmt.Errorf("dabmux: could not start reader for subchannel %d: %w", rs.SubChId, err)
		}
		specs = append(specs, scheduler.ReaderSpec{SubChId: rs.SubChId, Reader: r})
		closers = append(closers, r.Close)
	}
	return specs, closers, nil
}

func buildSinks(cfg *config.Config, log logging.Logger) ([]interface{ Write([]byte) (int, error) }, []scheduler.EDISink, []func() error, error) {
	var etiSinks []interface{ Write([]byte) (int, error) }
	var ediSinks []scheduler.EDISink
	var closers []func() error

	for _, ss := range cfg.Sinks {
		switch ss.Kind {
		case config.SinkETIFile:
			f, err := os.Create(ss.Path)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("dabmux: could not create ETI file sink %q: %w", ss.Name, err)
			}
			etiSinks = append(etiSinks, etiFileSink{f})
			closers = append(closers, f.Close)
		case config.SinkEDIUDP:
			sender, err := transport.NewUDPSender(ss.Addr)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("dabmux: could not dial EDI/UDP sink %q: %w", ss.Name, err)
			}
			ediSinks = append(ediSinks, scheduler.NewPFTUDPSink(ss.Name, sender, ss.RSDataShards, ss.RSParityShards))
			closers = append(closers, sender.Close)
		case config.SinkEDITCP:
			sender, err := transport.NewTCPSender(ss.Addr, log)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("dabmux: could not dial EDI/TCP sink %q: %w", ss.Name, err)
			}
			ediSinks = append(ediSinks, scheduler.NewRawTCPSink(ss.Name, sender))
			closers = append(closers, sender.Close)
		default:
			return nil, nil, nil, fmt.Errorf("dabmux: sink %q has unsupported kind", ss.Name)
		}
	}
	return etiSinks, ediSinks, closers, nil
}

// buildScheduler validates cfg, starts every reader and sink, and
// returns a ready-to-Start Scheduler plus a teardown func that closes
// everything it opened, in reverse order, the same discipline as
// Scheduler.Stop applies to its own readers.
func buildScheduler(cfg *config.Config, obs scheduler.Observer, log logging.Logger) (*scheduler.Scheduler, func(), error) {
	validated, err := cfg.Validate()
	if err != nil {
		return nil, nil, fmt.Errorf("dabmux: invalid configuration: %w", err)
	}

	readers, readerClosers, err := buildReaders(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	etiSinks, ediSinks, sinkClosers, err := buildSinks(cfg, log)
	if err != nil {
		for _, c := range readerClosers {
			c()
		}
		return nil, nil, err
	}

	sched, err := scheduler.New(scheduler.Config{
		Validated: validated,
		Readers:   readers,
		ETISinks:  etiSinks,
		EDISinks:  ediSinks,
		Observer:  obs,
		Log:       log,
	})
	if err != nil {
		for _, c := range sinkClosers {
			c()
		}
		for _, c := range readerClosers {
			c()
		}
		return nil, nil, err
	}

	teardown := func() {
		for i := len(sinkClosers) - 1; i >= 0; i-- {
			sinkClosers[i]()
		}
		for i := len(readerClosers) - 1; i >= 0; i-- {
			readerClosers[i]()
		}
	}
	return sched, teardown, nil
}
