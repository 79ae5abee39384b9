/*
NAME
  sender.go - EDI transport senders.

DESCRIPTION
  Senders implement io.WriteCloser over UDP (one PFT fragment per
  datagram, the typical EDI/UDP transport) and TCP (a length-prefixed
  stream of AF packets, for EDI/TCP point-to-point links), mirroring the
  teacher's pluggable rtpSender/rtmpSender io.Writer senders
  (revid/senders.go) - a functional-options constructor, an internal
  reconnect-on-failure path for the stream transport, and a report
  callback for byte-accounting, generalised from RTP/RTMP media
  delivery to EDI fragment delivery.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package transport provides UDP and TCP senders for EDI AF packets
// and PFT fragments.
package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/ausocean/utils/logging"
	"golang.org/x/time/rate"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// Option configures a Sender.
type Option func(*options) error

type options struct {
	report func(sent int)
}

// WithReportCallback sets a callback invoked with the number of bytes
// successfully written on each Write call.
func WithReportCallback(report func(sent int)) Option {
	return func(o *options) error {
		if report == nil {
			return fmt.Errorf("transport: report callback is nil")
		}
		o.report = report
		return nil
	}
}

func applyOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return options{}, err
		}
	}
	return o, nil
}

// UDPSender writes each Write call as a single UDP datagram: callers
// pass it exactly one PFT fragment per Write so datagram boundaries
// line up with fragment boundaries.
type UDPSender struct {
	conn   net.Conn
	report func(sent int)
}

// NewUDPSender dials a UDP "connection" to addr (no handshake occurs;
// this merely fixes the destination for subsequent writes).
func NewUDPSender(addr string, opts ...Option) (*UDPSender, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: could not dial udp: %w", err)
	}
	return &UDPSender{conn: conn, report: o.report}, nil
}

// Write implements io.Writer.
func (s *UDPSender) Write(d []byte) (int, error) {
	n, err := s.conn.Write(d)
	if err == nil && s.report != nil {
		s.report(n)
	}
	return n, err
}

// Close implements io.Closer.
func (s *UDPSender) Close() error { return s.conn.Close() }

// TCPSender writes a 4-byte big-endian length prefix followed by the
// AF packet octets on each Write call, reconnecting with exponential
// backoff (governed by a golang.org/x/time/rate limiter, matching
// input.TCPReader's reconnect strategy) when the connection drops.
type TCPSender struct {
	addr    string
	log     logging.Logger
	report  func(sent int)
	conn    net.Conn
	backoff time.Duration
	limiter *rate.Limiter
}

// NewTCPSender dials addr and returns a TCPSender.
func NewTCPSender(addr string, log logging.Logger, opts ...Option) (*TCPSender, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &TCPSender{
		addr:    addr,
		log:     log,
		report:  o.report,
		backoff: minBackoff,
		limiter: rate.NewLimiter(rate.Every(minBackoff), 1),
	}
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("transport: could not dial tcp: %w", err)
	}
	s.conn = conn
	return s, nil
}

// Write implements io.Writer. When either write fails it reconnects and
// returns the write error; the failed data is not resent.
func (s *TCPSender) Write(d []byte) (int, error) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(d)))
	if s.conn == nil {
		if err := s.reconnect(); err != nil {
			return 0, err
		}
	}
	if _, err := s.conn.Write(lenBuf[:]); err != nil {
		s.log.Warning("transport: tcp length-prefix write failed, reconnecting", "error", err)
		if rerr := s.reconnect(); rerr != nil {
			return 0, rerr
		}
		return 0, err
	}
	n, err := s.conn.Write(d)
	if err != nil {
		s.log.Warning("transport: tcp payload write failed, reconnecting", "error", err)
		if rerr := s.reconnect(); rerr != nil {
			return n, rerr
		}
		return n, err
	}
	if s.report != nil {
		s.report(n)
	}
	return n, nil
}

func (s *TCPSender) reconnect() error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if err := s.limiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("transport: backoff wait failed: %w", err)
	}
	conn, err := net.DialTimeout("tcp", s.addr, 5*time.Second)
	if err != nil {
		s.backoff *= 2
		if s.backoff > maxBackoff {
			s.backoff = maxBackoff
		}
		s.limiter.SetLimit(rate.Every(s.backoff))
		return fmt.Errorf("transport: tcp reconnect failed: %w", err)
	}
	s.conn = conn
	s.backoff = minBackoff
	s.limiter.SetLimit(rate.Every(minBackoff))
	return nil
}

// Close implements io.Closer.
func (s *TCPSender) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
