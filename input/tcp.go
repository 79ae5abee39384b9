/*
NAME
  tcp.go - reconnecting TCP subchannel reader.

DESCRIPTION
  TCPReader dials a remote contribution source and reconnects with
  bounded exponential backoff on dial or read failure, adapted from the
  teacher's rtmpSender.restart() reconnect loop (revid/senders.go),
  generalised from a write-side sender to a read-side source and from a
  fixed-retry-count dial loop to a golang.org/x/time/rate-governed
  backoff so a persistently unreachable source cannot busy-loop the
  dialer.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package input

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"golang.org/x/time/rate"
)

// Backoff bounds for TCPReader reconnect attempts.
const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// TCPReader maintains a TCP connection to addr, reconnecting on
// failure with exponential backoff between minBackoff and maxBackoff.
type TCPReader struct {
	addr string
	log  logging.Logger

	mu        sync.Mutex
	conn      net.Conn
	backoff   time.Duration
	limiter   *rate.Limiter
	isRunning bool
}

// NewTCPReader returns a TCPReader for addr ("host:port").
func NewTCPReader(log logging.Logger, addr string) *TCPReader {
	return &TCPReader{
		addr:    addr,
		log:     log,
		backoff: minBackoff,
		limiter: rate.NewLimiter(rate.Every(minBackoff), 1),
	}
}

// Start dials the remote address once; subsequent failures are
// recovered transparently by Read via reconnect.
func (r *TCPReader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isRunning = true
	return r.dialLocked()
}

// dialLocked dials addr; the caller must hold r.mu.
func (r *TCPReader) dialLocked() error {
	conn, err := net.DialTimeout("tcp", r.addr, 5*time.Second)
	if err != nil {
		r.log.Warning("input: tcp dial failed", "addr", r.addr, "error", err)
		return err
	}
	r.conn = conn
	r.backoff = minBackoff
	return nil
}

// reconnectLocked waits for the rate limiter's next token at the
// current backoff interval, then redials. On failure it widens the
// limiter's interval (capped at maxBackoff) so repeated failures back
// off exponentially rather than hammering an unreachable source. The
// caller must hold r.mu.
func (r *TCPReader) reconnectLocked() error {
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	if err := r.limiter.Wait(context.Background()); err != nil {
		return err
	}
	err := r.dialLocked()
	if err != nil {
		r.backoff *= 2
		if r.backoff > maxBackoff {
			r.backoff = maxBackoff
		}
		r.limiter.SetLimit(rate.Every(r.backoff))
		return err
	}
	r.backoff = minBackoff
	r.limiter.SetLimit(rate.Every(minBackoff))
	return nil
}

// Read implements io.Reader. On a read error it redials within the same
// call (after waiting on the backoff limiter) and returns the read error
// of the failed attempt, not the reconnect outcome. A Read that finds no
// connection on a started reader redials first.
func (r *TCPReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	if r.conn == nil && r.isRunning {
		if err := r.reconnectLocked(); err != nil {
			r.mu.Unlock()
			return 0, err
		}
	}
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return 0, fmt.Errorf("input: tcp reader not started")
	}

	n, err := conn.Read(p)
	if err != nil {
		r.mu.Lock()
		if rerr := r.reconnectLocked(); rerr != nil {
			r.log.Warning("input: tcp reconnect failed", "addr", r.addr, "error", rerr)
		}
		r.mu.Unlock()
		return n, err
	}
	return n, nil
}

// Close closes the connection.
func (r *TCPReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isRunning = false
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// IsRunning reports whether the reader has been started.
func (r *TCPReader) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}
