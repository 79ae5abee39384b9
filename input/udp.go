/*
NAME
  udp.go - UDP (optionally multicast) subchannel reader.

DESCRIPTION
  UDPReader receives subchannel octets as UDP datagrams, mirroring the
  teacher's protocol/rtp.Client (net.ListenUDP + io.Reader), generalised
  to support joining a multicast group via golang.org/x/net/ipv4 - DAB
  contribution feeds are commonly distributed over multicast on a
  studio LAN, which the teacher's unicast-only RTP client does not
  need to handle.

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
	"fmt"
	"net"
	"sync"

	"golang.org/x/net/ipv4"
)

// UDPReader receives datagrams on a local UDP address, optionally
// joining a multicast group.
type UDPReader struct {
	addr          string
	multicastAddr string
	iface         *net.Interface

	mu        sync.Mutex
	conn      *net.UDPConn
	pconn     *ipv4.PacketConn
	isRunning bool
}

// NewUDPReader returns a UDPReader bound to addr ("ip:port"). If
// multicastAddr is non-empty, Start joins that multicast group on
// iface (nil selects the system default interface).
func NewUDPReader(addr, multicastAddr string, iface *net.Interface) *UDPReader {
	return &UDPReader{addr: addr, multicastAddr: multicastAddr, iface: iface}
}

// Start binds the UDP socket and, if configured, joins the multicast
// group.
func (r *UDPReader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, err := net.ResolveUDPAddr("udp", r.addr)
	if err != nil {
		return fmt.Errorf("input: could not resolve udp address: %w", err)
	}
	conn, err := net.ListenUDP("udp", a)
	if err != nil {
		return fmt.Errorf("input: could not listen udp: %w", err)
	}
	r.conn = conn

	if r.multicastAddr != "" {
		group, err := net.ResolveUDPAddr("udp", r.multicastAddr)
		if err != nil {
			conn.Close()
			return fmt.Errorf("input: could not resolve multicast address: %w", err)
		}
		pconn := ipv4.NewPacketConn(conn)
		if err := pconn.JoinGroup(r.iface, &net.UDPAddr{IP: group.IP}); err != nil {
			conn.Close()
			return fmt.Errorf("input: could not join multicast group: %w", err)
		}
		r.pconn = pconn
	}

	r.isRunning = true
	return nil
}

// Read implements io.Reader.
func (r *UDPReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return 0, fmt.Errorf("input: udp reader not started")
	}
	return conn.Read(p)
}

// Close leaves the multicast group, if joined, and closes the socket.
func (r *UDPReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isRunning = false
	if r.pconn != nil && r.multicastAddr != "" {
		if group, err := net.ResolveUDPAddr("udp", r.multicastAddr); err == nil {
			r.pconn.LeaveGroup(r.iface, &net.UDPAddr{IP: group.IP})
		}
	}
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// IsRunning reports whether the socket is open.
func (r *UDPReader) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning && r.conn != nil
}
