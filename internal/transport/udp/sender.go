// SPDX-License-Identifier: MIT
package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"

	applog "wavepool/internal/log"
)

var logger = applog.For("UDP")

// ErrSenderClosed is returned by Send after Close.
var ErrSenderClosed = errors.New("udp: sender closed")

// MaxPacketSize is the largest frame packet the codec produces.
const MaxPacketSize = headerSize + MaxElementsPerPacket*entrySize

// UDPSender writes frame packets to one connected peer. Send and Close may
// be called from different goroutines.
type UDPSender struct {
	mu      sync.Mutex
	conn    *net.UDPConn
	closed  bool
	packets int
	bytes   int
}

// NewUDPSender dials targetAddress ("host:port"). UDP has no handshake, so a
// missing listener only shows up as write errors later, if at all.
func NewUDPSender(targetAddress string) (*UDPSender, error) {
	raddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve udp target %q: %w", targetAddress, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("dial udp target %q: %w", targetAddress, err)
	}

	logger.Infof("streaming frames to %s", conn.RemoteAddr())
	return &UDPSender{conn: conn}, nil
}

// Send writes one packet as a single datagram.
func (s *UDPSender) Send(packet []byte) error {
	if len(packet) > MaxPacketSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrMalformedPacket, len(packet), MaxPacketSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSenderClosed
	}
	n, err := s.conn.Write(packet)
	if err != nil {
		logger.Warnf("write to %s: %v", s.conn.RemoteAddr(), err)
		return fmt.Errorf("udp write: %w", err)
	}
	s.packets++
	s.bytes += n
	return nil
}

// Stats returns the packets and bytes written so far.
func (s *UDPSender) Stats() (packets, bytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.packets, s.bytes
}

// Close closes the connection. Closing twice is a no-op.
func (s *UDPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	logger.Debugf("closing %s after %d packets (%d bytes)", s.conn.RemoteAddr(), s.packets, s.bytes)
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("udp close: %w", err)
	}
	return nil
}
