// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"wavepool/internal/track"
)

// DefaultInterval paces frames at roughly 60Hz.
const DefaultInterval = 16 * time.Millisecond

// PacketSender transmits one datagram.
type PacketSender interface {
	Send(data []byte) error
}

// UDPPublisher streams queued schedules frame by frame. Every tick sends all
// packets of the next keyed frame, so a receiver sees the animation play out
// at the publisher's pace.
type UDPPublisher struct {
	sender   PacketSender
	interval time.Duration

	mu       sync.Mutex // guards pending and draining
	pending  []queuedFrame
	draining bool

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	sequenceNum  uint32
	packetBuffer *bytes.Buffer
}

type queuedFrame struct {
	channel uint8
	group   FrameGroup
}

// NewUDPPublisher starts a publisher. An interval <= 0 falls back to
// DefaultInterval.
func NewUDPPublisher(interval time.Duration, sender PacketSender) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: sender cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
		logger.Warnf("invalid publish interval, defaulting to %s", interval)
	}

	p := &UDPPublisher{
		sender:       sender,
		interval:     interval,
		done:         make(chan struct{}),
		packetBuffer: new(bytes.Buffer),
	}

	p.wg.Add(1)
	go p.run()
	return p, nil
}

// Publish queues every keyed frame of s behind anything already pending.
func (p *UDPPublisher) Publish(s *track.Schedule) error {
	groups := GroupByFrame(s)
	channel := channelByte(s.Channel)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.draining {
		return fmt.Errorf("UDPPublisher: closed")
	}
	for _, g := range groups {
		p.pending = append(p.pending, queuedFrame{channel: channel, group: g})
	}
	logger.Debugf("queued %d frames, %d pending", len(groups), len(p.pending))
	return nil
}

// Pending returns the number of frames not yet sent.
func (p *UDPPublisher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *UDPPublisher) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !p.sendNext() {
				return
			}
		case <-p.done:
			return
		}
	}
}

// sendNext sends one frame and reports whether the loop should continue.
func (p *UDPPublisher) sendNext() bool {
	p.mu.Lock()
	if len(p.pending) == 0 {
		draining := p.draining
		p.mu.Unlock()
		return !draining
	}
	next := p.pending[0]
	p.pending = p.pending[1:]
	p.mu.Unlock()

	entries := next.group.Entries
	for start := 0; start < len(entries); start += MaxElementsPerPacket {
		end := min(start+MaxElementsPerPacket, len(entries))

		p.sequenceNum++
		p.packetBuffer.Reset()
		if err := encodePacket(p.packetBuffer, p.sequenceNum, next.group.Frame, next.channel, entries[start:end]); err != nil {
			logger.Errorf("error packing frame %d: %v", next.group.Frame, err)
			return true
		}
		if err := p.sender.Send(p.packetBuffer.Bytes()); err != nil {
			continue
		}
		logger.Debugf("sent packet %d (frame %d, %d bytes)", p.sequenceNum, next.group.Frame, p.packetBuffer.Len())
	}
	return true
}

// Close sends every pending frame, then stops the publisher.
func (p *UDPPublisher) Close() error {
	p.mu.Lock()
	p.draining = true
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// Stop halts the publisher immediately, dropping pending frames.
func (p *UDPPublisher) Stop() {
	p.mu.Lock()
	p.draining = true
	dropped := len(p.pending)
	p.pending = nil
	p.mu.Unlock()

	p.stopOnce.Do(func() { close(p.done) })
	p.wg.Wait()
	if dropped > 0 {
		logger.Warnf("stopped with %d frames unsent", dropped)
	}
}
