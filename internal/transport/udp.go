// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"fmt"
	"time"

	"wavepool/internal/track"
	"wavepool/internal/transport/udp"
)

// UDPTransport streams schedules as paced per-frame datagrams.
type UDPTransport struct {
	sender    *udp.UDPSender
	publisher *udp.UDPPublisher
}

// NewUDPTransport streams through sender, one keyed frame per interval.
func NewUDPTransport(sender *udp.UDPSender, interval time.Duration) (*UDPTransport, error) {
	if sender == nil {
		return nil, errors.New("udp transport: sender cannot be nil")
	}
	publisher, err := udp.NewUDPPublisher(interval, sender)
	if err != nil {
		return nil, err
	}
	return &UDPTransport{sender: sender, publisher: publisher}, nil
}

// Send queues a *track.Schedule for streaming.
func (ut *UDPTransport) Send(data any) error {
	schedule, ok := data.(*track.Schedule)
	if !ok {
		return fmt.Errorf("udp transport: cannot stream %T", data)
	}
	return ut.publisher.Publish(schedule)
}

// Close waits for queued frames to go out, then closes the socket.
func (ut *UDPTransport) Close() error {
	return errors.Join(ut.publisher.Close(), ut.sender.Close())
}

var _ Transport = (*UDPTransport)(nil)
