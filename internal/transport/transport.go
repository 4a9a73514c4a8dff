// SPDX-License-Identifier: MIT
// Package transport hands finished schedules to a scene host.
package transport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wavepool/internal/transport/udp"
)

// Transport defines a generic interface for sending schedules or events.
// Implementations are safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

var ErrClosed = errors.New("transport: closed")

// Sink names a Transport implementation.
type Sink string

const (
	SinkFile      Sink = "file"
	SinkWebSocket Sink = "websocket"
	SinkUDP       Sink = "udp"
	SinkLog       Sink = "log"
)

func ParseSink(name string) (Sink, error) {
	switch s := Sink(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return SinkFile, nil
	case SinkFile, SinkWebSocket, SinkUDP, SinkLog:
		return s, nil
	case "ws":
		return SinkWebSocket, nil
	case "logging", "stdout":
		return SinkLog, nil
	default:
		return SinkFile, fmt.Errorf("unknown output sink: '%s'", name)
	}
}

// Options selects and configures a sink.
type Options struct {
	Sink          Sink
	Path          string
	WebSocketAddr string
	UDPTarget     string
	UDPInterval   time.Duration
}

// Open creates the transport named by opts.Sink.
func Open(opts Options) (Transport, error) {
	switch opts.Sink {
	case SinkFile, "":
		return NewFileTransport(opts.Path)
	case SinkWebSocket:
		return NewWebSocketTransport(opts.WebSocketAddr)
	case SinkUDP:
		sender, err := udp.NewUDPSender(opts.UDPTarget)
		if err != nil {
			return nil, err
		}
		tr, err := NewUDPTransport(sender, opts.UDPInterval)
		if err != nil {
			return nil, errors.Join(err, sender.Close())
		}
		return tr, nil
	case SinkLog:
		return NewLoggingTransport(), nil
	default:
		return nil, fmt.Errorf("unknown output sink: '%s'", opts.Sink)
	}
}
