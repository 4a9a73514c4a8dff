// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"wavepool/internal/motion"
	"wavepool/internal/track"
)

/*
Frame packet (BigEndian). One keyed frame is split across as many packets as
needed to keep each under MaxElementsPerPacket entries.

|<-- 4 Bytes -->|<-- 4 Bytes -->|<- 1 Byte ->|<- 2 Bytes ->|<------ N * 16 Bytes ------>|
+---------------+---------------+------------+-------------+-----------------------------+
|   Sequence    |     Frame     |  Channel   |    Count    |  Entries                    |
|   (uint32)    |   (uint32)    |  (uint8)   |  (uint16)   |  element uint32, x y z f32  |
+---------------+---------------+------------+-------------+-----------------------------+

Channel is 0 for location and 1 for scale. Values are absolute transforms.
*/

const (
	headerSize           = 4 + 4 + 1 + 2
	entrySize            = 4 + 3*4
	MaxElementsPerPacket = 64
)

const (
	channelLocation uint8 = iota
	channelScale
)

var ErrMalformedPacket = errors.New("udp: malformed frame packet")

// Entry is one element transform inside a frame packet.
type Entry struct {
	Element uint32
	X, Y, Z float32
}

// Packet is a decoded frame packet.
type Packet struct {
	Sequence uint32
	Frame    uint32
	Scale    bool
	Entries  []Entry
}

// FrameGroup holds every entry keyed at one frame.
type FrameGroup struct {
	Frame   int
	Entries []Entry
}

// GroupByFrame flattens a schedule's tracks into frame groups in ascending
// frame order. Entries inside a group follow element order.
func GroupByFrame(s *track.Schedule) []FrameGroup {
	byFrame := make(map[int][]Entry)
	for _, et := range s.Tracks {
		for _, kf := range et.Keyframes {
			byFrame[kf.Frame] = append(byFrame[kf.Frame], Entry{
				Element: uint32(et.Element),
				X:       float32(kf.Value.X),
				Y:       float32(kf.Value.Y),
				Z:       float32(kf.Value.Z),
			})
		}
	}

	groups := make([]FrameGroup, 0, len(byFrame))
	for frame, entries := range byFrame {
		groups = append(groups, FrameGroup{Frame: frame, Entries: entries})
	}
	slices.SortFunc(groups, func(a, b FrameGroup) int { return a.Frame - b.Frame })
	return groups
}

func channelByte(c motion.Channel) uint8 {
	if c == motion.ChannelScale {
		return channelScale
	}
	return channelLocation
}

// encodePacket appends one packet for entries to buf.
func encodePacket(buf *bytes.Buffer, seq uint32, frame int, channel uint8, entries []Entry) error {
	err := binary.Write(buf, binary.BigEndian, seq)
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, uint32(frame))
	}
	if err == nil {
		err = buf.WriteByte(channel)
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, uint16(len(entries)))
	}
	if err == nil {
		err = binary.Write(buf, binary.BigEndian, entries)
	}
	return err
}

// DecodePacket parses a frame packet.
func DecodePacket(data []byte) (Packet, error) {
	if len(data) < headerSize {
		return Packet{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformedPacket, len(data))
	}

	var p Packet
	p.Sequence = binary.BigEndian.Uint32(data[0:4])
	p.Frame = binary.BigEndian.Uint32(data[4:8])
	p.Scale = data[8] == channelScale
	count := int(binary.BigEndian.Uint16(data[9:11]))

	if want := headerSize + count*entrySize; len(data) != want {
		return Packet{}, fmt.Errorf("%w: %d entries need %d bytes, got %d", ErrMalformedPacket, count, want, len(data))
	}

	p.Entries = make([]Entry, count)
	if err := binary.Read(bytes.NewReader(data[headerSize:]), binary.BigEndian, p.Entries); err != nil {
		return Packet{}, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return p, nil
}
