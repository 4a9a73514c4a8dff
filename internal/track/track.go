// SPDX-License-Identifier: MIT
// Package track groups displacement samples into per-element keyframe tracks
// and assembles the schedule handed to the scene host.
package track

import (
	"errors"
	"slices"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"wavepool/internal/motion"
)

var ErrSealed = errors.New("track: builder already built")

// Keyframe is one keyed transform on an element's track.
type Keyframe struct {
	Frame  int    `json:"frame" yaml:"frame"`
	Offset r3.Vec `json:"offset" yaml:"offset"`
	Value  r3.Vec `json:"value" yaml:"value"`
}

// Tracks maps element IDs to their keyframes in emission order.
type Tracks struct {
	byElement map[int][]Keyframe
	ids       []int
}

// Len returns the number of element tracks.
func (t *Tracks) Len() int { return len(t.ids) }

// ElementIDs returns the element IDs in ascending order.
func (t *Tracks) ElementIDs() []int { return slices.Clone(t.ids) }

// For returns a copy of the keyframes of element id, or nil if it has none.
func (t *Tracks) For(id int) []Keyframe {
	return slices.Clone(t.byElement[id])
}

// Keyframes returns the total number of keyframes across all tracks.
func (t *Tracks) Keyframes() int {
	n := 0
	for _, kfs := range t.byElement {
		n += len(kfs)
	}
	return n
}

// Builder accumulates samples. It is safe for concurrent use.
type Builder struct {
	mu        sync.Mutex
	byElement map[int][]Keyframe
	sealed    bool
}

func NewBuilder() *Builder {
	return &Builder{byElement: make(map[int][]Keyframe)}
}

// Accumulate appends samples to their element tracks in the order given.
// Duplicate frames are kept.
func (b *Builder) Accumulate(samples []motion.Sample) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return ErrSealed
	}
	for _, s := range samples {
		b.byElement[s.ElementID] = append(b.byElement[s.ElementID], Keyframe{
			Frame:  s.Frame,
			Offset: s.Offset,
			Value:  s.Value,
		})
	}
	return nil
}

// Build seals the builder and returns the tracks. Later Accumulate calls fail
// with ErrSealed; Build itself may be called again and returns the same tracks.
func (b *Builder) Build() *Tracks {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sealed = true
	ids := make([]int, 0, len(b.byElement))
	for id := range b.byElement {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return &Tracks{byElement: b.byElement, ids: ids}
}
