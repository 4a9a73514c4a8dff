// SPDX-License-Identifier: MIT
package transcode

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Registry selects a Transcoder by file extension.
type Registry struct {
	mu       sync.RWMutex
	byExt    map[string]Transcoder
	fallback Transcoder
}

// NewRegistry returns a registry that passes ".wav" through and sends every
// other extension to fallback. A nil fallback rejects unknown extensions.
func NewRegistry(fallback Transcoder) *Registry {
	r := &Registry{
		byExt:    make(map[string]Transcoder),
		fallback: fallback,
	}
	r.Register("wav", Passthrough{})
	r.Register("wave", Passthrough{})
	return r
}

// NewNativeRegistry returns a registry using the in-process decoders for
// mp3 and ogg, with ffmpeg (if non-nil) for everything else.
func NewNativeRegistry(ffmpeg Transcoder) *Registry {
	r := NewRegistry(ffmpeg)
	r.Register("mp3", MP3{})
	r.Register("ogg", Vorbis{})
	r.Register("oga", Vorbis{})
	return r
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Register sets the transcoder for ext (with or without the leading dot).
func (r *Registry) Register(ext string, t Transcoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byExt[normalizeExt(ext)] = t
}

// For returns the transcoder that handles path.
func (r *Registry) For(path string) (Transcoder, error) {
	ext := normalizeExt(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.byExt[ext]; ok {
		return t, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, &Error{Tool: "registry", Input: path, Err: fmt.Errorf("unsupported extension %q", ext)}
}

// Transcode dispatches path to the transcoder registered for its extension.
func (r *Registry) Transcode(ctx context.Context, path string) (string, error) {
	t, err := r.For(path)
	if err != nil {
		return "", err
	}
	return t.Transcode(ctx, path)
}
