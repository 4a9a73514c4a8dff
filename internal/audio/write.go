// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes interleaved 16-bit samples as a PCM WAV stream.
func EncodeWAV(w io.WriteSeeker, samples []int16, sampleRate, channels int) error {
	if channels < 1 {
		return fmt.Errorf("channel count must be positive, got %d", channels)
	}

	encoder := wav.NewEncoder(w, sampleRate, supportedDepth, channels, pcmFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: supportedDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("writing PCM data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalizing WAV header: %w", err)
	}
	return nil
}

// WriteWAV creates (or truncates) path and writes samples as a PCM WAV file.
func WriteWAV(path string, samples []int16, sampleRate, channels int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}

	if err := EncodeWAV(file, samples, sampleRate, channels); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return file.Close()
}
