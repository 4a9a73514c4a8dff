// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"

	applog "wavepool/internal/log"

	"github.com/go-audio/wav"
)

const (
	pcmFormat       = 1  // WAVE_FORMAT_PCM
	supportedDepth  = 16 // Only signed 16-bit samples are analysed
	maxLoadChannels = 2
)

var logger = applog.For("Audio")

// Load decodes a 16-bit PCM WAV file and reduces it to mono with downmix.
//
// Errors wrap ErrIO when the file cannot be opened or read, and ErrFormat when
// the container is not 16-bit PCM with one or two channels.
func Load(path string, downmix Downmix) (*Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a RIFF/WAVE file", ErrFormat, path)
	}

	if decoder.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: %s uses audio format %d, want PCM", ErrFormat, path, decoder.WavAudioFormat)
	}
	if decoder.BitDepth != supportedDepth {
		return nil, fmt.Errorf("%w: %s is %d-bit, want %d-bit", ErrFormat, path, decoder.BitDepth, supportedDepth)
	}
	channels := int(decoder.NumChans)
	if channels < 1 || channels > maxLoadChannels {
		return nil, fmt.Errorf("%w: %s has %d channels, want 1 or 2", ErrFormat, path, channels)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading PCM data: %v", ErrFormat, path, err)
	}

	mono := downmix.Apply(buf.Data, channels)
	track, err := NewTrack(mono, int(decoder.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	track.sourceChannels = channels
	track.downmix = downmix

	logger.Debugf("Loaded %s (%d Hz, %d ch, %d mono samples, downmix %s)",
		path, track.SampleRate(), channels, track.Len(), downmix)

	return track, nil
}
