// SPDX-License-Identifier: MIT
package transcode

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"wavepool/internal/audio"
)

// mp3Channels is fixed: go-mp3 always decodes to interleaved stereo.
const mp3Channels = 2

// MP3 decodes MPEG-1/2 Layer III in process.
type MP3 struct{}

func (MP3) Transcode(ctx context.Context, inputPath string) (string, error) {
	return decodeTo(ctx, "go-mp3", inputPath, func(r io.Reader) ([]int16, int, int, error) {
		dec, err := gomp3.NewDecoder(r)
		if err != nil {
			return nil, 0, 0, err
		}
		raw, err := io.ReadAll(dec)
		if err != nil {
			return nil, 0, 0, err
		}
		samples := make([]int16, len(raw)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
		}
		return samples, dec.SampleRate(), mp3Channels, nil
	})
}

// Vorbis decodes Ogg Vorbis in process.
type Vorbis struct{}

func (Vorbis) Transcode(ctx context.Context, inputPath string) (string, error) {
	return decodeTo(ctx, "oggvorbis", inputPath, func(r io.Reader) ([]int16, int, int, error) {
		data, format, err := oggvorbis.ReadAll(r)
		if err != nil {
			return nil, 0, 0, err
		}
		if format.Channels > 2 {
			return nil, 0, 0, fmt.Errorf("%d channels, want 1 or 2", format.Channels)
		}
		samples := make([]int16, len(data))
		for i, v := range data {
			samples[i] = floatToInt16(v)
		}
		return samples, format.SampleRate, format.Channels, nil
	})
}

type decodeFunc func(r io.Reader) (samples []int16, sampleRate, channels int, err error)

func decodeTo(ctx context.Context, tool, inputPath string, decode decodeFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := OutputPath(inputPath)
	if out == inputPath {
		return "", &Error{Tool: tool, Input: inputPath, Err: fmt.Errorf("output would overwrite input")}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return "", &Error{Tool: tool, Input: inputPath, Err: fmt.Errorf("%w: %w", audio.ErrIO, err)}
	}
	defer file.Close()

	samples, rate, channels, err := decode(file)
	if err != nil {
		return "", &Error{Tool: tool, Input: inputPath, Err: err}
	}
	if len(samples) == 0 {
		return "", &Error{Tool: tool, Input: inputPath, Err: fmt.Errorf("no audio decoded")}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := audio.WriteWAV(out, samples, rate, channels); err != nil {
		return "", &Error{Tool: tool, Input: inputPath, Err: err}
	}

	logger.Infof("decoded %s -> %s (%d Hz, %d ch)", inputPath, out, rate, channels)
	return out, nil
}

func floatToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767)
}
