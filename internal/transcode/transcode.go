// SPDX-License-Identifier: MIT
// Package transcode converts compressed audio into the 16-bit PCM WAV files
// the analysis stages read. Conversion is delegated to ffmpeg or to pure Go
// decoders; no codec is implemented here.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrTranscode = errors.New("transcode failed")

// Error reports a failed conversion together with the tool's diagnostic text.
type Error struct {
	Tool       string
	Input      string
	Diagnostic string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s %s", ErrTranscode, e.Tool, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Diagnostic != "" {
		msg += "\n" + e.Diagnostic
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrTranscode }

// Transcoder writes a PCM WAV rendition of inputPath and returns its path.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath string) (string, error)
}

// OutputPath returns the WAV path written next to input: the input path with
// its extension replaced by ".wav".
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".wav"
}

// Passthrough returns WAV inputs unchanged.
type Passthrough struct{}

func (Passthrough) Transcode(ctx context.Context, inputPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return inputPath, nil
}
