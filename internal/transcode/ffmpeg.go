// SPDX-License-Identifier: MIT
package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"wavepool/internal/audio"
	applog "wavepool/internal/log"
)

var logger = applog.For("Transcode")

// DefaultFFmpegPath is resolved through PATH.
const DefaultFFmpegPath = "ffmpeg"

// maxDiagnostic bounds how much ffmpeg output is kept on failure.
const maxDiagnostic = 4096

// FFmpeg runs `ffmpeg -y -i <input> <base>.wav`.
type FFmpeg struct {
	Path string
}

func (f FFmpeg) binary() string {
	if f.Path == "" {
		return DefaultFFmpegPath
	}
	return f.Path
}

func (f FFmpeg) Transcode(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", &Error{Tool: "ffmpeg", Input: inputPath, Err: fmt.Errorf("%w: %w", audio.ErrIO, err)}
	}

	out := OutputPath(inputPath)
	if out == inputPath {
		return inputPath, nil
	}

	cmd := exec.CommandContext(ctx, f.binary(), "-y", "-i", inputPath, out)
	logger.Debugf("running %s", strings.Join(cmd.Args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return "", &Error{
			Tool:       "ffmpeg",
			Input:      inputPath,
			Diagnostic: tail(string(output), maxDiagnostic),
			Err:        err,
		}
	}

	if _, err := os.Stat(out); err != nil {
		return "", &Error{
			Tool:       "ffmpeg",
			Input:      inputPath,
			Diagnostic: tail(string(output), maxDiagnostic),
			Err:        err,
		}
	}

	logger.Infof("converted %s -> %s", inputPath, out)
	return out, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
