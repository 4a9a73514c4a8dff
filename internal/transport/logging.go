// SPDX-License-Identifier: MIT
package transport

import (
	applog "wavepool/internal/log"
	"wavepool/internal/track"
)

var logger = applog.For("Transport")

// LoggingTransport reports what it receives to the log and discards it.
type LoggingTransport struct{}

func NewLoggingTransport() *LoggingTransport {
	logger.Infof("using LoggingTransport")
	return &LoggingTransport{}
}

func (lt *LoggingTransport) Send(data any) error {
	switch v := data.(type) {
	case *track.Schedule:
		logger.Infof("schedule: frames %d-%d @ %g fps, style %s, %d tracks, %d keyed frames",
			v.StartFrame, v.EndFrame, v.FrameRate, v.Style, len(v.Tracks), len(v.KeyedFrames()))
	default:
		logger.Infof("received %T: %+v", data, data)
	}
	return nil
}

func (lt *LoggingTransport) Close() error {
	logger.Debugf("LoggingTransport closed")
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
