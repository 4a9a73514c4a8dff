// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wavepool/cmd"
	applog "wavepool/internal/log"
	"wavepool/pkg/build"
)

// main wires build information and signal handling around the command line.
// An interrupt cancels the running command between pipeline stages and stops
// the websocket sink.
func main() {
	// Builds without ldflags run as development builds.
	if err := build.Initialize(); err != nil {
		applog.Debugf("development build: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		applog.Fatalf("%v", err)
	}
}
