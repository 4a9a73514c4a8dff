// SPDX-License-Identifier: MIT
//
// Package build exposes metadata embedded at link time:
//
//	go build -ldflags "-X wavepool/pkg/build.buildName=wavepool \
//	  -X wavepool/pkg/build.buildVersion=0.3.0 ..."
//
// Development builds without ldflags run with the fallback values.
package build

import (
	"errors"
	"fmt"
)

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// String formats the flags for the version command.
func (f ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}

const description = "Turn audio into keyframed motion for a grid of scene objects"

// Package-level variables for build information. These are populated by -ldflags
// during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultFlags()
)

func defaultFlags() *ldFlags {
	return &ldFlags{
		Name:        "wavepool",
		Description: description,
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
}

// Initialize validates and copies build information from ldflags variables
// into the buildFlags struct. It reports every missing flag; fields whose flag
// is missing keep their development values.
func Initialize() error {
	var errs []error
	set := func(dst *string, val, name string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
			return
		}
		*dst = val
	}

	set(&buildFlags.Name, buildName, "BuildName")
	set(&buildFlags.Time, buildTime, "BuildTime")
	set(&buildFlags.Commit, buildCommit, "BuildCommit")
	set(&buildFlags.Version, buildVersion, "BuildVersion")

	return errors.Join(errs...)
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
