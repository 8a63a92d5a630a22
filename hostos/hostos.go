// Package hostos classifies the host operating system once at startup.
// Classification is an optional capability: when the environment cannot
// provide it, scrolling is left uninverted and the status shows "NA".
package hostos

import (
	"context"
	"strings"
	"time"
)

// OS is a host platform tag.
type OS uint8

const (
	Unknown OS = iota
	Linux
	Windows
	MacOS
	IOS
)

// DefaultSettle is how long detection waits for the host to finish
// enumerating before classifying.
const DefaultSettle = 400 * time.Millisecond

// Classifier returns the host platform. A nil Classifier means the
// capability is absent.
type Classifier func() OS

func (o OS) String() string {
	switch o {
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	case IOS:
		return "ios"
	default:
		return "unknown"
	}
}

// Code returns the 3-letter status code.
func (o OS) Code() string {
	switch o {
	case Windows:
		return "WIN"
	case MacOS:
		return "MAC"
	case Linux:
		return "LNX"
	case IOS:
		return "IOS"
	default:
		return "UNK"
	}
}

// Detection is the cached startup result.
type Detection struct {
	OS        OS
	Available bool
}

// Code returns the status code, "NA" when detection is unavailable.
func (d Detection) Code() string {
	if !d.Available {
		return "NA"
	}
	return d.OS.Code()
}

// InvertScroll reports whether wheel output should be negated for the
// host. Windows and Linux scroll opposite to macOS and iOS.
func (d Detection) InvertScroll() bool {
	if !d.Available {
		return false
	}
	switch d.OS {
	case Windows, Linux:
		return true
	default:
		return false
	}
}

// Detect waits settle, then runs classify once. A nil classify returns
// immediately with Available false. The only error is ctx's.
func Detect(ctx context.Context, classify Classifier, settle time.Duration) (Detection, error) {
	if classify == nil {
		return Detection{}, nil
	}
	if settle > 0 {
		t := time.NewTimer(settle)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Detection{}, ctx.Err()
		case <-t.C:
		}
	}
	return Detection{OS: classify(), Available: true}, nil
}

// Parse maps a name ("windows", "mac", "LNX", ...) to an OS.
func Parse(s string) OS {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows", "win":
		return Windows
	case "macos", "mac", "darwin":
		return MacOS
	case "linux", "lnx":
		return Linux
	case "ios":
		return IOS
	default:
		return Unknown
	}
}

// Fixed returns a Classifier that always reports o.
func Fixed(o OS) Classifier {
	return func() OS { return o }
}
