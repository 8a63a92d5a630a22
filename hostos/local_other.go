//go:build !unix

package hostos

import "runtime"

// Local classifies the machine this process runs on.
func Local() OS {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Unknown
}
