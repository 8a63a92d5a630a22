//go:build unix

package hostos

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Local classifies the machine this process runs on from uname(2).
func Local() OS {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Unknown
	}
	return fromUname(unix.ByteSliceToString(u.Sysname[:]), unix.ByteSliceToString(u.Machine[:]))
}

func fromUname(sysname, machine string) OS {
	switch sysname {
	case "Linux":
		return Linux
	case "Darwin":
		if strings.HasPrefix(machine, "iPhone") || strings.HasPrefix(machine, "iPad") {
			return IOS
		}
		return MacOS
	default:
		return Unknown
	}
}
