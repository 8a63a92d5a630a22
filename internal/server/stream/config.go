package stream

import "time"

// ServerConfig represents the serve subcommand configuration.
type ServerConfig struct {
	Addr        string        `help:"Firmware stream listen address" default:":3243" env:"AUTOMOUSE_ADDR"`
	IdleTimeout time.Duration `help:"Close a stream after this long without frames; 0 to disable" default:"5m" env:"AUTOMOUSE_IDLE_TIMEOUT"`
	OS          string        `help:"Host OS reported to every session (windows, macos, linux, ios, unknown); empty detects the local OS, 'none' disables detection" env:"AUTOMOUSE_OS"`
	OSSettle    time.Duration `help:"Delay before classifying the host OS" default:"400ms" env:"AUTOMOUSE_OS_SETTLE"`
}
