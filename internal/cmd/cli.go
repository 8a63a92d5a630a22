package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Alia5/automouse/eeprom"
	"github.com/Alia5/automouse/internal/configpaths"
	"github.com/Alia5/automouse/internal/log"
	"github.com/Alia5/automouse/userconfig"
)

// CLI is the root command.
type CLI struct {
	Config string     `help:"Path to a JSON, YAML or TOML config file" env:"AUTOMOUSE_CONFIG"`
	Log    log.Config `embed:"" prefix:"log."`
	Globals `embed:""`

	Serve    Serve         `cmd:"" help:"Serve firmware sessions over TCP"`
	Replay   Replay        `cmd:"" help:"Replay a recorded input script"`
	Settings ConfigCommand `cmd:"" name:"config" help:"Inspect and adjust the persisted user configuration"`
	OS       OSCommand     `cmd:"" name:"os" help:"Show the host OS classification"`
}

// Globals are flags shared by every subcommand.
type Globals struct {
	EEPROM string `help:"Configuration store; .db/.sqlite selects SQLite, anything else a YAML file" env:"AUTOMOUSE_EEPROM"`
}

// OpenStore opens the configured backing store and loads the user
// configuration from it.
func (g *Globals) OpenStore(logger *slog.Logger) (*userconfig.Store, io.Closer, error) {
	path := g.EEPROM
	if path == "" {
		p, err := configpaths.DefaultEEPROMPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve eeprom path: %w", err)
		}
		path = p
	}
	if err := configpaths.EnsureDir(path); err != nil {
		return nil, nil, fmt.Errorf("create eeprom dir: %w", err)
	}
	backing, closer, err := eeprom.Open(path)
	if err != nil {
		return nil, nil, err
	}
	store := userconfig.NewStore(backing, logger)
	if _, err := store.Load(); err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	logger.Debug("opened eeprom", "path", path)
	return store, closer, nil
}
