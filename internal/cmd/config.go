package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/kong"

	"github.com/Alia5/automouse/internal/configpaths"
	"github.com/Alia5/automouse/internal/log"
	"github.com/Alia5/automouse/userconfig"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Show      ConfigShow   `cmd:"" help:"Print the persisted user configuration"`
	IncClick  ConfigAdjust `cmd:"" name:"inc-click" help:"Raise the click activation threshold by one step"`
	DecClick  ConfigAdjust `cmd:"" name:"dec-click" help:"Lower the click activation threshold by one step"`
	IncScroll ConfigAdjust `cmd:"" name:"inc-scroll" help:"Scroll faster (smaller step threshold)"`
	DecScroll ConfigAdjust `cmd:"" name:"dec-scroll" help:"Scroll slower (larger step threshold)"`
	Reset     ConfigReset  `cmd:"" help:"Restore and persist the defaults"`
	Init      ConfigInit   `cmd:"" help:"Generate a configuration template"`
}

// ConfigShow prints the user configuration.
type ConfigShow struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
}

func (c *ConfigShow) Run(logger *slog.Logger, g *Globals) error {
	store, closer, err := g.OpenStore(logger)
	if err != nil {
		return err
	}
	defer closer.Close()
	return writeConfig(os.Stdout, store.Config(), c.Format)
}

// ConfigAdjust applies one adjustment keycode to the stored configuration.
type ConfigAdjust struct{}

func (c *ConfigAdjust) Run(kctx *kong.Context, logger *slog.Logger, g *Globals) error {
	store, closer, err := g.OpenStore(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	var cfg userconfig.Config
	switch cmd := kctx.Selected().Name; cmd {
	case "inc-click":
		cfg, err = store.IncreaseClickActivation()
	case "dec-click":
		cfg, err = store.DecreaseClickActivation()
	case "inc-scroll":
		cfg, err = store.IncreaseScrollSpeed()
	case "dec-scroll":
		cfg, err = store.DecreaseScrollSpeed()
	default:
		return fmt.Errorf("unknown adjustment %q", cmd)
	}
	if err != nil {
		return err
	}
	return writeConfig(os.Stdout, cfg, "yaml")
}

// ConfigReset restores the factory configuration.
type ConfigReset struct{}

func (c *ConfigReset) Run(logger *slog.Logger, g *Globals) error {
	store, closer, err := g.OpenStore(logger)
	if err != nil {
		return err
	}
	defer closer.Close()
	cfg, err := store.Reset()
	if err != nil {
		return err
	}
	logger.Info("user configuration reset")
	return writeConfig(os.Stdout, cfg, "yaml")
}

func writeConfig(w io.Writer, cfg userconfig.Config, format string) error {
	var data []byte
	var err error
	switch normalizeFormat(format) {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"serve,replay"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run generates a configuration template dynamically via reflection of the command structs and tags.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	root := buildMapFromStruct(reflect.TypeOf(Globals{}))
	root["log"] = buildMapFromStruct(reflect.TypeOf(log.Config{}))
	switch c.Command {
	case "serve":
		maps.Copy(root, buildMapFromStruct(reflect.TypeOf(Serve{})))
	case "replay":
		maps.Copy(root, buildMapFromStruct(reflect.TypeOf(Replay{})))
	default:
		return errors.New("unknown command; expected 'serve' or 'replay'")
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + format
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// lowerCamel lowercases the leading run of capitals: EEPROM -> eeprom,
// OSSettle -> osSettle, IdleTimeout -> idleTimeout.
func lowerCamel(s string) string {
	r := []rune(s)
	for i := 0; i < len(r) && unicode.IsUpper(r[i]); i++ {
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

func buildMapFromStruct(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("arg"); ok {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			prefix := f.Tag.Get("prefix")
			name := strings.TrimSuffix(prefix, ".")
			sub := buildMapFromStruct(f.Type)
			if name != "" {
				out[name] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		key := lowerCamel(f.Name)
		def := f.Tag.Get("default")
		val := defaultValueForField(f.Type, def)
		if val != nil {
			out[key] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "time" && t.Name() == "Duration" {
		if def != "" {
			return def
		}
		return "0s"
	}
	switch t.Kind() {
	case reflect.String:
		return def // may be empty
	case reflect.Bool:
		if def == "" {
			return false
		}
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Float32, reflect.Float64:
		if def == "" {
			return 0
		}
		f, err := strconv.ParseFloat(def, 64)
		if err != nil {
			return 0
		}
		return f
	case reflect.Struct:
		return buildMapFromStruct(t)
	default:
		return nil
	}
}
