package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/Alia5/automouse/eeprom"
	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/status"
	"github.com/Alia5/automouse/trace"
	"github.com/Alia5/automouse/userconfig"
)

// Replay runs a recorded script through a fresh keyboard.
type Replay struct {
	Script  string `arg:"" name:"script" help:"Script file (.yaml, .toml or .json)" type:"existingfile"`
	Persist bool   `help:"Use the configured eeprom instead of a throwaway one"`
	Panel   bool   `help:"Always print the status panel" negatable:""`
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run(logger *slog.Logger, g *Globals) error {
	script, err := trace.Load(r.Script)
	if err != nil {
		return err
	}

	var store *userconfig.Store
	if r.Persist {
		s, closer, err := g.OpenStore(logger)
		if err != nil {
			return err
		}
		defer closer.Close()
		store = s
	} else {
		store = userconfig.NewStore(eeprom.NewMem(), logger)
		if _, err := store.Load(); err != nil {
			return err
		}
	}

	outs, err := trace.Run(context.Background(), script, store, logger)
	printOutputs(os.Stdout, outs)
	if err != nil {
		return err
	}

	if len(outs) > 0 && (r.Panel || term.IsTerminal(int(os.Stdout.Fd()))) {
		lines := status.Render(outs[len(outs)-1].Status)
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, lines[0])
		fmt.Fprintln(os.Stdout, lines[1])
	}
	return nil
}

func printOutputs(w io.Writer, outs []trace.Output) {
	for _, o := range outs {
		fmt.Fprintf(w, "%6d %-9s", uint32(o.At), o.State)
		if o.Report != nil {
			fmt.Fprintf(w, " report=%s", formatReport(*o.Report))
		}
		for _, f := range o.Flushed {
			fmt.Fprintf(w, " sent=%s", formatReport(f))
		}
		if !o.PassThrough {
			fmt.Fprint(w, " consumed")
		}
		fmt.Fprintln(w)
	}
}

func formatReport(r mouse.Report) string {
	return fmt.Sprintf("[btn=%05b x=%d y=%d h=%d v=%d]", r.Buttons, r.X, r.Y, r.H, r.V)
}
