package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/automouse/hostos"
)

// OSCommand reports how the keyboard would classify this host.
type OSCommand struct {
	Settle time.Duration `help:"Delay before classifying" default:"0s"`
}

func (c *OSCommand) Run(logger *slog.Logger) error {
	d, err := hostos.Detect(context.Background(), hostos.Local, c.Settle)
	if err != nil {
		return err
	}
	logger.Debug("classified host", "os", d.OS, "available", d.Available)
	fmt.Printf("os=%s code=%s invert_scroll=%t\n", d.OS, d.Code(), d.InvertScroll())
	return nil
}
