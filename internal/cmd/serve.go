package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/automouse/internal/log"
	"github.com/Alia5/automouse/internal/server/stream"
)

type Serve struct {
	stream.ServerConfig `embed:""`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger, g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger, g)
}

func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, g *Globals) error {
	store, closer, err := g.OpenStore(logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg := store.Config()
	logger.Info("Starting automouse stream server",
		"addr", s.Addr,
		"click", cfg.ClickActivationThreshold,
		"scroll", cfg.ScrollStepThreshold,
	)

	srv := stream.New(s.ServerConfig, store, logger, rawLogger)
	return srv.ListenAndServe(ctx)
}
