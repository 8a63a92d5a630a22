// Package stream serves firmware emulation sessions over TCP. Each
// connection drives its own keyboard; all of them share one persisted
// configuration.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/automouse/automouse"
	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/firmware"
	"github.com/Alia5/automouse/hostos"
	"github.com/Alia5/automouse/internal/log"
	"github.com/Alia5/automouse/userconfig"
	"github.com/Alia5/automouse/wire"
)

// Server accepts stream connections.
type Server struct {
	config    ServerConfig
	store     *userconfig.Store
	logger    *slog.Logger
	rawLogger log.RawLogger

	mu    sync.Mutex
	ln    net.Listener
	ready chan struct{}
	host  hostos.Classifier
	wg    sync.WaitGroup
}

// New creates a Server. store must already be loaded.
func New(config ServerConfig, store *userconfig.Store, logger *slog.Logger, rawLogger log.RawLogger) *Server {
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	return &Server{
		config:    config,
		store:     store,
		logger:    logger,
		rawLogger: rawLogger,
		ready:     make(chan struct{}),
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address, nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe classifies the host once, then accepts connections until
// ctx is done or Close is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	classifier, err := s.detectHost(ctx)
	if err != nil {
		return err
	}
	s.host = classifier

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	close(s.ready)
	s.logger.Info("Firmware stream listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("Firmware stream stopped")
				cancel()
				s.wg.Wait()
				return nil
			}
			s.logger.Error("Accept error", "error", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// Close stops accepting connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

// detectHost runs the one-shot OS classification and turns the result
// into a classifier sessions can call without waiting again.
func (s *Server) detectHost(ctx context.Context) (hostos.Classifier, error) {
	var classify hostos.Classifier
	switch strings.ToLower(s.config.OS) {
	case "none":
		return nil, nil
	case "":
		classify = hostos.Local
	default:
		classify = hostos.Fixed(hostos.Parse(s.config.OS))
	}
	d, err := hostos.Detect(ctx, classify, s.config.OSSettle)
	if err != nil {
		return nil, fmt.Errorf("detect host os: %w", err)
	}
	s.logger.Info("Host OS classified", "os", d.Code(), "invertScroll", d.InvertScroll())
	return hostos.Fixed(d.OS), nil
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	connLogger.Info("Client connected")

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	send := func(r mouse.Report) error {
		b, err := r.MarshalBinary()
		if err != nil {
			return err
		}
		s.rawLogger.Log(false, b)
		_, err = conn.Write(b)
		return err
	}

	kb := firmware.New(s.store, firmware.SenderFunc(send), firmware.Options{
		Classifier: s.host,
		Logger:     connLogger,
	})
	if err := kb.Init(ctx); err != nil {
		connLogger.Error("keyboard init failed", "error", err)
		return
	}

	if err := s.serveFrames(conn, kb, send, connLogger); err != nil {
		connLogger.Error("stream ended", "error", err)
		return
	}
	connLogger.Info("Client disconnected")
}

func (s *Server) serveFrames(conn net.Conn, kb *firmware.Keyboard, send func(mouse.Report) error, logger *slog.Logger) error {
	start := time.Now()
	for {
		if s.config.IdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout))
		}
		f, raw, err := wire.ReadFrame(conn)
		if raw != nil {
			s.rawLogger.Log(true, raw)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		now := automouse.Millis(time.Since(start).Milliseconds())
		switch f.Kind {
		case wire.KindMotion:
			out := kb.PointingTask(f.Motion, now)
			if err := send(out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		case wire.KindKey:
			pass := kb.ProcessRecord(f.Key, f.Pressed, now)
			logger.Debug("key", "code", f.Key.String(), "pressed", f.Pressed, "passThrough", pass, "state", kb.Machine().Kind().String())
		case wire.KindLayer:
			switch f.Op {
			case wire.LayerOn:
				kb.Layers().LayerOn(f.Layer)
			case wire.LayerOff:
				kb.Layers().LayerOff(f.Layer)
			case wire.LayerToggle:
				kb.Layers().Toggle(f.Layer)
			}
			logger.Debug("layer", "op", f.Op, "layer", f.Layer, "highest", kb.Layers().Highest())
		}
	}
}
