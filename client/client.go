// Package client drives a firmware stream server: it sends motion, key
// and layer frames and reads back the reports the firmware forwards.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/keymap"
	"github.com/Alia5/automouse/wire"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Client is one stream session. Not safe for concurrent writers.
type Client struct {
	conn net.Conn
	cfg  Config
}

// Dial connects to addr with default timeouts.
func Dial(ctx context.Context, addr string) (*Client, error) {
	return DialWithConfig(ctx, addr, nil)
}

// DialWithConfig connects to addr. A nil cfg selects defaults.
func DialWithConfig(ctx context.Context, addr string, cfg *Config) (*Client, error) {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	d := &net.Dialer{Timeout: c.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}
	return &Client{conn: conn, cfg: c}, nil
}

// New wraps an established connection, e.g. one end of net.Pipe.
func New(conn net.Conn) *Client {
	return &Client{conn: conn, cfg: defaultConfig()}
}

// Motion sends one tick of sensor motion. The firmware answers with one
// report; read it with ReadReport.
func (c *Client) Motion(x, y, h, v int16) error {
	return c.send(wire.Motion(mouse.Report{X: x, Y: y, H: h, V: v}))
}

// Key sends a key event. Mouse button keys make the firmware flush a
// report.
func (c *Client) Key(code keymap.Keycode, pressed bool) error {
	return c.send(wire.Key(code, pressed))
}

// Layer sends a layer stack operation.
func (c *Client) Layer(op wire.LayerOp, layer uint8) error {
	return c.send(wire.Layer(op, layer))
}

// ReadReport reads the next report forwarded by the firmware.
func (c *Client) ReadReport() (mouse.Report, error) {
	if c.cfg.ReadTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
	buf := make([]byte, mouse.ReportSize)
	if _, err := io.ReadFull(c.conn, buf); err != nil {
		return mouse.Report{}, fmt.Errorf("read report: %w", err)
	}
	var r mouse.Report
	if err := r.UnmarshalBinary(buf); err != nil {
		return mouse.Report{}, err
	}
	return r, nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) send(f wire.Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if _, err := c.conn.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
