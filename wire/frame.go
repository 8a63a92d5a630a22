// Package wire defines the frames exchanged with the firmware emulation
// server.
//
// Client to server: fixed 10-byte frames, a kind byte followed by a 9-byte
// payload.
//
//	KindMotion: payload is a mouse.Report (buttons ignored)
//	KindKey:    keycode u16 LE, pressed u8, 6 bytes zero
//	KindLayer:  op u8 (LayerOff, LayerOn, LayerToggle), layer u8, 7 bytes zero
//
// Server to client: 9-byte mouse.Report frames, one per motion frame and
// one per out-of-band button flush.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/keymap"
)

// FrameSize is the size of a client frame.
const FrameSize = 1 + mouse.ReportSize

// ErrBadFrame is returned for frames with an unknown kind or operation.
var ErrBadFrame = errors.New("wire: bad frame")

// Kind tags a client frame.
type Kind uint8

const (
	KindMotion Kind = 0x01
	KindKey    Kind = 0x02
	KindLayer  Kind = 0x03
)

// LayerOp is a layer stack operation.
type LayerOp uint8

const (
	LayerOff LayerOp = iota
	LayerOn
	LayerToggle
)

// Frame is one decoded client frame. Only the fields for Kind are used.
type Frame struct {
	Kind    Kind
	Motion  mouse.Report
	Key     keymap.Keycode
	Pressed bool
	Op      LayerOp
	Layer   uint8
}

// Motion returns a motion frame.
func Motion(r mouse.Report) Frame { return Frame{Kind: KindMotion, Motion: r} }

// Key returns a key frame.
func Key(code keymap.Keycode, pressed bool) Frame {
	return Frame{Kind: KindKey, Key: code, Pressed: pressed}
}

// Layer returns a layer frame.
func Layer(op LayerOp, layer uint8) Frame { return Frame{Kind: KindLayer, Op: op, Layer: layer} }

// MarshalBinary encodes f into FrameSize bytes.
func (f Frame) MarshalBinary() ([]byte, error) {
	b := make([]byte, FrameSize)
	b[0] = byte(f.Kind)
	switch f.Kind {
	case KindMotion:
		m := f.Motion
		m.Buttons = 0
		p, err := m.MarshalBinary()
		if err != nil {
			return nil, err
		}
		copy(b[1:], p)
	case KindKey:
		binary.LittleEndian.PutUint16(b[1:], uint16(f.Key))
		if f.Pressed {
			b[3] = 1
		}
	case KindLayer:
		if f.Op > LayerToggle {
			return nil, fmt.Errorf("%w: layer op %d", ErrBadFrame, f.Op)
		}
		b[1] = byte(f.Op)
		b[2] = f.Layer
	default:
		return nil, fmt.Errorf("%w: kind 0x%02x", ErrBadFrame, byte(f.Kind))
	}
	return b, nil
}

// UnmarshalBinary decodes a FrameSize-byte frame.
func (f *Frame) UnmarshalBinary(b []byte) error {
	if len(b) < FrameSize {
		return io.ErrUnexpectedEOF
	}
	*f = Frame{Kind: Kind(b[0])}
	switch f.Kind {
	case KindMotion:
		if err := f.Motion.UnmarshalBinary(b[1:]); err != nil {
			return err
		}
		f.Motion.Buttons = 0
	case KindKey:
		f.Key = keymap.Keycode(binary.LittleEndian.Uint16(b[1:]))
		f.Pressed = b[3] != 0
	case KindLayer:
		f.Op = LayerOp(b[1])
		f.Layer = b[2]
		if f.Op > LayerToggle {
			return fmt.Errorf("%w: layer op %d", ErrBadFrame, f.Op)
		}
	default:
		return fmt.Errorf("%w: kind 0x%02x", ErrBadFrame, b[0])
	}
	return nil
}

// ReadFrame reads one client frame from r.
func ReadFrame(r io.Reader) (Frame, []byte, error) {
	buf := make([]byte, FrameSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Frame{}, nil, err
	}
	var f Frame
	if err := f.UnmarshalBinary(buf); err != nil {
		return Frame{}, buf, err
	}
	return f, buf, nil
}
