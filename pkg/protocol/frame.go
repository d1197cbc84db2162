package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 5

	// MaxPayloadSize is the largest payload a frame may carry (8MB).
	MaxPayloadSize = 8 * 1024 * 1024
)

// FrameType identifies the message a frame carries.
type FrameType uint8

const (
	FrameSync    FrameType = 0x01 // Server → client update script
	FrameCommand FrameType = 0x02 // Client → server command
	FrameError   FrameType = 0x03 // Server → client failure
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameSync:
		return "Sync"
	case FrameCommand:
		return "Command"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a typed, length-prefixed payload.
//
// Wire format (5 bytes header + variable payload):
//
//	┌─────────────┬───────────────────────────────┐
//	│ Frame Type  │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
//	│  Payload (variable length)                  │
//	└─────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Payload []byte
}

// Encode encodes the frame including its header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	e.WriteByte(byte(f.Type))
	e.WriteUint32(uint32(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.buf
}

// DecodeFrame decodes exactly one frame from data.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	ft, length, err := readHeader(d)
	if err != nil {
		return nil, err
	}
	if d.Remaining() < length {
		return nil, io.ErrUnexpectedEOF
	}
	if d.Remaining() > length {
		return nil, ErrTrailingData
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{Type: ft, Payload: payload}, nil
}

func readHeader(d *Decoder) (FrameType, int, error) {
	t, err := d.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	ft := FrameType(t)
	if ft.String() == "Unknown" {
		return 0, 0, ErrInvalidFrameType
	}
	length, err := d.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	if length > MaxPayloadSize {
		return 0, 0, ErrFrameTooLarge
	}
	return ft, int(length), nil
}

// ReadFrame reads one frame from a stream.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, length, err := readHeader(NewDecoder(header))
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return &Frame{Type: ft, Payload: payload}, nil
}

// WriteFrame writes one frame to a stream.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
