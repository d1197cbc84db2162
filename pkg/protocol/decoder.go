package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	// MaxStringSize bounds a decoded string (4MB).
	MaxStringSize = 4 << 20

	// MaxCollectionCount bounds the length of a decoded list.
	MaxCollectionCount = 100_000
)

var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidBool        = errors.New("protocol: invalid boolean value")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
	ErrTrailingData       = errors.New("protocol: trailing data after message")
)

// Decoder consumes wire values from the front of a byte slice. Reads
// past the end fail with io.ErrUnexpectedEOF and consume nothing.
type Decoder struct {
	rest []byte
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{rest: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.rest) }

// Finish fails with ErrTrailingData unless every byte was consumed.
func (d *Decoder) Finish() error {
	if len(d.rest) > 0 {
		return ErrTrailingData
	}
	return nil
}

func (d *Decoder) take(n int) ([]byte, error) {
	if n > len(d.rest) {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.rest[:n:n]
	d.rest = d.rest[n:]
	return b, nil
}

func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUvarint reads a LEB128 unsigned varint of at most 64 bits.
func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.rest)
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.rest = d.rest[n:]
	return v, nil
}

// ReadString reads a varint length followed by that many bytes.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if n > MaxStringSize {
		return "", ErrAllocationTooLarge
	}
	if n > uint64(len(d.rest)) {
		return "", io.ErrUnexpectedEOF
	}
	b, _ := d.take(int(n))
	return string(b), nil
}

// ReadBool accepts 0x00 and 0x01 only.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, ErrInvalidBool
	}
	return b == 1, nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadCount reads a list length. Every item takes at least one byte, so a
// count larger than what is left fails before anything is allocated.
func (d *Decoder) ReadCount() (int, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	if n > uint64(len(d.rest)) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}
