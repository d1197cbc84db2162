package protocol

import (
	"sort"
	"time"

	"github.com/vango-dev/domsync/pkg/dom"
)

// Message is a frame payload.
type Message interface {
	FrameType() FrameType
	encode(e *Encoder)
}

// Timer asks the client to fire a command at an element after Interval,
// repeatedly when Repeat is set.
type Timer struct {
	ID       string
	Interval time.Duration
	Repeat   bool
}

// SyncFrame carries one update pass to the client. The client runs Script
// and then starts Timers. Seq increases by one per frame of a session.
type SyncFrame struct {
	Seq    uint64
	Script string
	Timers []Timer
}

// NewSyncFrame converts a pass result into a frame.
func NewSyncFrame(seq uint64, res dom.Result) *SyncFrame {
	f := &SyncFrame{Seq: seq, Script: res.Script}
	for _, t := range res.Timers {
		f.Timers = append(f.Timers, Timer{ID: t.ID, Interval: t.Interval, Repeat: t.Repeat})
	}
	return f
}

// FrameType implements Message.
func (*SyncFrame) FrameType() FrameType { return FrameSync }

// Wire format:
//
//	[Seq: varint][Script: string][Count: varint]
//	  ([ID: string][Millis: varint][Repeat: bool])*
func (f *SyncFrame) encode(e *Encoder) {
	e.WriteUvarint(f.Seq)
	e.WriteString(f.Script)
	e.WriteUvarint(uint64(len(f.Timers)))
	for _, t := range f.Timers {
		e.WriteString(t.ID)
		e.WriteUvarint(uint64(t.Interval / time.Millisecond))
		e.WriteBool(t.Repeat)
	}
}

func decodeSync(d *Decoder) (*SyncFrame, error) {
	var f SyncFrame
	var err error
	if f.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if f.Script, err = d.ReadString(); err != nil {
		return nil, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		f.Timers = make([]Timer, n)
	}
	for i := range f.Timers {
		t := &f.Timers[i]
		if t.ID, err = d.ReadString(); err != nil {
			return nil, err
		}
		ms, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		t.Interval = time.Duration(ms) * time.Millisecond
		if t.Repeat, err = d.ReadBool(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// CommandFrame is a client round trip: the command bound to an element's
// event, with the values of the form fields the client reports.
// Ack is the Seq of the last sync frame the client applied.
type CommandFrame struct {
	Ack     uint64
	Target  string
	Command string
	Values  map[string]string
}

// FrameType implements Message.
func (*CommandFrame) FrameType() FrameType { return FrameCommand }

// Wire format:
//
//	[Ack: varint][Target: string][Command: string][Count: varint]
//	  ([Name: string][Value: string])*
//
// Values are written in name order.
func (f *CommandFrame) encode(e *Encoder) {
	e.WriteUvarint(f.Ack)
	e.WriteString(f.Target)
	e.WriteString(f.Command)
	names := make([]string, 0, len(f.Values))
	for name := range f.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	e.WriteUvarint(uint64(len(names)))
	for _, name := range names {
		e.WriteString(name)
		e.WriteString(f.Values[name])
	}
}

func decodeCommand(d *Decoder) (*CommandFrame, error) {
	var f CommandFrame
	var err error
	if f.Ack, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if f.Target, err = d.ReadString(); err != nil {
		return nil, err
	}
	if f.Command, err = d.ReadString(); err != nil {
		return nil, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		f.Values = make(map[string]string, n)
	}
	for i := 0; i < n; i++ {
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		value, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		f.Values[name] = value
	}
	return &f, nil
}

// Marshal encodes m as a complete frame.
func Marshal(m Message) []byte {
	e := NewEncoder()
	m.encode(e)
	f := Frame{Type: m.FrameType(), Payload: e.Bytes()}
	return f.Encode()
}

// Unmarshal decodes one complete frame into its message. The result is a
// *SyncFrame, *CommandFrame or *ErrorFrame.
func Unmarshal(data []byte) (Message, error) {
	f, err := DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	d := NewDecoder(f.Payload)
	var m Message
	switch f.Type {
	case FrameSync:
		m, err = decodeSync(d)
	case FrameCommand:
		m, err = decodeCommand(d)
	case FrameError:
		m, err = decodeError(d)
	default:
		return nil, ErrInvalidFrameType
	}
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return m, nil
}
