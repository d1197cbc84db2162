// Package protocol implements the binary frames exchanged over a domsync
// sync connection.
//
// The server pushes the script of each update pass in a SyncFrame; the
// client sends a CommandFrame when an element event names a command.
// Failures travel back in an ErrorFrame.
//
// # Wire Format
//
// Every message is framed with a 5-byte header:
//
//	┌─────────────┬───────────────────────────────┐
//	│ Frame Type  │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
//
// Payload fields use unsigned varints (protobuf-style, 7 bits per byte)
// and varint length-prefixed strings. Decoders reject trailing bytes,
// booleans other than 0x00 and 0x01, and lengths past the allocation
// limits.
//
// # Frame Types
//
//   - FrameSync (0x01): Server → client script and timers
//   - FrameCommand (0x02): Client → server command
//   - FrameError (0x03): Server → client failure
//
// # Example
//
//	data := protocol.Marshal(protocol.NewSyncFrame(seq, res))
//	conn.WriteMessage(websocket.BinaryMessage, data)
//
//	msg, err := protocol.Unmarshal(data)
//	if cmd, ok := msg.(*protocol.CommandFrame); ok {
//		// dispatch cmd.Command
//	}
package protocol
