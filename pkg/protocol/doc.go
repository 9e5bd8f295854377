// Package protocol implements the binary wire protocol between a remote
// host and its thin browser client.
//
// The server owns the element handles. Every host call the binder makes on
// a remote host becomes one Op; the ops of a render pass are flushed as one
// or more FrameOps frames, the last one flagged FlagFinal. The client reports
// widget events back in FrameEvent frames.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameOps (0x01): Server → Client host operations
//   - FrameEvent (0x02): Client → Server widget events
//   - FrameControl (0x03): Ping, pong, close
//   - FrameError (0x04): Error report
//
// # Encoding
//
//   - Varint: compact encoding for element handles and lengths
//   - Length-prefixed: strings and JSON details carry a varint length
//   - Big-endian: fixed-width integers (uint16, uint64)
//
// # Ops
//
// An op batch is a varint count followed by that many ops. Each op starts
// with its kind byte and the element handle:
//
//	SetAttr: [0x02][Element: varint][Key: len-prefixed][Value: len-prefixed]
//	Append:  [0x05][Child: varint][Parent: varint]
//
// Parent 0 is the document root.
package protocol
