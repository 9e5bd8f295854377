package protocol

import (
	"encoding/json"

	"github.com/vango-dev/widgetkit/internal/errors"
)

// OpKind is the kind of a host operation.
type OpKind uint8

const (
	OpCreate     OpKind = 0x01 // [Element][Name: tag]
	OpSetAttr    OpKind = 0x02 // [Element][Name: key][Value]
	OpRemoveAttr OpKind = 0x03 // [Element][Name: key]
	OpSetText    OpKind = 0x04 // [Element][Value: text]
	OpAppend     OpKind = 0x05 // [Element: child][Parent]
	OpRemove     OpKind = 0x06 // [Element]
	OpDispatch   OpKind = 0x07 // [Element][Name: event][Detail: JSON]
)

// String returns the op kind name.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "Create"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetText:
		return "SetText"
	case OpAppend:
		return "Append"
	case OpRemove:
		return "Remove"
	case OpDispatch:
		return "Dispatch"
	default:
		return "Unknown"
	}
}

// Op is one host operation. Element handles are assigned by the server and
// are never reused within a session; 0 denotes the document root.
type Op struct {
	Kind    OpKind
	Element uint64
	Parent  uint64
	Name    string
	Value   string
	Detail  json.RawMessage
}

// EncodeOp appends a single op to e.
func EncodeOp(e *Encoder, op *Op) {
	e.WriteByte(byte(op.Kind))
	e.WriteUvarint(op.Element)

	switch op.Kind {
	case OpCreate, OpRemoveAttr:
		e.WriteString(op.Name)
	case OpSetAttr:
		e.WriteString(op.Name)
		e.WriteString(op.Value)
	case OpSetText:
		e.WriteString(op.Value)
	case OpAppend:
		e.WriteUvarint(op.Parent)
	case OpDispatch:
		e.WriteString(op.Name)
		e.WriteLenBytes(op.Detail)
	}
}

// DecodeOp reads a single op from d.
func DecodeOp(d *Decoder) (Op, error) {
	var op Op
	kind, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Kind = OpKind(kind)
	if op.Element, err = d.ReadUvarint(); err != nil {
		return op, err
	}

	switch op.Kind {
	case OpCreate, OpRemoveAttr:
		op.Name, err = d.ReadString()
	case OpSetAttr:
		if op.Name, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}
	case OpSetText:
		op.Value, err = d.ReadString()
	case OpAppend:
		op.Parent, err = d.ReadUvarint()
	case OpRemove:
	case OpDispatch:
		if op.Name, err = d.ReadString(); err == nil {
			var detail []byte
			detail, err = d.ReadLenBytes()
			if len(detail) > 0 {
				op.Detail = detail
			}
		}
	default:
		return op, errors.New("W402").WithDetail("op kind " + op.Kind.String())
	}
	return op, err
}

// EncodeOps encodes a batch: [Count: varint][Op]...
func EncodeOps(ops []Op) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(len(ops)))
	for i := range ops {
		EncodeOp(e, &ops[i])
	}
	return e.Bytes()
}

// DecodeOps decodes a batch written by EncodeOps.
func DecodeOps(payload []byte) ([]Op, error) {
	d := NewDecoder(payload)
	count, err := d.ReadCount()
	if err != nil {
		return nil, errors.New("W401").Wrap(err)
	}
	ops := make([]Op, 0, count)
	for i := 0; i < count; i++ {
		op, err := DecodeOp(d)
		if err != nil {
			return nil, errors.FromError(err, "W401")
		}
		ops = append(ops, op)
	}
	if !d.EOF() {
		return nil, errors.New("W401").WithDetail("trailing bytes after op batch")
	}
	return ops, nil
}

// OpFrames packs ops into as few FrameOps frames as fit MaxPayloadSize. The
// last frame carries FlagFinal. An empty batch yields one empty final frame.
func OpFrames(ops []Op) ([]*Frame, error) {
	var frames []*Frame
	var batch [][]byte
	size := 0

	flush := func() {
		e := NewEncoder()
		e.WriteUvarint(uint64(len(batch)))
		for _, b := range batch {
			e.WriteBytes(b)
		}
		payload := make([]byte, e.Len())
		copy(payload, e.Bytes())
		frames = append(frames, NewFrame(FrameOps, payload))
		batch, size = nil, 0
	}

	for i := range ops {
		e := NewEncoder()
		EncodeOp(e, &ops[i])
		b := e.Bytes()
		if len(b)+UvarintLen(1) > MaxPayloadSize {
			return nil, ErrFrameTooLarge
		}
		if len(batch) > 0 && size+len(b)+UvarintLen(uint64(len(batch)+1)) > MaxPayloadSize {
			flush()
		}
		batch = append(batch, b)
		size += len(b)
	}
	if len(batch) > 0 || len(frames) == 0 {
		flush()
	}
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}
