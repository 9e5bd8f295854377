package protocol

import (
	"encoding/json"

	"github.com/vango-dev/widgetkit/internal/errors"
)

// Event is a widget event reported by the client, such as a popover
// finishing its show transition.
type Event struct {
	Element uint64
	Name    string
	Detail  json.RawMessage
}

// EncodeEvent encodes an event: [Element: varint][Name][Detail].
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Element)
	e.WriteString(ev.Name)
	e.WriteLenBytes(ev.Detail)
	return e.Bytes()
}

// DecodeEvent decodes an event written by EncodeEvent.
func DecodeEvent(payload []byte) (*Event, error) {
	d := NewDecoder(payload)
	var ev Event
	var err error
	if ev.Element, err = d.ReadUvarint(); err != nil {
		return nil, errors.New("W401").Wrap(err)
	}
	if ev.Name, err = d.ReadString(); err != nil {
		return nil, errors.New("W401").Wrap(err)
	}
	detail, err := d.ReadLenBytes()
	if err != nil {
		return nil, errors.New("W401").Wrap(err)
	}
	if len(detail) > 0 {
		if !json.Valid(detail) {
			return nil, errors.New("W401").WithDetail("event detail is not valid JSON")
		}
		ev.Detail = detail
	}
	return &ev, nil
}

// ErrorMessage is the payload of a FrameError.
type ErrorMessage struct {
	Code    string
	Message string
}

// EncodeError encodes an error message.
func EncodeError(msg *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(msg.Code)
	e.WriteString(msg.Message)
	return e.Bytes()
}

// DecodeError decodes an error message.
func DecodeError(payload []byte) (*ErrorMessage, error) {
	d := NewDecoder(payload)
	code, err := d.ReadString()
	if err != nil {
		return nil, errors.New("W401").Wrap(err)
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, errors.New("W401").Wrap(err)
	}
	return &ErrorMessage{Code: code, Message: message}, nil
}
