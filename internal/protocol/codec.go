package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrEmptyPayload = errors.New("message has no payload")

// Codec turns events into WebSocket frames and back
type Codec interface {
	Name() string

	// Binary reports whether frames must be sent as binary messages
	Binary() bool

	Encode(msgType MessageType, payload interface{}) ([]byte, error)
	Decode(data []byte) (*Message, error)

	unmarshal(data []byte, v interface{}) error
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName returns the codec registered under name ("json" or "msgpack")
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", JSON.Name():
		return JSON, true
	case MsgPack.Name():
		return MsgPack, true
	}
	return nil, false
}

// Message is a decoded envelope whose payload is still in wire form
type Message struct {
	Type    MessageType
	Payload []byte

	codec Codec
}

// DecodePayload unmarshals the payload into v with the codec that read the message
func (m *Message) DecodePayload(v interface{}) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: %w", m.Type, ErrEmptyPayload)
	}
	return m.codec.unmarshal(m.Payload, v)
}

type jsonEnvelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(msgType MessageType, payload interface{}) ([]byte, error) {
	env := jsonEnvelope{Type: msgType}
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = payloadBytes
	}
	return json.Marshal(env)
}

func (c jsonCodec) Decode(data []byte) (*Message, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &Message{Type: env.Type, Payload: env.Payload, codec: c}, nil
}

func (jsonCodec) unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// msgpack frames reuse the json struct tags so both codecs share field names
type msgpackEnvelope struct {
	Type    MessageType        `json:"type"`
	Payload msgpack.RawMessage `json:"payload,omitempty"`
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }

func (c msgpackCodec) Encode(msgType MessageType, payload interface{}) ([]byte, error) {
	env := msgpackEnvelope{Type: msgType}
	if payload != nil {
		payloadBytes, err := c.marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = payloadBytes
	}
	return c.marshal(env)
}

func (c msgpackCodec) Decode(data []byte) (*Message, error) {
	var env msgpackEnvelope
	if err := c.unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &Message{Type: env.Type, Payload: env.Payload, codec: c}, nil
}

func (msgpackCodec) marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
