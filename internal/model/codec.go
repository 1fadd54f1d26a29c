package model

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ParseClientMessage decodes an inbound frame into one of the request
// structs, dispatching on the "type" field. An unknown or missing type is a
// protocol error.
func ParseClientMessage(raw []byte) (any, error) {
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	msgType, ok := envelope["type"].(string)
	if !ok {
		return nil, fmt.Errorf("message has no type field")
	}

	switch msgType {
	case "CreateRoom":
		return decodeEnvelope[CreateRoom](envelope)
	case "JoinRoom":
		return decodeEnvelope[JoinRoom](envelope)
	case "RejoinRoom":
		return decodeEnvelope[RejoinRoom](envelope)
	case "PlayerReady":
		return decodeEnvelope[PlayerReady](envelope)
	case "PlayerAnswer":
		return decodeEnvelope[PlayerAnswer](envelope)
	default:
		return nil, fmt.Errorf("unrecognized message type %q", msgType)
	}
}

func decodeEnvelope[T any](envelope map[string]any) (T, error) {
	var target T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &target,
	})
	if err != nil {
		return target, err
	}

	if err := decoder.Decode(envelope); err != nil {
		return target, fmt.Errorf("malformed %T message: %w", target, err)
	}

	return target, nil
}

// MarshalServerMessage encodes an outbound message with its "type"
// discriminator injected next to the payload fields.
func MarshalServerMessage(msg ServerMessage) ([]byte, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	flat := map[string]any{}
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}

	flat["type"] = msg.MessageType()
	return json.Marshal(flat)
}
