package wire

import "encoding/json"

// Envelope frames a Message with its type tag so that a single socket can
// multiplex several request/response types (spec §4.6–§4.8).
type Envelope struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Encode wraps msg in an Envelope and serializes it.
func Encode(msg Message) ([]byte, error) {
	body, err := msg.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msg.Type(), Body: body})
}

// DecodeEnvelope splits payload into its type tag and raw body without
// needing a Registry.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(payload, &env)
	return env, err
}

// Decode decodes payload's envelope and deserializes its body via r.
func Decode(r *Registry, payload []byte) (Message, error) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	return r.Deserialize(env.Type, env.Body)
}
