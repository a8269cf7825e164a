package wire

import "encoding/json"

// IncrementRequest asks the incrementer (C10) for the next value of item
// (spec §4.8). identifier correlates the reply on the shared reply socket.
type IncrementRequest struct {
	Item       string `json:"item"`
	Identifier uint64 `json:"identifier"`
}

func (m *IncrementRequest) Type() string    { return "IncrementRequest" }
func (m *IncrementRequest) Version() string { return "1.0" }
func (m *IncrementRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *IncrementRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *IncrementRequest) Clone() Message {
	cp := *m
	return &cp
}

// IncrementResponse carries the next value for the requested item. Value
// is nil when ReturnCode is not Success (spec §4.8's "value: i64?").
type IncrementResponse struct {
	Value      *int64     `json:"value,omitempty"`
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *IncrementResponse) Type() string    { return "IncrementResponse" }
func (m *IncrementResponse) Version() string { return "1.0" }
func (m *IncrementResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *IncrementResponse) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *IncrementResponse) Clone() Message {
	cp := *m
	if m.Value != nil {
		v := *m.Value
		cp.Value = &v
	}
	return &cp
}

// ItemsRequest asks the incrementer for every item it tracks counters for.
type ItemsRequest struct {
	Identifier uint64 `json:"identifier"`
}

func (m *ItemsRequest) Type() string    { return "ItemsRequest" }
func (m *ItemsRequest) Version() string { return "1.0" }
func (m *ItemsRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *ItemsRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *ItemsRequest) Clone() Message {
	cp := *m
	return &cp
}

// ItemsResponse enumerates every tracked item name (spec §4.8's
// "items: Set<String>" — represented here as a slice since JSON has no
// native set type; callers that need set semantics dedupe on receipt).
type ItemsResponse struct {
	Items      []string   `json:"items"`
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *ItemsResponse) Type() string    { return "ItemsResponse" }
func (m *ItemsResponse) Version() string { return "1.0" }
func (m *ItemsResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *ItemsResponse) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *ItemsResponse) Clone() Message {
	cp := *m
	cp.Items = append([]string(nil), m.Items...)
	return &cp
}
