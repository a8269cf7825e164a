package wire

import "encoding/json"

// AvailableConnectionsRequest asks the operator (C8) for the names of
// every broadcast and service it is tracking.
type AvailableConnectionsRequest struct {
	Identifier uint64 `json:"identifier"`
}

func (m *AvailableConnectionsRequest) Type() string    { return "AvailableConnectionsRequest" }
func (m *AvailableConnectionsRequest) Version() string { return "1.0" }
func (m *AvailableConnectionsRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *AvailableConnectionsRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *AvailableConnectionsRequest) Clone() Message {
	cp := *m
	return &cp
}

// AvailableConnectionsResponse lists every tracked broadcast and service
// name (spec §4.6).
type AvailableConnectionsResponse struct {
	Broadcasts []string   `json:"broadcasts"`
	Services   []string   `json:"services"`
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *AvailableConnectionsResponse) Type() string    { return "AvailableConnectionsResponse" }
func (m *AvailableConnectionsResponse) Version() string { return "1.0" }
func (m *AvailableConnectionsResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *AvailableConnectionsResponse) Deserialize(data []byte) error {
	return json.Unmarshal(data, m)
}
func (m *AvailableConnectionsResponse) Clone() Message {
	cp := *m
	cp.Broadcasts = append([]string(nil), m.Broadcasts...)
	cp.Services = append([]string(nil), m.Services...)
	return &cp
}

// ConnectionDetailsRequest asks for the SocketDetails of a single named
// broadcast or service.
type ConnectionDetailsRequest struct {
	Name       string `json:"name"`
	Identifier uint64 `json:"identifier"`
}

func (m *ConnectionDetailsRequest) Type() string    { return "ConnectionDetailsRequest" }
func (m *ConnectionDetailsRequest) Version() string { return "1.0" }
func (m *ConnectionDetailsRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *ConnectionDetailsRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *ConnectionDetailsRequest) Clone() Message {
	cp := *m
	return &cp
}

// ConnectionDetails is the wire-safe projection of messaging.SocketDetails
// for a single named broadcast or service (spec §4.6).
type ConnectionDetails struct {
	Name                  string `json:"name"`
	Address               string `json:"address"`
	SocketType            string `json:"socket_type"`
	SecurityLevel         string `json:"security_level"`
	MinimumUserPrivileges string `json:"minimum_user_privileges"`
	ConnectOrBind         string `json:"connect_or_bind"`
}

// ConnectionDetailsResponse answers ConnectionDetailsRequest; Found is
// false and ReturnCode is NoItem when no connection has that name.
type ConnectionDetailsResponse struct {
	Details    *ConnectionDetails `json:"details,omitempty"`
	Found      bool               `json:"found"`
	Identifier uint64             `json:"identifier"`
	ReturnCode ReturnCode         `json:"return_code"`
}

func (m *ConnectionDetailsResponse) Type() string    { return "ConnectionDetailsResponse" }
func (m *ConnectionDetailsResponse) Version() string { return "1.0" }
func (m *ConnectionDetailsResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *ConnectionDetailsResponse) Deserialize(data []byte) error {
	return json.Unmarshal(data, m)
}
func (m *ConnectionDetailsResponse) Clone() Message {
	cp := *m
	if m.Details != nil {
		d := *m.Details
		cp.Details = &d
	}
	return &cp
}
