package wire

import "encoding/json"

// ModuleDetails is the canonical module-identity record shared by the
// local command plane and the remote ROUTER/DEALER registration handshake
// (spec §4.7: the original's duplicated per-transport module-info
// namespaces are collapsed into one type here).
type ModuleDetails struct {
	Name              string `json:"name"`
	PingIntervalMS    int64  `json:"ping_interval_ms"`
	RoutingIdentifier string `json:"routing_identifier,omitempty"`
}

// RegistrationAction enumerates what a RegistrationRequest asks the
// operator to do with the accompanying ModuleDetails.
type RegistrationAction int

const (
	Register RegistrationAction = iota
	Unregister
	Heartbeat
)

func (a RegistrationAction) String() string {
	switch a {
	case Register:
		return "Register"
	case Unregister:
		return "Unregister"
	case Heartbeat:
		return "Heartbeat"
	default:
		return "Unknown"
	}
}

// RegistrationRequest registers, unregisters, or heartbeats a module with
// the command plane's remote registry (spec §4.7).
type RegistrationRequest struct {
	ModuleDetails ModuleDetails      `json:"module_details"`
	Action        RegistrationAction `json:"action"`
	Identifier    uint64             `json:"identifier"`
}

func (m *RegistrationRequest) Type() string    { return "RegistrationRequest" }
func (m *RegistrationRequest) Version() string { return "1.0" }
func (m *RegistrationRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *RegistrationRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *RegistrationRequest) Clone() Message {
	cp := *m
	return &cp
}

// RegistrationResponse acknowledges a RegistrationRequest.
type RegistrationResponse struct {
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *RegistrationResponse) Type() string    { return "RegistrationResponse" }
func (m *RegistrationResponse) Version() string { return "1.0" }
func (m *RegistrationResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *RegistrationResponse) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *RegistrationResponse) Clone() Message {
	cp := *m
	return &cp
}

// AvailableModulesRequest asks the registry for every module currently
// registered (spec §4.7).
type AvailableModulesRequest struct {
	Identifier uint64 `json:"identifier"`
}

func (m *AvailableModulesRequest) Type() string    { return "AvailableModulesRequest" }
func (m *AvailableModulesRequest) Version() string { return "1.0" }
func (m *AvailableModulesRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *AvailableModulesRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *AvailableModulesRequest) Clone() Message {
	cp := *m
	return &cp
}

// AvailableModulesResponse lists every registered module.
type AvailableModulesResponse struct {
	Modules    []ModuleDetails `json:"modules"`
	Identifier uint64          `json:"identifier"`
	ReturnCode ReturnCode      `json:"return_code"`
}

func (m *AvailableModulesResponse) Type() string    { return "AvailableModulesResponse" }
func (m *AvailableModulesResponse) Version() string { return "1.0" }
func (m *AvailableModulesResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *AvailableModulesResponse) Deserialize(data []byte) error {
	return json.Unmarshal(data, m)
}
func (m *AvailableModulesResponse) Clone() Message {
	cp := *m
	cp.Modules = append([]ModuleDetails(nil), m.Modules...)
	return &cp
}

// CommandsRequest asks a module's local command socket for the commands
// it understands (spec §4.7).
type CommandsRequest struct {
	Identifier uint64 `json:"identifier"`
}

func (m *CommandsRequest) Type() string    { return "CommandsRequest" }
func (m *CommandsRequest) Version() string { return "1.0" }
func (m *CommandsRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *CommandsRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *CommandsRequest) Clone() Message {
	cp := *m
	return &cp
}

// AvailableCommandsResponse is free-form help text describing the
// commands a module accepts.
type AvailableCommandsResponse struct {
	Commands   string     `json:"commands"`
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *AvailableCommandsResponse) Type() string    { return "AvailableCommandsResponse" }
func (m *AvailableCommandsResponse) Version() string { return "1.0" }
func (m *AvailableCommandsResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *AvailableCommandsResponse) Deserialize(data []byte) error {
	return json.Unmarshal(data, m)
}
func (m *AvailableCommandsResponse) Clone() Message {
	cp := *m
	return &cp
}

// CommandRequest sends free-form command text to a module (spec §4.7).
type CommandRequest struct {
	Command    string `json:"command"`
	Identifier uint64 `json:"identifier"`
}

func (m *CommandRequest) Type() string    { return "CommandRequest" }
func (m *CommandRequest) Version() string { return "1.0" }
func (m *CommandRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *CommandRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *CommandRequest) Clone() Message {
	cp := *m
	return &cp
}

// CommandResponse carries the free-form result text of a CommandRequest.
type CommandResponse struct {
	Result     string     `json:"result"`
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *CommandResponse) Type() string    { return "CommandResponse" }
func (m *CommandResponse) Version() string { return "1.0" }
func (m *CommandResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *CommandResponse) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *CommandResponse) Clone() Message {
	cp := *m
	return &cp
}

// TerminateRequest asks a module to shut down (spec §4.7).
type TerminateRequest struct {
	Identifier uint64 `json:"identifier"`
}

func (m *TerminateRequest) Type() string    { return "TerminateRequest" }
func (m *TerminateRequest) Version() string { return "1.0" }
func (m *TerminateRequest) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *TerminateRequest) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *TerminateRequest) Clone() Message {
	cp := *m
	return &cp
}

// TerminateResponse acknowledges a TerminateRequest.
type TerminateResponse struct {
	Identifier uint64     `json:"identifier"`
	ReturnCode ReturnCode `json:"return_code"`
}

func (m *TerminateResponse) Type() string    { return "TerminateResponse" }
func (m *TerminateResponse) Version() string { return "1.0" }
func (m *TerminateResponse) Serialize() ([]byte, error) { return json.Marshal(m) }
func (m *TerminateResponse) Deserialize(data []byte) error { return json.Unmarshal(data, m) }
func (m *TerminateResponse) Clone() Message {
	cp := *m
	return &cp
}
