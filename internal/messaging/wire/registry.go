package wire

// DefaultRegistry builds a Registry with every concrete message type this
// module defines (spec §4.6–§4.8), so a service need not hand-assemble
// one at boot.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("AvailableConnectionsRequest", func() Message { return &AvailableConnectionsRequest{} })
	r.Register("AvailableConnectionsResponse", func() Message { return &AvailableConnectionsResponse{} })
	r.Register("ConnectionDetailsRequest", func() Message { return &ConnectionDetailsRequest{} })
	r.Register("ConnectionDetailsResponse", func() Message { return &ConnectionDetailsResponse{} })

	r.Register("RegistrationRequest", func() Message { return &RegistrationRequest{} })
	r.Register("RegistrationResponse", func() Message { return &RegistrationResponse{} })
	r.Register("AvailableModulesRequest", func() Message { return &AvailableModulesRequest{} })
	r.Register("AvailableModulesResponse", func() Message { return &AvailableModulesResponse{} })
	r.Register("CommandsRequest", func() Message { return &CommandsRequest{} })
	r.Register("AvailableCommandsResponse", func() Message { return &AvailableCommandsResponse{} })
	r.Register("CommandRequest", func() Message { return &CommandRequest{} })
	r.Register("CommandResponse", func() Message { return &CommandResponse{} })
	r.Register("TerminateRequest", func() Message { return &TerminateRequest{} })
	r.Register("TerminateResponse", func() Message { return &TerminateResponse{} })

	r.Register("IncrementRequest", func() Message { return &IncrementRequest{} })
	r.Register("IncrementResponse", func() Message { return &IncrementResponse{} })
	r.Register("ItemsRequest", func() Message { return &ItemsRequest{} })
	r.Register("ItemsResponse", func() Message { return &ItemsResponse{} })

	return r
}
