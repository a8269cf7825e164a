package command

import (
	"encoding/json"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/reqrep"
	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// RemoteService answers RegistrationRequest/AvailableModulesRequest for
// the operator side of the command plane. It sits behind a
// proxy.RequestReplyProxy's backend so many modules can register
// concurrently through a single advertised address.
type RemoteService struct {
	registry *Registry
	reply    *reqrep.Reply
	logger   *ulogging.Logger
	done     chan struct{}
}

// NewRemoteService constructs a RemoteService backed by registry.
func NewRemoteService(registry *Registry, logger *ulogging.Logger) *RemoteService {
	return &RemoteService{registry: registry, reply: reqrep.NewReply(), logger: logger, done: make(chan struct{})}
}

// Start attaches the REP socket at address and begins serving. When
// dialBackend is true, address is treated as a RequestReplyProxy's
// worker-facing DEALER backend (spec §4.7: "a replier attached to the
// dealer side") and the socket dials in rather than binding.
func (s *RemoteService) Start(ctx *messaging.Context, address string, dialBackend bool) error {
	if err := s.reply.Initialize(ctx, messaging.ReplyOptions{Address: address, DialBackend: dialBackend}); err != nil {
		return err
	}
	go func() {
		if err := s.reply.Serve(s.done, s.handle); err != nil && s.logger != nil {
			s.logger.Error("command registration service stopped", err)
		}
	}()
	return nil
}

func (s *RemoteService) handle(request []byte) []byte {
	env, err := wire.DecodeEnvelope(request)
	if err != nil {
		resp, _ := wire.Encode(&wire.RegistrationResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
	switch env.Type {
	case "RegistrationRequest":
		var req wire.RegistrationRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.RegistrationResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(s.handleRegistration(&req))
		return resp
	case "AvailableModulesRequest":
		var req wire.AvailableModulesRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.AvailableModulesResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(s.handleAvailableModules(&req))
		return resp
	default:
		resp, _ := wire.Encode(&wire.RegistrationResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
}

func (s *RemoteService) handleRegistration(req *wire.RegistrationRequest) *wire.RegistrationResponse {
	var err error
	switch req.Action {
	case wire.Register, wire.Heartbeat:
		if req.Action == wire.Register {
			err = s.registry.Register(req.ModuleDetails)
		} else {
			err = s.registry.Heartbeat(req.ModuleDetails.Name)
		}
	case wire.Unregister:
		err = s.registry.Unregister(req.ModuleDetails.Name)
	default:
		return &wire.RegistrationResponse{Identifier: req.Identifier, ReturnCode: wire.InvalidMessage}
	}
	if err != nil {
		if uerrors.Is(err, uerrors.NotFound) {
			return &wire.RegistrationResponse{Identifier: req.Identifier, ReturnCode: wire.NoItem}
		}
		return &wire.RegistrationResponse{Identifier: req.Identifier, ReturnCode: wire.AlgorithmFailure}
	}
	return &wire.RegistrationResponse{Identifier: req.Identifier, ReturnCode: wire.Success}
}

func (s *RemoteService) handleAvailableModules(req *wire.AvailableModulesRequest) *wire.AvailableModulesResponse {
	modules, err := s.registry.List()
	if err != nil {
		return &wire.AvailableModulesResponse{Identifier: req.Identifier, ReturnCode: wire.AlgorithmFailure}
	}
	return &wire.AvailableModulesResponse{Modules: modules, Identifier: req.Identifier, ReturnCode: wire.Success}
}

// Stop terminates the serving goroutine and closes the REP socket.
func (s *RemoteService) Stop() error {
	select {
	case <-s.done:
		return uerrors.New("RemoteService.Stop", uerrors.NotInitialized, "already stopped")
	default:
		close(s.done)
	}
	return s.reply.Close()
}
