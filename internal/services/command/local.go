package command

import (
	"encoding/json"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/reqrep"
	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// Callbacks are the module-supplied handlers a LocalService dispatches
// to. Terminate is started in its own goroutine when a TerminateRequest is
// handled, before the TerminateResponse is returned for sending; it is
// not ordered after the send.
type Callbacks struct {
	Help      func() string
	Execute   func(command string) string
	Terminate func()
}

// LocalService exposes a module's own command socket (spec §4.7): a
// local REP endpoint (typically ipc:// or inproc://) any operator tool
// can address directly without going through the remote registry.
type LocalService struct {
	callbacks Callbacks
	reply     *reqrep.Reply
	logger    *ulogging.Logger
	done      chan struct{}
}

// NewLocalService constructs a LocalService dispatching to callbacks.
func NewLocalService(callbacks Callbacks, logger *ulogging.Logger) *LocalService {
	return &LocalService{callbacks: callbacks, reply: reqrep.NewReply(), logger: logger, done: make(chan struct{})}
}

// Start binds the REP socket at address and begins serving.
func (s *LocalService) Start(ctx *messaging.Context, address string) error {
	if err := s.reply.Initialize(ctx, messaging.ReplyOptions{Address: address}); err != nil {
		return err
	}
	go func() {
		if err := s.reply.Serve(s.done, s.handle); err != nil && s.logger != nil {
			s.logger.Error("local command service stopped", err)
		}
	}()
	return nil
}

func (s *LocalService) handle(request []byte) []byte {
	env, err := wire.DecodeEnvelope(request)
	if err != nil {
		resp, _ := wire.Encode(&wire.CommandResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
	switch env.Type {
	case "CommandsRequest":
		var req wire.CommandsRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.AvailableCommandsResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		help := ""
		if s.callbacks.Help != nil {
			help = s.callbacks.Help()
		}
		resp, _ := wire.Encode(&wire.AvailableCommandsResponse{Commands: help, Identifier: req.Identifier, ReturnCode: wire.Success})
		return resp
	case "CommandRequest":
		var req wire.CommandRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.CommandResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		result := ""
		if s.callbacks.Execute != nil {
			result = s.callbacks.Execute(req.Command)
		}
		resp, _ := wire.Encode(&wire.CommandResponse{Result: result, Identifier: req.Identifier, ReturnCode: wire.Success})
		return resp
	case "TerminateRequest":
		var req wire.TerminateRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.TerminateResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(&wire.TerminateResponse{Identifier: req.Identifier, ReturnCode: wire.Success})
		if s.callbacks.Terminate != nil {
			go s.callbacks.Terminate()
		}
		return resp
	default:
		resp, _ := wire.Encode(&wire.CommandResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
}

// Stop terminates the serving goroutine and closes the REP socket.
func (s *LocalService) Stop() error {
	select {
	case <-s.done:
		return uerrors.New("LocalService.Stop", uerrors.NotInitialized, "already stopped")
	default:
		close(s.done)
	}
	return s.reply.Close()
}
