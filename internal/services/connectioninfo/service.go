package connectioninfo

import (
	"encoding/json"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/reqrep"
	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// Service answers operator connection-info requests over a REP socket.
type Service struct {
	registry *Registry
	reply    *reqrep.Reply
	logger   *ulogging.Logger
	done     chan struct{}
}

// NewService constructs a Service backed by registry.
func NewService(registry *Registry, logger *ulogging.Logger) *Service {
	return &Service{registry: registry, reply: reqrep.NewReply(), logger: logger, done: make(chan struct{})}
}

// Start binds the REP socket at address and begins serving in a
// background goroutine.
func (s *Service) Start(ctx *messaging.Context, address string) error {
	if err := s.reply.Initialize(ctx, messaging.ReplyOptions{Address: address}); err != nil {
		return err
	}
	go func() {
		if err := s.reply.Serve(s.done, s.handle); err != nil && s.logger != nil {
			s.logger.Error("connection info service stopped", err)
		}
	}()
	return nil
}

func (s *Service) handle(request []byte) []byte {
	env, err := wire.DecodeEnvelope(request)
	if err != nil {
		resp, _ := wire.Encode(&wire.AvailableConnectionsResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
	switch env.Type {
	case "AvailableConnectionsRequest":
		var req wire.AvailableConnectionsRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.AvailableConnectionsResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(s.registry.HandleAvailableConnections(&req))
		return resp
	case "ConnectionDetailsRequest":
		var req wire.ConnectionDetailsRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.ConnectionDetailsResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(s.registry.HandleConnectionDetails(&req))
		return resp
	default:
		resp, _ := wire.Encode(&wire.ConnectionDetailsResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
}

// Stop terminates the serving goroutine and closes the REP socket.
func (s *Service) Stop() error {
	select {
	case <-s.done:
		return uerrors.New("Service.Stop", uerrors.NotInitialized, "already stopped")
	default:
		close(s.done)
	}
	return s.reply.Close()
}
