package incrementer

import (
	"encoding/json"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/reqrep"
	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// Service answers IncrementRequest/ItemsRequest over a REP socket backed
// by a Counter.
type Service struct {
	counter *Counter
	reply   *reqrep.Reply
	logger  *ulogging.Logger
	done    chan struct{}
}

// NewService constructs a Service backed by counter.
func NewService(counter *Counter, logger *ulogging.Logger) *Service {
	return &Service{counter: counter, reply: reqrep.NewReply(), logger: logger, done: make(chan struct{})}
}

// Start attaches the REP socket at address and begins serving. When
// dialBackend is true, address is treated as a RequestReplyProxy's
// worker-facing DEALER backend (spec §4.8: "a replier behind a
// ROUTER/DEALER proxy") and the socket dials in rather than binding.
func (s *Service) Start(ctx *messaging.Context, address string, dialBackend bool) error {
	if err := s.reply.Initialize(ctx, messaging.ReplyOptions{Address: address, DialBackend: dialBackend}); err != nil {
		return err
	}
	go func() {
		if err := s.reply.Serve(s.done, s.handle); err != nil && s.logger != nil {
			s.logger.Error("incrementer service stopped", err)
		}
	}()
	return nil
}

func (s *Service) handle(request []byte) []byte {
	env, err := wire.DecodeEnvelope(request)
	if err != nil {
		resp, _ := wire.Encode(&wire.IncrementResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
	switch env.Type {
	case "IncrementRequest":
		var req wire.IncrementRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.IncrementResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(s.handleIncrement(&req))
		return resp
	case "ItemsRequest":
		var req wire.ItemsRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			resp, _ := wire.Encode(&wire.ItemsResponse{ReturnCode: wire.InvalidMessage})
			return resp
		}
		resp, _ := wire.Encode(s.handleItems(&req))
		return resp
	default:
		resp, _ := wire.Encode(&wire.IncrementResponse{ReturnCode: wire.InvalidMessage})
		return resp
	}
}

// handleIncrement answers an IncrementRequest. The incrementer's return
// code set is {Success, InvalidMessage, AlgorithmFailure} (spec §4.8) —
// unlike the operator's connection-info service, there is no NoItem code,
// so an unknown item also reports AlgorithmFailure.
func (s *Service) handleIncrement(req *wire.IncrementRequest) *wire.IncrementResponse {
	value, err := s.counter.GetNextValue(req.Item)
	if err != nil {
		return &wire.IncrementResponse{Identifier: req.Identifier, ReturnCode: wire.AlgorithmFailure}
	}
	return &wire.IncrementResponse{Value: &value, Identifier: req.Identifier, ReturnCode: wire.Success}
}

func (s *Service) handleItems(req *wire.ItemsRequest) *wire.ItemsResponse {
	items, err := s.counter.GetItems()
	if err != nil {
		return &wire.ItemsResponse{Identifier: req.Identifier, ReturnCode: wire.AlgorithmFailure}
	}
	return &wire.ItemsResponse{Items: items, Identifier: req.Identifier, ReturnCode: wire.Success}
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
