package proxy

import (
	"sync"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/routerdealer"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// RequestReplyProxy relays between a client-facing ROUTER (where
// requestors connect with REQ/DEALER sockets) and a worker-facing DEALER
// that load-balances among connecting REP workers (spec §4.5: "Frontend
// is ROUTER ..., backend is DEALER ... load-balances among workers").
// Unlike BroadcastProxy it has no Pause: a request in flight has no
// meaningful paused state, so spec §4.5 gives this proxy only Start/Stop.
type RequestReplyProxy struct {
	mu       sync.Mutex
	running  bool
	frontend *routerdealer.Router
	backend  *routerdealer.Dealer
	logger   *ulogging.Logger
	doneCh   chan struct{}
}

// NewRequestReplyProxy constructs an unstarted RequestReplyProxy.
func NewRequestReplyProxy(logger *ulogging.Logger) *RequestReplyProxy {
	return &RequestReplyProxy{logger: logger}
}

// Initialize binds the client-facing ROUTER and the worker-facing DEALER.
func (p *RequestReplyProxy) Initialize(ctx *messaging.Context, frontendAddress, backendAddress string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frontend != nil {
		return uerrors.New("RequestReplyProxy.Initialize", uerrors.AlreadyInitialized, "proxy already initialized")
	}
	frontend := routerdealer.New()
	if err := frontend.Initialize(ctx, messaging.RouterOptions{Address: frontendAddress}); err != nil {
		return err
	}
	backend := routerdealer.NewDealer()
	if err := backend.Initialize(ctx, messaging.DealerOptions{Address: backendAddress, Bind: true}); err != nil {
		_ = frontend.Close()
		return err
	}
	p.frontend = frontend
	p.backend = backend
	return nil
}

// Start relays frames between frontend and backend until Stop is called.
func (p *RequestReplyProxy) Start() error {
	p.mu.Lock()
	if p.frontend == nil || p.backend == nil {
		p.mu.Unlock()
		return uerrors.New("RequestReplyProxy.Start", uerrors.NotInitialized, "proxy sockets are not bound")
	}
	if p.running {
		p.mu.Unlock()
		return uerrors.New("RequestReplyProxy.Start", uerrors.AlreadyInitialized, "proxy already started")
	}
	p.running = true
	p.doneCh = make(chan struct{})
	frontendSocket := p.frontend.Socket()
	backendSocket := p.backend.Socket()
	p.mu.Unlock()

	go func() {
		defer close(p.doneCh)
		_ = zmq4.Proxy(frontendSocket, backendSocket)
	}()
	if p.logger != nil {
		p.logger.Info("request/reply proxy started")
	}
	return nil
}

// Stop terminates the relay and closes both sockets.
func (p *RequestReplyProxy) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	frontend, backend := p.frontend, p.backend
	p.mu.Unlock()

	if frontend != nil {
		_ = frontend.Close()
	}
	if backend != nil {
		_ = backend.Close()
	}
	if p.logger != nil {
		p.logger.Info("request/reply proxy stopped")
	}
	return nil
}
