// Package proxy implements the C7 proxies: a pausable XPUB/XSUB broadcast
// relay that forwards frames in its own loop, and a ROUTER/DEALER request
// relay built on zmq4.Proxy.
package proxy

import (
	"sync"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/xpubxsub"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

type broadcastState int

const (
	broadcastStopped broadcastState = iota
	broadcastRunning
	broadcastPaused
)

// BroadcastProxy relays publications from a frontend XSUB (where
// publishers connect) to a backend XPUB (where subscribers connect), and
// supports Start/Pause/Stop (spec §4.5: the broadcast proxy alone has a
// pause state, since pausing simply stops forwarding without closing
// either socket).
type BroadcastProxy struct {
	mu       sync.Mutex
	state    broadcastState
	frontend *xpubxsub.XSubscriber
	backend  *xpubxsub.XPublisher
	logger   *ulogging.Logger

	pauseCh chan bool
	doneCh  chan struct{}
}

// New constructs an unstarted BroadcastProxy; Initialize supplies the
// frontend (publisher-facing) and backend (subscriber-facing) addresses.
func New(logger *ulogging.Logger) *BroadcastProxy {
	return &BroadcastProxy{logger: logger}
}

// Initialize binds the frontend and backend sockets without starting the
// relay loop.
func (p *BroadcastProxy) Initialize(ctx *messaging.Context, frontendAddress, backendAddress string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frontend != nil {
		return uerrors.New("BroadcastProxy.Initialize", uerrors.AlreadyInitialized, "proxy already initialized")
	}
	frontend := xpubxsub.NewSubscriber()
	if err := frontend.Initialize(ctx, frontendAddress); err != nil {
		return err
	}
	backend := xpubxsub.New()
	if err := backend.Initialize(ctx, backendAddress); err != nil {
		_ = frontend.Close()
		return err
	}
	p.frontend = frontend
	p.backend = backend
	return nil
}

// Start relays messages between frontend and backend until Stop is called.
func (p *BroadcastProxy) Start() error {
	p.mu.Lock()
	if p.frontend == nil || p.backend == nil {
		p.mu.Unlock()
		return uerrors.New("BroadcastProxy.Start", uerrors.NotInitialized, "proxy sockets are not bound")
	}
	if p.state != broadcastStopped {
		p.mu.Unlock()
		return uerrors.New("BroadcastProxy.Start", uerrors.AlreadyInitialized, "proxy already started")
	}
	p.state = broadcastRunning
	p.pauseCh = make(chan bool, 1)
	p.doneCh = make(chan struct{})
	frontendSocket := p.frontend.Socket()
	backendSocket := p.backend.Socket()
	p.mu.Unlock()

	go p.run(frontendSocket, backendSocket)
	if p.logger != nil {
		p.logger.Info("broadcast proxy started")
	}
	return nil
}

func (p *BroadcastProxy) run(frontend, backend zmq4.Socket) {
	defer close(p.doneCh)
	paused := false
	for {
		select {
		case shouldPause, ok := <-p.pauseCh:
			if !ok {
				return
			}
			paused = shouldPause
			continue
		default:
		}
		if paused {
			select {
			case shouldPause, ok := <-p.pauseCh:
				if !ok {
					return
				}
				paused = shouldPause
			}
			continue
		}
		msg, err := frontend.Recv()
		if err != nil {
			return
		}
		if err := backend.Send(msg); err != nil {
			if p.logger != nil {
				p.logger.Error("broadcast proxy forward failed", err)
			}
		}
	}
}

// Pause suspends forwarding without closing either socket.
func (p *BroadcastProxy) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != broadcastRunning {
		return uerrors.New("BroadcastProxy.Pause", uerrors.InvalidArgument, "proxy is not running")
	}
	p.state = broadcastPaused
	select {
	case <-p.pauseCh:
	default:
	}
	p.pauseCh <- true
	return nil
}

// Resume continues forwarding after Pause.
func (p *BroadcastProxy) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != broadcastPaused {
		return uerrors.New("BroadcastProxy.Resume", uerrors.InvalidArgument, "proxy is not paused")
	}
	p.state = broadcastRunning
	select {
	case <-p.pauseCh:
	default:
	}
	p.pauseCh <- false
	return nil
}

// Stop terminates the relay loop and closes both sockets.
func (p *BroadcastProxy) Stop() error {
	p.mu.Lock()
	if p.state == broadcastStopped {
		p.mu.Unlock()
		return nil
	}
	p.state = broadcastStopped
	close(p.pauseCh)
	frontend, backend := p.frontend, p.backend
	done := p.doneCh
	p.mu.Unlock()

	if frontend != nil {
		_ = frontend.Close()
	}
	if backend != nil {
		_ = backend.Close()
	}
	if done != nil {
		<-done
	}
	if p.logger != nil {
		p.logger.Info("broadcast proxy stopped")
	}
	return nil
}
