// Package publisher implements the PUB half of the C6 publish/subscribe
// pattern (spec §4.4) over github.com/luxfi/zmq/v4.
package publisher

import (
	"fmt"
	"sync"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// Publisher binds a PUB socket and broadcasts topic-tagged payloads.
type Publisher struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
	logger  *ulogging.Logger
}

// New constructs an uninitialized Publisher.
func New(logger *ulogging.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Initialize binds the PUB socket to options.Address.
func (p *Publisher) Initialize(ctx *messaging.Context, options messaging.PublisherOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.socket != nil {
		return uerrors.New("Publisher.Initialize", uerrors.AlreadyInitialized, "publisher already bound")
	}
	if options.Address == "" {
		return uerrors.New("Publisher.Initialize", uerrors.InvalidArgument, "address is empty")
	}
	sock := zmq4.NewPub(ctx.Done())
	if options.SendHighWaterMark > 0 {
		_ = sock.SetOption(zmq4.OptionHWM, options.SendHighWaterMark)
	}
	if err := sock.Listen(options.Address); err != nil {
		return uerrors.Wrap("Publisher.Initialize", uerrors.AddressInUse, fmt.Sprintf("failed to bind %s", options.Address), err)
	}
	p.socket = sock
	p.details = messaging.SocketDetails{
		Address:       options.Address,
		SocketType:    messaging.PublisherSocket,
		SecurityLevel: options.ZAPOptions.SecurityLevel,
		ConnectOrBind: messaging.Bind,
	}
	if p.logger != nil {
		p.logger.Info("publisher bound", "address", options.Address)
	}
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (p *Publisher) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.socket != nil
}

// SocketDetails returns a snapshot of the bound socket's configuration.
func (p *Publisher) SocketDetails() messaging.SocketDetails {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.details
}

// Send publishes payload prefixed by topic as a two-frame message so
// subscribers can filter on the topic frame alone.
func (p *Publisher) Send(topic string, payload []byte) error {
	p.mu.Lock()
	sock := p.socket
	p.mu.Unlock()
	if sock == nil {
		return uerrors.New("Publisher.Send", uerrors.NotInitialized, "publisher is not bound")
	}
	msg := zmq4.NewMsgFrom([]byte(topic), payload)
	if err := sock.Send(msg); err != nil {
		return uerrors.Wrap("Publisher.Send", uerrors.IoFailure, "send failed", err)
	}
	return nil
}

// Close releases the underlying socket.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.socket == nil {
		return nil
	}
	err := p.socket.Close()
	p.socket = nil
	return err
}
