// Package routerdealer implements the ROUTER/DEALER socket pattern (spec
// §4.4) used for asynchronous, identity-addressed request/reply by the
// request/reply proxy (C7).
package routerdealer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// NewRoutingIdentifier generates a routing identifier suitable for a
// Dealer's SocketIdentity when a caller has no natural stable name of its
// own (spec §4.7's RegistrationRequest.ModuleDetails.RoutingIdentifier).
func NewRoutingIdentifier() string {
	return uuid.NewString()
}

// Router is the service-side socket: it receives [identity, payload] and
// must reply with the same identity frame so the proxy can route it back.
type Router struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
}

// New constructs an uninitialized Router.
func New() *Router { return &Router{} }

// Initialize binds options.Address.
func (r *Router) Initialize(ctx *messaging.Context, options messaging.RouterOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.socket != nil {
		return uerrors.New("Router.Initialize", uerrors.AlreadyInitialized, "already bound")
	}
	sock := zmq4.NewRouter(ctx.Done())
	if err := sock.Listen(options.Address); err != nil {
		return uerrors.Wrap("Router.Initialize", uerrors.AddressInUse, fmt.Sprintf("failed to bind %s", options.Address), err)
	}
	r.socket = sock
	r.details = messaging.SocketDetails{Address: options.Address, SocketType: messaging.RouterSocket, ConnectOrBind: messaging.Bind}
	return nil
}

// Socket exposes the underlying zmq4.Socket for use as a proxy endpoint.
func (r *Router) Socket() zmq4.Socket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.socket
}

// SocketDetails returns a snapshot of the bound socket's configuration.
func (r *Router) SocketDetails() messaging.SocketDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.details
}

// Identified is one received frame group: the routing identity plus the
// application payload that followed it.
type Identified struct {
	Identity []byte
	Payload  []byte
}

// Receive blocks for the next [identity, payload] frame pair.
func (r *Router) Receive() (Identified, error) {
	r.mu.Lock()
	sock := r.socket
	r.mu.Unlock()
	if sock == nil {
		return Identified{}, uerrors.New("Router.Receive", uerrors.NotInitialized, "router is not bound")
	}
	msg, err := sock.Recv()
	if err != nil {
		return Identified{}, uerrors.Wrap("Router.Receive", uerrors.IoFailure, "recv failed", err)
	}
	if len(msg.Frames) < 2 {
		return Identified{}, uerrors.New("Router.Receive", uerrors.SerializationFailure, "expected identity and payload frames")
	}
	return Identified{Identity: msg.Frames[0], Payload: msg.Frames[len(msg.Frames)-1]}, nil
}

// Send replies to identity with payload.
func (r *Router) Send(identity, payload []byte) error {
	r.mu.Lock()
	sock := r.socket
	r.mu.Unlock()
	if sock == nil {
		return uerrors.New("Router.Send", uerrors.NotInitialized, "router is not bound")
	}
	msg := zmq4.NewMsgFrom(identity, payload)
	if err := sock.Send(msg); err != nil {
		return uerrors.Wrap("Router.Send", uerrors.IoFailure, "send failed", err)
	}
	return nil
}

// Close releases the underlying socket.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.socket == nil {
		return nil
	}
	err := r.socket.Close()
	r.socket = nil
	return err
}

// Dealer is the client-side socket: a request, identity-tagged on the wire
// but unseen by the caller, that can have multiple requests outstanding.
type Dealer struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
}

// NewDealer constructs an uninitialized Dealer.
func NewDealer() *Dealer { return &Dealer{} }

// Initialize dials options.Address, optionally with a fixed routing
// identifier (spec §4.4's "routing identifier" field). When options.Bind
// is set the Dealer instead listens — the shape used as a
// RequestReplyProxy's worker-facing backend (spec §4.5), which REP
// workers dial into.
func (d *Dealer) Initialize(ctx *messaging.Context, options messaging.DealerOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.socket != nil {
		return uerrors.New("Dealer.Initialize", uerrors.AlreadyInitialized, "already connected")
	}
	opts := []zmq4.Option{}
	if options.RoutingIdentifier != "" {
		opts = append(opts, zmq4.WithID(zmq4.SocketIdentity(options.RoutingIdentifier)))
	}
	if options.TimeOut > 0 {
		opts = append(opts, zmq4.WithTimeout(options.TimeOut))
	}
	sock := zmq4.NewDealer(ctx.Done(), opts...)
	connectOrBind := messaging.Connect
	if options.Bind {
		if err := sock.Listen(options.Address); err != nil {
			return uerrors.Wrap("Dealer.Initialize", uerrors.AddressInUse, fmt.Sprintf("failed to bind %s", options.Address), err)
		}
		connectOrBind = messaging.Bind
	} else {
		if err := sock.Dial(options.Address); err != nil {
			return uerrors.Wrap("Dealer.Initialize", uerrors.IoFailure, fmt.Sprintf("failed to dial %s", options.Address), err)
		}
	}
	d.socket = sock
	d.details = messaging.SocketDetails{Address: options.Address, SocketType: messaging.DealerSocket, ConnectOrBind: connectOrBind}
	return nil
}

// Socket exposes the underlying zmq4.Socket for use as a proxy endpoint.
func (d *Dealer) Socket() zmq4.Socket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.socket
}

// SocketDetails returns a snapshot of the socket's configuration.
func (d *Dealer) SocketDetails() messaging.SocketDetails {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.details
}

// Send transmits payload to the router on the other end of the proxy.
func (d *Dealer) Send(payload []byte) error {
	d.mu.Lock()
	sock := d.socket
	d.mu.Unlock()
	if sock == nil {
		return uerrors.New("Dealer.Send", uerrors.NotInitialized, "dealer is not connected")
	}
	if err := sock.Send(zmq4.NewMsg(payload)); err != nil {
		return uerrors.Wrap("Dealer.Send", uerrors.IoFailure, "send failed", err)
	}
	return nil
}

// Receive blocks for the next reply payload.
func (d *Dealer) Receive() ([]byte, error) {
	d.mu.Lock()
	sock := d.socket
	d.mu.Unlock()
	if sock == nil {
		return nil, uerrors.New("Dealer.Receive", uerrors.NotInitialized, "dealer is not connected")
	}
	msg, err := sock.Recv()
	if err != nil {
		return nil, uerrors.Wrap("Dealer.Receive", uerrors.Timeout, "recv failed", err)
	}
	return msg.Bytes(), nil
}

// Close releases the underlying socket.
func (d *Dealer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.socket == nil {
		return nil
	}
	err := d.socket.Close()
	d.socket = nil
	return err
}
