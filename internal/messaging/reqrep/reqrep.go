// Package reqrep implements the REQ/REP socket pattern (spec §4.4) used by
// services that answer one request with exactly one reply (C8, C10).
package reqrep

import (
	"fmt"
	"sync"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// Request is a REQ socket: it sends one message and blocks for the reply.
type Request struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
}

// New constructs an uninitialized Request socket.
func New() *Request { return &Request{} }

// Initialize dials options.Address.
func (r *Request) Initialize(ctx *messaging.Context, options messaging.RequestOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.socket != nil {
		return uerrors.New("Request.Initialize", uerrors.AlreadyInitialized, "already connected")
	}
	opts := []zmq4.Option{}
	if options.TimeOut > 0 {
		opts = append(opts, zmq4.WithTimeout(options.TimeOut))
	}
	sock := zmq4.NewReq(ctx.Done(), opts...)
	if err := sock.Dial(options.Address); err != nil {
		return uerrors.Wrap("Request.Initialize", uerrors.IoFailure, fmt.Sprintf("failed to dial %s", options.Address), err)
	}
	r.socket = sock
	r.details = messaging.SocketDetails{Address: options.Address, SocketType: messaging.RequestSocket, ConnectOrBind: messaging.Connect}
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (r *Request) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.socket != nil
}

// SocketDetails returns a snapshot of the connected socket's configuration.
func (r *Request) SocketDetails() messaging.SocketDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.details
}

// Request sends payload and blocks for the single-frame reply.
func (r *Request) Request(payload []byte) ([]byte, error) {
	r.mu.Lock()
	sock := r.socket
	r.mu.Unlock()
	if sock == nil {
		return nil, uerrors.New("Request.Request", uerrors.NotInitialized, "request socket is not connected")
	}
	if err := sock.Send(zmq4.NewMsg(payload)); err != nil {
		return nil, uerrors.Wrap("Request.Request", uerrors.IoFailure, "send failed", err)
	}
	reply, err := sock.Recv()
	if err != nil {
		return nil, uerrors.Wrap("Request.Request", uerrors.Timeout, "recv failed", err)
	}
	return reply.Bytes(), nil
}

// Close releases the underlying socket.
func (r *Request) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.socket == nil {
		return nil
	}
	err := r.socket.Close()
	r.socket = nil
	return err
}

// Handler answers one request payload with a reply payload.
type Handler func(request []byte) []byte

// Reply is a REP socket: it blocks for a request, then must send exactly
// one reply before it can receive the next request.
type Reply struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
}

// NewReply constructs an uninitialized Reply socket.
func NewReply() *Reply { return &Reply{} }

// Initialize binds options.Address, or dials it when options.DialBackend
// is set (attaching to a RequestReplyProxy's DEALER backend as a worker).
func (r *Reply) Initialize(ctx *messaging.Context, options messaging.ReplyOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.socket != nil {
		return uerrors.New("Reply.Initialize", uerrors.AlreadyInitialized, "already bound")
	}
	sock := zmq4.NewRep(ctx.Done())
	connectOrBind := messaging.Bind
	if options.DialBackend {
		if err := sock.Dial(options.Address); err != nil {
			return uerrors.Wrap("Reply.Initialize", uerrors.IoFailure, fmt.Sprintf("failed to dial %s", options.Address), err)
		}
		connectOrBind = messaging.Connect
	} else {
		if err := sock.Listen(options.Address); err != nil {
			return uerrors.Wrap("Reply.Initialize", uerrors.AddressInUse, fmt.Sprintf("failed to bind %s", options.Address), err)
		}
	}
	r.socket = sock
	r.details = messaging.SocketDetails{Address: options.Address, SocketType: messaging.ReplySocket, ConnectOrBind: connectOrBind}
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (r *Reply) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.socket != nil
}

// SocketDetails returns a snapshot of the bound socket's configuration.
func (r *Reply) SocketDetails() messaging.SocketDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.details
}

// Serve blocks receiving requests and answering each with handler until
// done is closed or a socket error occurs.
func (r *Reply) Serve(done <-chan struct{}, handler Handler) error {
	r.mu.Lock()
	sock := r.socket
	r.mu.Unlock()
	if sock == nil {
		return uerrors.New("Reply.Serve", uerrors.NotInitialized, "reply socket is not bound")
	}
	for {
		select {
		case <-done:
			return nil
		default:
		}
		req, err := sock.Recv()
		if err != nil {
			select {
			case <-done:
				return nil
			default:
			}
			return uerrors.Wrap("Reply.Serve", uerrors.IoFailure, "recv failed", err)
		}
		reply := handler(req.Bytes())
		if err := sock.Send(zmq4.NewMsg(reply)); err != nil {
			return uerrors.Wrap("Reply.Serve", uerrors.IoFailure, "send failed", err)
		}
	}
}

// Close releases the underlying socket.
func (r *Reply) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.socket == nil {
		return nil
	}
	err := r.socket.Close()
	r.socket = nil
	return err
}
