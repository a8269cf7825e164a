// Package xpubxsub implements the XPUB/XSUB sockets (spec §4.4, §4.5) used
// as the frontend/backend pair of a broadcast proxy (C7).
package xpubxsub

import (
	"fmt"
	"sync"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// XPublisher is the backend socket subscribers connect to.
type XPublisher struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
}

// New constructs an uninitialized XPublisher.
func New() *XPublisher { return &XPublisher{} }

// Initialize binds the XPUB socket to address.
func (x *XPublisher) Initialize(ctx *messaging.Context, address string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.socket != nil {
		return uerrors.New("XPublisher.Initialize", uerrors.AlreadyInitialized, "already bound")
	}
	sock := zmq4.NewXPub(ctx.Done())
	if err := sock.Listen(address); err != nil {
		return uerrors.Wrap("XPublisher.Initialize", uerrors.AddressInUse, fmt.Sprintf("failed to bind %s", address), err)
	}
	x.socket = sock
	x.details = messaging.SocketDetails{Address: address, SocketType: messaging.XPublisherSocket, ConnectOrBind: messaging.Bind}
	return nil
}

// Socket exposes the underlying zmq4.Socket for use as a proxy backend.
func (x *XPublisher) Socket() zmq4.Socket {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.socket
}

// SocketDetails returns a snapshot of the bound socket's configuration.
func (x *XPublisher) SocketDetails() messaging.SocketDetails {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.details
}

// Close releases the underlying socket.
func (x *XPublisher) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.socket == nil {
		return nil
	}
	err := x.socket.Close()
	x.socket = nil
	return err
}

// XSubscriber is the frontend socket publishers connect to.
type XSubscriber struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
}

// NewSubscriber constructs an uninitialized XSubscriber.
func NewSubscriber() *XSubscriber { return &XSubscriber{} }

// Initialize binds the XSUB socket to address.
func (x *XSubscriber) Initialize(ctx *messaging.Context, address string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.socket != nil {
		return uerrors.New("XSubscriber.Initialize", uerrors.AlreadyInitialized, "already bound")
	}
	sock := zmq4.NewXSub(ctx.Done())
	if err := sock.Listen(address); err != nil {
		return uerrors.Wrap("XSubscriber.Initialize", uerrors.AddressInUse, fmt.Sprintf("failed to bind %s", address), err)
	}
	x.socket = sock
	x.details = messaging.SocketDetails{Address: address, SocketType: messaging.XSubscriberSocket, ConnectOrBind: messaging.Bind}
	return nil
}

// Socket exposes the underlying zmq4.Socket for use as a proxy frontend.
func (x *XSubscriber) Socket() zmq4.Socket {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.socket
}

// SocketDetails returns a snapshot of the bound socket's configuration.
func (x *XSubscriber) SocketDetails() messaging.SocketDetails {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.details
}

// Close releases the underlying socket.
func (x *XSubscriber) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.socket == nil {
		return nil
	}
	err := x.socket.Close()
	x.socket = nil
	return err
}
