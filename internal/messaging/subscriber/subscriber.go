// Package subscriber implements the SUB half of the C6 publish/subscribe
// pattern (spec §4.4) over github.com/luxfi/zmq/v4.
package subscriber

import (
	"fmt"
	"sync"

	"github.com/luxfi/zmq/v4"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// Message is a received publication: the topic frame plus its payload.
type Message struct {
	Topic   string
	Payload []byte
}

// Subscriber dials a PUB socket and receives topic-tagged payloads.
type Subscriber struct {
	mu      sync.Mutex
	socket  zmq4.Socket
	details messaging.SocketDetails
	logger  *ulogging.Logger
}

// New constructs an uninitialized Subscriber.
func New(logger *ulogging.Logger) *Subscriber {
	return &Subscriber{logger: logger}
}

// Initialize dials options.Address and subscribes to options.Topics (an
// empty Topics list subscribes to everything).
func (s *Subscriber) Initialize(ctx *messaging.Context, options messaging.SubscriberOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.socket != nil {
		return uerrors.New("Subscriber.Initialize", uerrors.AlreadyInitialized, "subscriber already connected")
	}
	if options.Address == "" {
		return uerrors.New("Subscriber.Initialize", uerrors.InvalidArgument, "address is empty")
	}
	sock := zmq4.NewSub(ctx.Done())
	if options.ReceiveHighWaterMark > 0 {
		_ = sock.SetOption(zmq4.OptionHWM, options.ReceiveHighWaterMark)
	}
	if err := sock.Dial(options.Address); err != nil {
		return uerrors.Wrap("Subscriber.Initialize", uerrors.IoFailure, fmt.Sprintf("failed to dial %s", options.Address), err)
	}
	if len(options.Topics) == 0 {
		_ = sock.SetOption(zmq4.OptionSubscribe, "")
	} else {
		for _, topic := range options.Topics {
			_ = sock.SetOption(zmq4.OptionSubscribe, topic)
		}
	}
	s.socket = sock
	s.details = messaging.SocketDetails{
		Address:       options.Address,
		SocketType:    messaging.SubscriberSocket,
		SecurityLevel: options.ZAPOptions.SecurityLevel,
		ConnectOrBind: messaging.Connect,
	}
	if s.logger != nil {
		s.logger.Info("subscriber connected", "address", options.Address, "topics", len(options.Topics))
	}
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (s *Subscriber) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.socket != nil
}

// SocketDetails returns a snapshot of the connected socket's configuration.
func (s *Subscriber) SocketDetails() messaging.SocketDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

// Receive blocks for the next publication.
func (s *Subscriber) Receive() (Message, error) {
	s.mu.Lock()
	sock := s.socket
	s.mu.Unlock()
	if sock == nil {
		return Message{}, uerrors.New("Subscriber.Receive", uerrors.NotInitialized, "subscriber is not connected")
	}
	msg, err := sock.Recv()
	if err != nil {
		return Message{}, uerrors.Wrap("Subscriber.Receive", uerrors.IoFailure, "recv failed", err)
	}
	if len(msg.Frames) < 2 {
		return Message{}, uerrors.New("Subscriber.Receive", uerrors.SerializationFailure, "expected topic and payload frames")
	}
	return Message{Topic: string(msg.Frames[0]), Payload: msg.Frames[1]}, nil
}

// Close releases the underlying socket.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.socket == nil {
		return nil
	}
	err := s.socket.Close()
	s.socket = nil
	return err
}
