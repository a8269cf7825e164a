// Package requestors implements the C11 client-side façades: thin
// request/reply wrappers that encode a wire.Message, send it, and decode
// the typed reply, so callers never touch wire.Envelope directly.
package requestors

import (
	"time"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/reqrep"
	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// base wraps a connected reqrep.Request socket with envelope-aware
// request/reply helpers shared by every concrete requestor.
type base struct {
	request *reqrep.Request
}

func newBase() base {
	return base{request: reqrep.New()}
}

// Initialize dials address with the given timeout, or DefaultTimeout when
// the timeout is zero. The ZAP options are not applied to the socket.
func (b *base) Initialize(ctx *messaging.Context, options messaging.RequestOptions) error {
	if options.TimeOut == 0 {
		options.TimeOut = DefaultTimeout
	}
	return b.request.Initialize(ctx, options)
}

// IsInitialized reports whether Initialize succeeded.
func (b *base) IsInitialized() bool { return b.request.IsInitialized() }

// Close releases the underlying socket.
func (b *base) Close() error { return b.request.Close() }

// call sends req, decodes the reply via wire.DecodeEnvelope, and errors
// if the reply's type tag doesn't match wantType.
func (b *base) call(req wire.Message, wantType string) (wire.Envelope, error) {
	payload, err := wire.Encode(req)
	if err != nil {
		return wire.Envelope{}, uerrors.Wrap("requestors.call", uerrors.SerializationFailure, "failed to encode request", err)
	}
	raw, err := b.request.Request(payload)
	if err != nil {
		return wire.Envelope{}, err
	}
	env, err := wire.DecodeEnvelope(raw)
	if err != nil {
		return wire.Envelope{}, uerrors.Wrap("requestors.call", uerrors.SerializationFailure, "failed to decode reply envelope", err)
	}
	if env.Type != wantType {
		return wire.Envelope{}, uerrors.New("requestors.call", uerrors.SerializationFailure, "unexpected reply type: "+env.Type)
	}
	return env, nil
}

// DefaultTimeout is used when a caller does not specify one explicitly.
const DefaultTimeout = 10 * time.Second
