package requestors

import (
	"encoding/json"
	"sync/atomic"

	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// ConnectionInfoRequestor is the client side of the operator's C8
// connection-info service.
type ConnectionInfoRequestor struct {
	base
	nextIdentifier atomic.Uint64
}

// NewConnectionInfoRequestor constructs an uninitialized requestor.
func NewConnectionInfoRequestor() *ConnectionInfoRequestor {
	return &ConnectionInfoRequestor{base: newBase()}
}

func (r *ConnectionInfoRequestor) identifier() uint64 {
	return r.nextIdentifier.Add(1)
}

// AvailableConnections lists every broadcast and service name the
// operator is tracking.
func (r *ConnectionInfoRequestor) AvailableConnections() (broadcasts, services []string, err error) {
	id := r.identifier()
	env, err := r.call(&wire.AvailableConnectionsRequest{Identifier: id}, "AvailableConnectionsResponse")
	if err != nil {
		return nil, nil, err
	}
	var resp wire.AvailableConnectionsResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return nil, nil, uerrors.Wrap("ConnectionInfoRequestor.AvailableConnections", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	return resp.Broadcasts, resp.Services, nil
}

// ConnectionDetails looks up the SocketDetails for a named broadcast or
// service. found is false when name is unknown to the operator.
func (r *ConnectionInfoRequestor) ConnectionDetails(name string) (details wire.ConnectionDetails, found bool, err error) {
	id := r.identifier()
	env, err := r.call(&wire.ConnectionDetailsRequest{Name: name, Identifier: id}, "ConnectionDetailsResponse")
	if err != nil {
		return wire.ConnectionDetails{}, false, err
	}
	var resp wire.ConnectionDetailsResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return wire.ConnectionDetails{}, false, uerrors.Wrap("ConnectionInfoRequestor.ConnectionDetails", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	if !resp.Found || resp.Details == nil {
		return wire.ConnectionDetails{}, false, nil
	}
	return *resp.Details, true, nil
}
