// Package connectioninfo implements the operator's connection-info
// service (spec §4.6, C8): a registry of broadcast and service
// SocketDetails, and a reply handler that answers its two request types
// (available connections and connection details) over it.
package connectioninfo

import (
	"sort"
	"sync"

	"github.com/uofuseismo/umps/internal/authentication"
	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/wire"
)

// Registry tracks the SocketDetails of every broadcast and service a
// running operator knows about.
type Registry struct {
	mu         sync.RWMutex
	broadcasts map[string]messaging.SocketDetails
	services   map[string]messaging.SocketDetails
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		broadcasts: make(map[string]messaging.SocketDetails),
		services:   make(map[string]messaging.SocketDetails),
	}
}

// AddBroadcast records details under name, overwriting any prior entry.
func (r *Registry) AddBroadcast(name string, details messaging.SocketDetails) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts[name] = details
}

// NewBroadcastDetails builds the SocketDetails a broadcast proxy advertises
// to its subscribers: the XPUB/XSUB proxy's public-facing side is the
// detail clients dial, regardless of the proxy's own internal frontend
// address where publishers connect.
func NewBroadcastDetails(subscriberFacingAddress string, securityLevel authentication.SecurityLevel) messaging.SocketDetails {
	return messaging.SocketDetails{
		Address:       subscriberFacingAddress,
		SocketType:    messaging.XPublisherSocket,
		SecurityLevel: securityLevel,
		ConnectOrBind: messaging.Bind,
	}
}

// AddService records details under name, overwriting any prior entry.
func (r *Registry) AddService(name string, details messaging.SocketDetails) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[name] = details
}

// RemoveBroadcast deletes name if present.
func (r *Registry) RemoveBroadcast(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.broadcasts, name)
}

// RemoveService deletes name if present.
func (r *Registry) RemoveService(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, name)
}

func (r *Registry) names(m map[string]messaging.SocketDetails) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func socketTypeName(d messaging.SocketDetails) string {
	return d.SocketType.String()
}

func toWireDetails(name string, d messaging.SocketDetails) wire.ConnectionDetails {
	return wire.ConnectionDetails{
		Name:                  name,
		Address:               d.Address,
		SocketType:            socketTypeName(d),
		SecurityLevel:         d.SecurityLevel.String(),
		MinimumUserPrivileges: d.MinimumUserPrivileges.String(),
		ConnectOrBind:         d.ConnectOrBind.String(),
	}
}

// HandleAvailableConnections answers an AvailableConnectionsRequest.
func (r *Registry) HandleAvailableConnections(req *wire.AvailableConnectionsRequest) *wire.AvailableConnectionsResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &wire.AvailableConnectionsResponse{
		Broadcasts: r.names(r.broadcasts),
		Services:   r.names(r.services),
		Identifier: req.Identifier,
		ReturnCode: wire.Success,
	}
}

// HandleConnectionDetails answers a ConnectionDetailsRequest, looking in
// both the broadcast and service tables.
func (r *Registry) HandleConnectionDetails(req *wire.ConnectionDetailsRequest) *wire.ConnectionDetailsResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.broadcasts[req.Name]; ok {
		details := toWireDetails(req.Name, d)
		return &wire.ConnectionDetailsResponse{Details: &details, Found: true, Identifier: req.Identifier, ReturnCode: wire.Success}
	}
	if d, ok := r.services[req.Name]; ok {
		details := toWireDetails(req.Name, d)
		return &wire.ConnectionDetailsResponse{Details: &details, Found: true, Identifier: req.Identifier, ReturnCode: wire.Success}
	}
	return &wire.ConnectionDetailsResponse{Found: false, Identifier: req.Identifier, ReturnCode: wire.NoItem}
}
