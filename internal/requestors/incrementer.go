package requestors

import (
	"encoding/json"
	"sync/atomic"

	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// IncrementerRequestor is the client side of the C10 incrementer service.
type IncrementerRequestor struct {
	base
	nextIdentifier atomic.Uint64
}

// NewIncrementerRequestor constructs an uninitialized IncrementerRequestor.
func NewIncrementerRequestor() *IncrementerRequestor {
	return &IncrementerRequestor{base: newBase()}
}

func (r *IncrementerRequestor) identifier() uint64 {
	return r.nextIdentifier.Add(1)
}

// NextValue asks the incrementer for the next value of item.
func (r *IncrementerRequestor) NextValue(item string) (int64, error) {
	id := r.identifier()
	env, err := r.call(&wire.IncrementRequest{Item: item, Identifier: id}, "IncrementResponse")
	if err != nil {
		return 0, err
	}
	var resp wire.IncrementResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return 0, uerrors.Wrap("IncrementerRequestor.NextValue", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	if resp.Identifier != id {
		return 0, uerrors.New("IncrementerRequestor.NextValue", uerrors.SerializationFailure, "reply identifier mismatch")
	}
	if resp.ReturnCode != wire.Success || resp.Value == nil {
		return 0, uerrors.New("IncrementerRequestor.NextValue", uerrors.AlgorithmFailure, "server returned "+resp.ReturnCode.String())
	}
	return *resp.Value, nil
}

// Items asks the incrementer which items it tracks counters for.
func (r *IncrementerRequestor) Items() ([]string, error) {
	id := r.identifier()
	env, err := r.call(&wire.ItemsRequest{Identifier: id}, "ItemsResponse")
	if err != nil {
		return nil, err
	}
	var resp wire.ItemsResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return nil, uerrors.Wrap("IncrementerRequestor.Items", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	if resp.ReturnCode != wire.Success {
		return nil, uerrors.New("IncrementerRequestor.Items", uerrors.AlgorithmFailure, "server returned "+resp.ReturnCode.String())
	}
	return resp.Items, nil
}
