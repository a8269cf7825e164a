package requestors

import (
	"encoding/json"
	"sync/atomic"

	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// CommandRequestor is the client side of a module's local command socket
// (spec §4.7).
type CommandRequestor struct {
	base
	nextIdentifier atomic.Uint64
}

// NewCommandRequestor constructs an uninitialized CommandRequestor.
func NewCommandRequestor() *CommandRequestor {
	return &CommandRequestor{base: newBase()}
}

func (r *CommandRequestor) identifier() uint64 {
	return r.nextIdentifier.Add(1)
}

// Commands asks the module for its available-commands help text.
func (r *CommandRequestor) Commands() (string, error) {
	id := r.identifier()
	env, err := r.call(&wire.CommandsRequest{Identifier: id}, "AvailableCommandsResponse")
	if err != nil {
		return "", err
	}
	var resp wire.AvailableCommandsResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return "", uerrors.Wrap("CommandRequestor.Commands", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	return resp.Commands, nil
}

// Execute sends command text to the module and returns its result text.
func (r *CommandRequestor) Execute(command string) (string, error) {
	id := r.identifier()
	env, err := r.call(&wire.CommandRequest{Command: command, Identifier: id}, "CommandResponse")
	if err != nil {
		return "", err
	}
	var resp wire.CommandResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return "", uerrors.Wrap("CommandRequestor.Execute", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	return resp.Result, nil
}

// Terminate asks the module to shut down.
func (r *CommandRequestor) Terminate() error {
	id := r.identifier()
	env, err := r.call(&wire.TerminateRequest{Identifier: id}, "TerminateResponse")
	if err != nil {
		return err
	}
	var resp wire.TerminateResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil {
		return uerrors.Wrap("CommandRequestor.Terminate", uerrors.SerializationFailure, "failed to decode reply", err)
	}
	if resp.ReturnCode != wire.Success {
		return uerrors.New("CommandRequestor.Terminate", uerrors.AlgorithmFailure, "server returned "+resp.ReturnCode.String())
	}
	return nil
}
