// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, parameter schema and Run(ctx, invocation). How it is
// registered and dispatched (Discord slash, CLI) is defined by adapters that wrap this.
package cmd

import "context"

// ParamType is the declared type of a command parameter.
type ParamType int

const (
	String ParamType = iota
	Integer
	Number
	Boolean
	User
	Channel
	Role
)

func (t ParamType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case User:
		return "user"
	case Channel:
		return "channel"
	case Role:
		return "role"
	default:
		return "unknown"
	}
}

// Parameter describes one argument of a command. The order of parameters
// returned by Command.Parameters defines positional binding.
type Parameter struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
}

// Command is the universal contract: identity, schema and execution. Permissions,
// cooldowns and transport-specific registration stay in middleware and adapters.
type Command interface {
	Name() string
	Description() string
	Parameters() []Parameter
	Run(ctx context.Context, inv *Invocation) error
}

// Responder delivers a user-visible reply for an invocation.
type Responder interface {
	Reply(ctx context.Context, content string) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, content string) error

func (f ResponderFunc) Reply(ctx context.Context, content string) error { return f(ctx, content) }
