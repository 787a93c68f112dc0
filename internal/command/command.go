// Package command lists the built-in command packages.
package command

import (
	"github.com/keshon/slashkit/internal/command/core"
	"github.com/keshon/slashkit/internal/command/math"
	"github.com/keshon/slashkit/pkg/cmd"
)

// Registrar is the Register function every command package exposes.
type Registrar func(reg *cmd.Registry, mws ...cmd.Middleware) error

// Builtin is the start-up table of command packages, in registration order.
var Builtin = []Registrar{
	core.Register,
	math.Register,
}

// RegisterAll registers every built-in command, each wrapped with mws.
func RegisterAll(reg *cmd.Registry, mws ...cmd.Middleware) error {
	for _, register := range Builtin {
		if err := register(reg, mws...); err != nil {
			return err
		}
	}
	return nil
}
