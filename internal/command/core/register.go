// Package core holds the maintenance commands every bot ships with.
package core

import "github.com/keshon/slashkit/pkg/cmd"

// Register adds ping and help to reg, each wrapped with mws.
func Register(reg *cmd.Registry, mws ...cmd.Middleware) error {
	for _, c := range []cmd.Command{&PingCommand{}, NewHelpCommand(reg)} {
		if err := reg.Register(cmd.Apply(c, mws...)); err != nil {
			return err
		}
	}
	return nil
}
