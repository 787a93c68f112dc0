// Package math holds arithmetic commands.
package math

import (
	"context"
	"fmt"

	"github.com/keshon/slashkit/pkg/cmd"
)

type SumCommand struct{}

func (c *SumCommand) Name() string        { return "sum" }
func (c *SumCommand) Description() string { return "Add two integers" }
func (c *SumCommand) Parameters() []cmd.Parameter {
	return []cmd.Parameter{
		{Name: "a", Description: "First addend", Type: cmd.Integer, Required: true},
		{Name: "b", Description: "Second addend", Type: cmd.Integer, Required: true},
	}
}

func (c *SumCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	a, okA := inv.Int("a")
	b, okB := inv.Int("b")
	switch {
	case !okA:
		return inv.Reply(ctx, "Missing or invalid argument: a")
	case !okB:
		return inv.Reply(ctx, "Missing or invalid argument: b")
	}
	sum, ok := addInt64(a, b)
	if !ok {
		return inv.Reply(ctx, "Result is out of range.")
	}
	return inv.Reply(ctx, fmt.Sprintf("Result: %d", sum))
}

// addInt64 returns a+b and false when the sum overflows int64.
func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

// Register adds sum to reg, wrapped with mws.
func Register(reg *cmd.Registry, mws ...cmd.Middleware) error {
	return reg.Register(cmd.Apply(&SumCommand{}, mws...))
}
