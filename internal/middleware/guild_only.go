package middleware

import (
	"context"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/pkg/cmd"
)

// WithGuildOnly wraps a command to enforce guild-only access
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if _, ok := inv.Data.(*discordtypes.SlashContext); ok && inv.GuildID == "" {
				return inv.Reply(ctx, "This command can only be used in a server.")
			}
			return c.Run(ctx, inv)
		})
	}
}
