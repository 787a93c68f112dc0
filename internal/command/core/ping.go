package core

import (
	"context"
	"fmt"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/pkg/cmd"
)

type PingCommand struct{}

func (c *PingCommand) Name() string                { return "ping" }
func (c *PingCommand) Description() string         { return "Replies pong!" }
func (c *PingCommand) Parameters() []cmd.Parameter { return nil }

func (c *PingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	reply := "🏓 Pong!"
	if sc, ok := inv.Data.(*discordtypes.SlashContext); ok && sc.Session != nil {
		if latency := sc.Session.HeartbeatLatency().Milliseconds(); latency > 0 {
			reply = fmt.Sprintf("%s Latency: %dms", reply, latency)
		}
	}
	return inv.Reply(ctx, reply)
}
