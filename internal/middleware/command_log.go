package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
)

// HistoryStore receives one record per command execution.
type HistoryStore interface {
	AppendCommandToHistory(guildID string, record storage.CommandHistoryRecord) error
}

var _ HistoryStore = (*storage.Storage)(nil)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger(store HistoryStore) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)

			record := storage.CommandHistoryRecord{
				InvocationID: inv.ID,
				UserID:       inv.UserID,
				Username:     inv.UserID,
				Command:      c.Name(),
				Param:        formatOptions(inv),
				Datetime:     time.Now(),
			}
			if sc, ok := inv.Data.(*discordtypes.SlashContext); ok && sc.Event != nil && sc.Event.Interaction != nil {
				record.ChannelID = sc.Event.ChannelID
				if u := sc.User(); u != nil {
					record.Username = u.Username
				}
			}
			if err != nil {
				record.Error = err.Error()
			}

			if e := store.AppendCommandToHistory(inv.GuildID, record); e != nil {
				slog.WarnContext(ctx, "failed to log command", "command", c.Name(), "error", e)
			}
			return err
		})
	}
}

// formatOptions renders sub-command args and options as "args k=v k=v",
// options sorted by name.
func formatOptions(inv *cmd.Invocation) string {
	parts := append([]string{}, inv.Args...)
	keys := make([]string, 0, len(inv.Options))
	for k := range inv.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, inv.Options[k]))
	}
	return strings.Join(parts, " ")
}
