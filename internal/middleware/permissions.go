package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionKickMembers:      "Kick Members",
	discordgo.PermissionBanMembers:       "Ban Members",
	discordgo.PermissionAdministrator:    "Administrator",
	discordgo.PermissionManageChannels:   "Manage Channels",
	discordgo.PermissionManageServer:     "Manage Server",
	discordgo.PermissionViewAuditLogs:    "View Audit Logs",
	discordgo.PermissionManageMessages:   "Manage Messages",
	discordgo.PermissionMentionEveryone:  "Mention Everyone",
	discordgo.PermissionManageThreads:    "Manage Threads",
	discordgo.PermissionManageNicknames:  "Manage Nicknames",
	discordgo.PermissionManageRoles:      "Manage Roles",
	discordgo.PermissionManageWebhooks:   "Manage Webhooks",
	discordgo.PermissionModerateMembers:  "Moderate Members",
	discordgo.PermissionVoiceMoveMembers: "Move Members",
}

// WithPermissionCheck runs the command only when the member holds every
// permission its root command lists in UserPermissions. Administrators always
// pass. The member's resolved permissions come with the interaction, so no
// REST call is made.
func WithPermissionCheck() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		pp, ok := cmd.Root(c).(discordtypes.PermissionProvider)
		if !ok {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			sc, ok := inv.Data.(*discordtypes.SlashContext)
			if !ok || sc.Event == nil || sc.Event.Interaction == nil || sc.Event.Member == nil {
				return c.Run(ctx, inv)
			}

			required := discordtypes.PermissionMask(pp.UserPermissions())
			have := sc.Event.Member.Permissions
			if required == 0 || have&discordgo.PermissionAdministrator != 0 || have&required == required {
				return c.Run(ctx, inv)
			}

			slog.InfoContext(ctx, "command denied", "command", c.Name(), "user", inv.UserID, "guild", inv.GuildID)
			return discord.RespondEphemeral(sc.Session, sc.Event, missingPermissionsMessage(pp.UserPermissions(), have))
		})
	}
}

func missingPermissionsMessage(required []int64, have int64) string {
	var missing []string
	for _, p := range required {
		if have&p == p {
			continue
		}
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		missing = append(missing, name)
	}
	return fmt.Sprintf(
		"You need the following permissions to run this command:\n`%s`",
		strings.Join(missing, "`, `"),
	)
}
