// /discordtypes/discordtypes.go
package discordtypes

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Session is the part of *discordgo.Session the bot talks to. Dispatch code and
// descriptors depend on this so tests can record outbound traffic.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	GuildLeave(guildID string, options ...discordgo.RequestOption) error
	HeartbeatLatency() time.Duration
}

var _ Session = (*discordgo.Session)(nil)

// SlashContext is placed in cmd.Invocation.Data for slash command invocations.
type SlashContext struct {
	Session Session
	Event   *discordgo.InteractionCreate
}

// User resolves the invoking user: guild member first, then DM user.
func (c *SlashContext) User() *discordgo.User {
	if c.Event == nil || c.Event.Interaction == nil {
		return nil
	}
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User
	}
	return c.Event.User
}

// PermissionProvider is implemented by commands that need the member to hold
// Discord permissions (discordgo.Permission* bits).
type PermissionProvider interface {
	UserPermissions() []int64
}

// PermissionMask ORs perms into one bit set.
func PermissionMask(perms []int64) int64 {
	var mask int64
	for _, p := range perms {
		mask |= p
	}
	return mask
}
