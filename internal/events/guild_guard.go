package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/event"

	"github.com/bwmarrin/discordgo"
)

// GuildGuard leaves blacklisted guilds on start-up and whenever the bot is
// added to one.
type GuildGuard struct {
	event.Base
	blacklist map[string]struct{}
}

func NewGuildGuard(blacklist []string) *GuildGuard {
	set := make(map[string]struct{}, len(blacklist))
	for _, id := range blacklist {
		set[id] = struct{}{}
	}
	return &GuildGuard{blacklist: set}
}

func (h *GuildGuard) IsBlacklisted(guildID string) bool {
	_, ok := h.blacklist[guildID]
	return ok
}

func (h *GuildGuard) OnReady(ctx context.Context, s discordtypes.Session, r *discordgo.Ready) error {
	var errs []error
	for _, g := range r.Guilds {
		if g == nil {
			continue
		}
		if err := h.leaveIfBlacklisted(ctx, s, g.ID, g.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *GuildGuard) OnGuildCreate(ctx context.Context, s discordtypes.Session, g *discordgo.GuildCreate) error {
	if g.Guild == nil {
		return nil
	}
	slog.InfoContext(ctx, "bot added to guild", "guild", g.ID, "name", g.Name)
	return h.leaveIfBlacklisted(ctx, s, g.ID, g.Name)
}

func (h *GuildGuard) leaveIfBlacklisted(ctx context.Context, s discordtypes.Session, guildID, name string) error {
	if !h.IsBlacklisted(guildID) {
		return nil
	}
	slog.InfoContext(ctx, "leaving blacklisted guild", "guild", guildID, "name", name)
	if err := s.GuildLeave(guildID); err != nil {
		return fmt.Errorf("leave guild %s: %w", guildID, err)
	}
	return nil
}
