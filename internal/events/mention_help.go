package events

import (
	"context"
	"sync"

	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/event"

	"github.com/bwmarrin/discordgo"
)

const mentionReply = "👋 I answer slash commands. Type `/help` to see what I can do."

// MentionHelp points users at /help when they mention the bot. It learns the
// bot's user ID from the ready event.
type MentionHelp struct {
	event.Base

	mu    sync.RWMutex
	botID string
}

func NewMentionHelp() *MentionHelp {
	return &MentionHelp{}
}

func (h *MentionHelp) OnReady(_ context.Context, _ discordtypes.Session, r *discordgo.Ready) error {
	if r.User == nil {
		return nil
	}
	h.mu.Lock()
	h.botID = r.User.ID
	h.mu.Unlock()
	return nil
}

func (h *MentionHelp) OnMessageCreate(_ context.Context, s discordtypes.Session, m *discordgo.MessageCreate) error {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return nil
	}

	h.mu.RLock()
	botID := h.botID
	h.mu.RUnlock()
	if botID == "" {
		return nil
	}

	for _, u := range m.Mentions {
		if u != nil && u.ID == botID {
			return discord.Message(s, m.ChannelID, mentionReply)
		}
	}
	return nil
}
