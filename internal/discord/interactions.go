package discord

import (
	"context"
	"sync"

	"github.com/keshon/slashkit/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
)

// interactionResponder answers the interaction the first time and sends
// follow-up messages after that.
type interactionResponder struct {
	session     discordtypes.Session
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

func (r *interactionResponder) Reply(_ context.Context, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.responded {
		_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{Content: content})
		return err
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err == nil {
		r.responded = true
	}
	return err
}

// --- Interaction responses ---

// RespondEphemeral sends a message response only the invoking user can see.
func RespondEphemeral(s discordtypes.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// --- Channel messages (non-interaction) ---

// Message sends a plain text message to a channel.
func Message(s discordtypes.Session, channelID, content string) error {
	_, err := s.ChannelMessageSend(channelID, content)
	return err
}
