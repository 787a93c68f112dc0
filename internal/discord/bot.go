package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the gateway session and forwards every subscribed event to the
// dispatcher.
type Bot struct {
	token      string
	intents    discordgo.Intent
	dispatcher *Dispatcher
}

type BotOption func(*Bot)

func WithIntents(intents discordgo.Intent) BotOption {
	return func(b *Bot) { b.intents = intents }
}

// DefaultIntents covers the events the dispatcher routes, including message
// content for mention handling.
const DefaultIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

func NewBot(token string, dispatcher *Dispatcher, opts ...BotOption) *Bot {
	b := &Bot{token: token, intents: DefaultIntents, dispatcher: dispatcher}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = b.intents
	b.attach(ctx, dg)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	slog.Info("❎ Shutdown signal received. Cleaning up...")
	return nil
}

// attach subscribes the dispatcher to the session's gateway events.
func (b *Bot) attach(ctx context.Context, dg *discordgo.Session) {
	d := b.dispatcher

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("✅ Discord bot is running", "user", r.User.Username, "guilds", len(r.Guilds))
		d.Ready(ctx, s, r)
	})
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if isOwnMessage(s, m) {
			return
		}
		d.MessageCreate(ctx, s, m)
	})
	dg.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		d.GuildCreate(ctx, s, g)
	})
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		d.ReactionAdd(ctx, s, r)
	})
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		d.InteractionCreate(ctx, s, i)
	})
}

func isOwnMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Author == nil || s.State == nil || s.State.User == nil {
		return false
	}
	return m.Author.ID == s.State.User.ID
}
