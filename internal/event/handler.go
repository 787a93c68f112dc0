// Package event defines lifecycle event handler descriptors and the ordered
// registry the dispatcher fans events out to.
package event

import (
	"context"

	"github.com/keshon/slashkit/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
)

// Kind names a lifecycle event. Values double as log and metric labels.
type Kind string

const (
	KindReady         Kind = "ready"
	KindMessageCreate Kind = "message_create"
	KindGuildCreate   Kind = "guild_create"
	KindReactionAdd   Kind = "reaction_add"
)

// Kinds lists every event kind a Handler can receive.
var Kinds = []Kind{KindReady, KindMessageCreate, KindGuildCreate, KindReactionAdd}

// Handler exposes one callback per event kind. Implementations embed Base and
// override only the callbacks they care about; a new kind is added here and to
// Base together, so existing handlers keep compiling.
type Handler interface {
	OnReady(ctx context.Context, s discordtypes.Session, r *discordgo.Ready) error
	OnMessageCreate(ctx context.Context, s discordtypes.Session, m *discordgo.MessageCreate) error
	OnGuildCreate(ctx context.Context, s discordtypes.Session, g *discordgo.GuildCreate) error
	OnReactionAdd(ctx context.Context, s discordtypes.Session, r *discordgo.MessageReactionAdd) error
}

// Base implements every Handler callback as a no-op.
type Base struct{}

func (Base) OnReady(context.Context, discordtypes.Session, *discordgo.Ready) error { return nil }

func (Base) OnMessageCreate(context.Context, discordtypes.Session, *discordgo.MessageCreate) error {
	return nil
}

func (Base) OnGuildCreate(context.Context, discordtypes.Session, *discordgo.GuildCreate) error {
	return nil
}

func (Base) OnReactionAdd(context.Context, discordtypes.Session, *discordgo.MessageReactionAdd) error {
	return nil
}

// Funcs is a Handler built from optional functions; nil fields are no-ops.
type Funcs struct {
	Ready         func(ctx context.Context, s discordtypes.Session, r *discordgo.Ready) error
	MessageCreate func(ctx context.Context, s discordtypes.Session, m *discordgo.MessageCreate) error
	GuildCreate   func(ctx context.Context, s discordtypes.Session, g *discordgo.GuildCreate) error
	ReactionAdd   func(ctx context.Context, s discordtypes.Session, r *discordgo.MessageReactionAdd) error
}

func (f *Funcs) OnReady(ctx context.Context, s discordtypes.Session, r *discordgo.Ready) error {
	if f.Ready == nil {
		return nil
	}
	return f.Ready(ctx, s, r)
}

func (f *Funcs) OnMessageCreate(ctx context.Context, s discordtypes.Session, m *discordgo.MessageCreate) error {
	if f.MessageCreate == nil {
		return nil
	}
	return f.MessageCreate(ctx, s, m)
}

func (f *Funcs) OnGuildCreate(ctx context.Context, s discordtypes.Session, g *discordgo.GuildCreate) error {
	if f.GuildCreate == nil {
		return nil
	}
	return f.GuildCreate(ctx, s, g)
}

func (f *Funcs) OnReactionAdd(ctx context.Context, s discordtypes.Session, r *discordgo.MessageReactionAdd) error {
	if f.ReactionAdd == nil {
		return nil
	}
	return f.ReactionAdd(ctx, s, r)
}

var (
	_ Handler = Base{}
	_ Handler = (*Funcs)(nil)
)
