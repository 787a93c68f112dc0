package discord

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/event"
	"github.com/keshon/slashkit/internal/metrics"
	"github.com/keshon/slashkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Dispatcher routes gateway events to registered descriptors. It keeps no state
// between events and never modifies either registry.
type Dispatcher struct {
	commands     *cmd.Registry
	handlers     *event.Registry
	unknownReply bool
}

type DispatcherOption func(*Dispatcher)

// WithUnknownCommandReply makes the dispatcher answer interactions that name an
// unregistered command with an ephemeral notice instead of dropping them.
func WithUnknownCommandReply(enabled bool) DispatcherOption {
	return func(d *Dispatcher) { d.unknownReply = enabled }
}

func NewDispatcher(commands *cmd.Registry, handlers *event.Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{commands: commands, handlers: handlers}
	for _, opt := range opts {
		opt(d)
	}
	metrics.RegisteredCommands.Set(float64(commands.Len()))
	metrics.RegisteredHandlers.Set(float64(handlers.Len()))
	return d
}

func (d *Dispatcher) Ready(ctx context.Context, s discordtypes.Session, r *discordgo.Ready) {
	d.fanOut(ctx, event.KindReady, func(h event.Handler) error { return h.OnReady(ctx, s, r) })
}

func (d *Dispatcher) MessageCreate(ctx context.Context, s discordtypes.Session, m *discordgo.MessageCreate) {
	d.fanOut(ctx, event.KindMessageCreate, func(h event.Handler) error { return h.OnMessageCreate(ctx, s, m) })
}

func (d *Dispatcher) GuildCreate(ctx context.Context, s discordtypes.Session, g *discordgo.GuildCreate) {
	d.fanOut(ctx, event.KindGuildCreate, func(h event.Handler) error { return h.OnGuildCreate(ctx, s, g) })
}

func (d *Dispatcher) ReactionAdd(ctx context.Context, s discordtypes.Session, r *discordgo.MessageReactionAdd) {
	d.fanOut(ctx, event.KindReactionAdd, func(h event.Handler) error { return h.OnReactionAdd(ctx, s, r) })
}

// fanOut calls every handler in registration order. A failing or panicking
// handler is logged and does not stop the ones after it.
func (d *Dispatcher) fanOut(ctx context.Context, kind event.Kind, call func(event.Handler) error) {
	metrics.EventsTotal.WithLabelValues(string(kind)).Inc()
	for idx, h := range d.handlers.All() {
		if err := safeCall(func() error { return call(h) }); err != nil {
			metrics.HandlerFailuresTotal.WithLabelValues(string(kind)).Inc()
			slog.ErrorContext(ctx, "event handler failed",
				"event", kind, "handler", fmt.Sprintf("%T", h), "index", idx, "error", err)
		}
	}
}

// InteractionCreate runs the command named by a chat input interaction.
func (d *Dispatcher) InteractionCreate(ctx context.Context, s discordtypes.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	if i.Type != discordgo.InteractionApplicationCommand {
		slog.DebugContext(ctx, "ignoring interaction", "type", i.Type.String())
		return
	}

	data := i.ApplicationCommandData()
	if data.CommandType != 0 && data.CommandType != discordgo.ChatApplicationCommand {
		slog.DebugContext(ctx, "ignoring non chat input command", "command", data.Name, "type", data.CommandType)
		return
	}

	c, ok := d.commands.Get(data.Name)
	if !ok {
		metrics.CommandsTotal.WithLabelValues(data.Name, metrics.OutcomeUnknown).Inc()
		slog.WarnContext(ctx, "unknown command", "command", data.Name, "guild", i.GuildID)
		if d.unknownReply {
			if err := RespondEphemeral(s, i, fmt.Sprintf("Unknown command: /%s", data.Name)); err != nil {
				slog.WarnContext(ctx, "can't respond to unknown command", "command", data.Name, "error", err)
			}
		}
		return
	}

	inv := newSlashInvocation(s, i, data)
	d.execute(ctx, c, inv)
}

// execute runs c and contains whatever it does wrong: errors and panics are
// logged and counted, never returned.
func (d *Dispatcher) execute(ctx context.Context, c cmd.Command, inv *cmd.Invocation) {
	log := slog.With("command", c.Name(), "invocation", inv.ID, "user", inv.UserID, "guild", inv.GuildID)
	start := time.Now()

	err := safeCall(func() error { return c.Run(ctx, inv) })

	metrics.CommandDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.CommandsTotal.WithLabelValues(c.Name(), metrics.OutcomeOK).Inc()
		log.DebugContext(ctx, "command executed", "took", time.Since(start))
	case isPanic(err):
		metrics.CommandsTotal.WithLabelValues(c.Name(), metrics.OutcomePanic).Inc()
		log.ErrorContext(ctx, "command panicked", "error", err)
	default:
		metrics.CommandsTotal.WithLabelValues(c.Name(), metrics.OutcomeError).Inc()
		log.ErrorContext(ctx, "command failed", "error", err)
	}
}

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func isPanic(err error) bool {
	_, ok := err.(*panicError)
	return ok
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe := &panicError{value: r, stack: debug.Stack()}
			slog.Debug("recovered panic", "stack", string(pe.stack))
			err = pe
		}
	}()
	return fn()
}
