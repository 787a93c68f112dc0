package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/discordtypes/discordtest"
	"github.com/keshon/slashkit/internal/event"
	"github.com/keshon/slashkit/internal/metrics"
	"github.com/keshon/slashkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcCommand struct {
	name   string
	params []cmd.Parameter
	run    func(ctx context.Context, inv *cmd.Invocation) error
}

func (c *funcCommand) Name() string                { return c.name }
func (c *funcCommand) Description() string         { return c.name + " command" }
func (c *funcCommand) Parameters() []cmd.Parameter { return c.params }
func (c *funcCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return c.run(ctx, inv)
}

func sumCommand() *funcCommand {
	return &funcCommand{
		name: "sum",
		params: []cmd.Parameter{
			{Name: "a", Type: cmd.Integer, Required: true},
			{Name: "b", Type: cmd.Integer, Required: true},
		},
		run: func(ctx context.Context, inv *cmd.Invocation) error {
			a, _ := inv.Int("a")
			b, _ := inv.Int("b")
			return inv.Reply(ctx, fmt.Sprintf("Result: %d", a+b))
		},
	}
}

func newDispatcher(t *testing.T, cmds []cmd.Command, handlers []event.Handler, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	cr := cmd.NewRegistry()
	for _, c := range cmds {
		require.NoError(t, cr.Register(c))
	}
	hr := event.NewRegistry()
	for _, h := range handlers {
		require.NoError(t, hr.Register(h))
	}
	cr.Seal()
	hr.Seal()
	return NewDispatcher(cr, hr, opts...)
}

func TestDispatcherRunsSlashCommand(t *testing.T) {
	var seen *cmd.Invocation
	sum := sumCommand()
	inner := sum.run
	sum.run = func(ctx context.Context, inv *cmd.Invocation) error {
		seen = inv
		return inner(ctx, inv)
	}

	d := newDispatcher(t, []cmd.Command{sum}, nil)
	s := discordtest.New()
	d.InteractionCreate(context.Background(), s,
		discordtest.SlashCommand("sum", "g1", "u1", discordtest.IntOption("a", 5), discordtest.IntOption("b", 7)))

	require.Len(t, s.Responses, 1)
	assert.Equal(t, "Result: 12", s.Responses[0].Content)
	assert.False(t, s.Responses[0].Ephemeral)

	require.NotNil(t, seen)
	assert.Equal(t, "g1", seen.GuildID)
	assert.Equal(t, "u1", seen.UserID)
	sc, ok := seen.Data.(*discordtypes.SlashContext)
	require.True(t, ok)
	assert.Equal(t, "u1", sc.User().ID)
}

func TestDispatcherSecondReplyIsFollowup(t *testing.T) {
	twice := &funcCommand{name: "twice", run: func(ctx context.Context, inv *cmd.Invocation) error {
		if err := inv.Reply(ctx, "one"); err != nil {
			return err
		}
		return inv.Reply(ctx, "two")
	}}
	d := newDispatcher(t, []cmd.Command{twice}, nil)
	s := discordtest.New()
	d.InteractionCreate(context.Background(), s, discordtest.SlashCommand("twice", "g1", "u1"))

	require.Len(t, s.Responses, 2)
	assert.False(t, s.Responses[0].Followup)
	assert.True(t, s.Responses[1].Followup)
	assert.Equal(t, []string{"one", "two"}, s.Contents())
}

func TestDispatcherUnknownCommand(t *testing.T) {
	before := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("nope", metrics.OutcomeUnknown))

	t.Run("reply", func(t *testing.T) {
		d := newDispatcher(t, []cmd.Command{sumCommand()}, nil, WithUnknownCommandReply(true))
		s := discordtest.New()
		d.InteractionCreate(context.Background(), s, discordtest.SlashCommand("nope", "g1", "u1"))

		require.Len(t, s.Responses, 1)
		assert.Equal(t, "Unknown command: /nope", s.Responses[0].Content)
		assert.True(t, s.Responses[0].Ephemeral)
	})

	t.Run("silent", func(t *testing.T) {
		d := newDispatcher(t, []cmd.Command{sumCommand()}, nil)
		s := discordtest.New()
		d.InteractionCreate(context.Background(), s, discordtest.SlashCommand("nope", "g1", "u1"))
		assert.Empty(t, s.Responses)
	})

	after := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("nope", metrics.OutcomeUnknown))
	assert.Equal(t, before+2, after)
}

func TestDispatcherContainsCommandFailures(t *testing.T) {
	failing := &funcCommand{name: "fail", run: func(context.Context, *cmd.Invocation) error {
		return errors.New("boom")
	}}
	panicking := &funcCommand{name: "explode", run: func(context.Context, *cmd.Invocation) error {
		panic("kaboom")
	}}
	d := newDispatcher(t, []cmd.Command{failing, panicking, sumCommand()}, nil)
	s := discordtest.New()

	panicsBefore := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("explode", metrics.OutcomePanic))
	require.NotPanics(t, func() {
		d.InteractionCreate(context.Background(), s, discordtest.SlashCommand("fail", "g1", "u1"))
		d.InteractionCreate(context.Background(), s, discordtest.SlashCommand("explode", "g1", "u1"))
	})
	assert.Empty(t, s.Responses, "failures are not reported to the user")
	assert.Equal(t, panicsBefore+1, testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("explode", metrics.OutcomePanic)))

	d.InteractionCreate(context.Background(), s,
		discordtest.SlashCommand("sum", "g1", "u1", discordtest.IntOption("a", 1), discordtest.IntOption("b", 2)))
	assert.Equal(t, []string{"Result: 3"}, s.Contents())
}

func TestDispatcherIgnoresOtherInteractions(t *testing.T) {
	called := false
	c := &funcCommand{name: "sum", run: func(context.Context, *cmd.Invocation) error {
		called = true
		return nil
	}}
	d := newDispatcher(t, []cmd.Command{c}, nil, WithUnknownCommandReply(true))
	s := discordtest.New()

	d.InteractionCreate(context.Background(), s, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "sum"},
	}})
	d.InteractionCreate(context.Background(), s, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "sum", CommandType: discordgo.UserApplicationCommand},
	}})
	d.InteractionCreate(context.Background(), s, nil)

	assert.False(t, called)
	assert.Empty(t, s.Responses)
}

func TestDispatcherFansOutInOrder(t *testing.T) {
	var trace []string
	record := func(label string, err error) event.Handler {
		return &event.Funcs{MessageCreate: func(context.Context, discordtypes.Session, *discordgo.MessageCreate) error {
			trace = append(trace, label)
			return err
		}}
	}
	exploding := &event.Funcs{MessageCreate: func(context.Context, discordtypes.Session, *discordgo.MessageCreate) error {
		trace = append(trace, "panic")
		panic("handler bug")
	}}

	d := newDispatcher(t, nil, []event.Handler{
		record("first", nil),
		record("failing", errors.New("nope")),
		exploding,
		record("last", nil),
	})

	failuresBefore := testutil.ToFloat64(metrics.HandlerFailuresTotal.WithLabelValues(string(event.KindMessageCreate)))
	msg := &discordgo.MessageCreate{Message: &discordgo.Message{ChannelID: "c1", Content: "hi"}}
	require.NotPanics(t, func() {
		d.MessageCreate(context.Background(), discordtest.New(), msg)
	})

	assert.Equal(t, []string{"first", "failing", "panic", "last"}, trace)
	assert.Equal(t, failuresBefore+2, testutil.ToFloat64(metrics.HandlerFailuresTotal.WithLabelValues(string(event.KindMessageCreate))))
}

func TestDispatcherEventsReachEveryKind(t *testing.T) {
	var got []event.Kind
	h := &event.Funcs{
		Ready: func(context.Context, discordtypes.Session, *discordgo.Ready) error {
			got = append(got, event.KindReady)
			return nil
		},
		GuildCreate: func(context.Context, discordtypes.Session, *discordgo.GuildCreate) error {
			got = append(got, event.KindGuildCreate)
			return nil
		},
		ReactionAdd: func(context.Context, discordtypes.Session, *discordgo.MessageReactionAdd) error {
			got = append(got, event.KindReactionAdd)
			return nil
		},
	}
	d := newDispatcher(t, nil, []event.Handler{h, event.Base{}})
	s := discordtest.New()
	ctx := context.Background()

	d.Ready(ctx, s, &discordgo.Ready{})
	d.MessageCreate(ctx, s, &discordgo.MessageCreate{Message: &discordgo.Message{}})
	d.GuildCreate(ctx, s, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "g1"}})
	d.ReactionAdd(ctx, s, &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{}})

	assert.Equal(t, []event.Kind{event.KindReady, event.KindGuildCreate, event.KindReactionAdd}, got)
}

func TestDispatcherWithoutHandlers(t *testing.T) {
	d := newDispatcher(t, nil, nil)
	s := discordtest.New()
	require.NotPanics(t, func() {
		d.MessageCreate(context.Background(), s, &discordgo.MessageCreate{Message: &discordgo.Message{ChannelID: "c1"}})
	})
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.Responses)
}

func TestDispatcherContainsReplyFailures(t *testing.T) {
	d := newDispatcher(t, []cmd.Command{sumCommand()}, nil)
	s := discordtest.New()
	s.RespondErr = errors.New("unknown interaction")

	errorsBefore := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("sum", metrics.OutcomeError))
	require.NotPanics(t, func() {
		d.InteractionCreate(context.Background(), s,
			discordtest.SlashCommand("sum", "g1", "u1", discordtest.IntOption("a", 5), discordtest.IntOption("b", 7)))
	})
	assert.Empty(t, s.Responses)
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("sum", metrics.OutcomeError)))

	s.RespondErr = nil
	d.InteractionCreate(context.Background(), s,
		discordtest.SlashCommand("sum", "g1", "u1", discordtest.IntOption("a", 5), discordtest.IntOption("b", 7)))
	assert.Equal(t, []string{"Result: 12"}, s.Contents())
}
