package event

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/slashkit/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onlyReady overrides a single callback and inherits the rest from Base.
type onlyReady struct {
	Base
	calls int
}

func (h *onlyReady) OnReady(context.Context, discordtypes.Session, *discordgo.Ready) error {
	h.calls++
	return nil
}

func callAll(t *testing.T, h Handler) {
	t.Helper()
	ctx := context.Background()
	for _, k := range Kinds {
		var err error
		switch k {
		case KindReady:
			err = h.OnReady(ctx, nil, &discordgo.Ready{})
		case KindMessageCreate:
			err = h.OnMessageCreate(ctx, nil, &discordgo.MessageCreate{Message: &discordgo.Message{}})
		case KindGuildCreate:
			err = h.OnGuildCreate(ctx, nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{}})
		case KindReactionAdd:
			err = h.OnReactionAdd(ctx, nil, &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{}})
		default:
			t.Fatalf("kind %q not covered", k)
		}
		require.NoError(t, err, k)
	}
}

func TestBaseIsNoop(t *testing.T) {
	callAll(t, Base{})
}

func TestPartialOverrideKeepsDefaults(t *testing.T) {
	h := &onlyReady{}
	callAll(t, h)
	assert.Equal(t, 1, h.calls)
}

func TestFuncsNilFieldsAreNoop(t *testing.T) {
	callAll(t, &Funcs{})

	wantErr := errors.New("boom")
	f := &Funcs{MessageCreate: func(context.Context, discordtypes.Session, *discordgo.MessageCreate) error {
		return wantErr
	}}
	err := f.OnMessageCreate(context.Background(), nil, &discordgo.MessageCreate{Message: &discordgo.Message{}})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, f.OnReady(context.Background(), nil, &discordgo.Ready{}))
}

func TestRegistryOrderAndSeal(t *testing.T) {
	r := NewRegistry()
	a, b, c := &Funcs{}, &Funcs{}, &onlyReady{}
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))
	require.NoError(t, r.Register(c))
	assert.ErrorIs(t, r.Register(nil), ErrNilHandler)

	all := r.All()
	require.Len(t, all, 3)
	assert.Same(t, a, all[0])
	assert.Same(t, b, all[1])
	assert.Same(t, c, all[2])

	all[0] = nil
	assert.NotNil(t, r.All()[0], "snapshot must not alias the registry")

	r.Seal()
	assert.ErrorIs(t, r.Register(&Funcs{}), ErrSealed)
	assert.Equal(t, 3, r.Len())
}
