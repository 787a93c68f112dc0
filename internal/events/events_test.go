package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/discordtypes/discordtest"
	"github.com/keshon/slashkit/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSyncer struct {
	mu      sync.Mutex
	calls   []string
	release chan struct{}
	err     error
}

func (r *recordingSyncer) SyncAll(ctx context.Context, _ discordtypes.Session, appID string, _ []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, appID)
	r.mu.Unlock()
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.err
}

func (r *recordingSyncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func ready(botID string, guildIDs ...string) *discordgo.Ready {
	r := &discordgo.Ready{
		User:        &discordgo.User{ID: botID, Username: "bot"},
		Application: &discordgo.Application{ID: "app-" + botID},
	}
	for _, id := range guildIDs {
		r.Guilds = append(r.Guilds, &discordgo.Guild{ID: id, Name: "guild " + id})
	}
	return r
}

func TestCommandSyncRunsOnReady(t *testing.T) {
	syncer := &recordingSyncer{}
	jobs := jobmgr.NewManager(nil)
	h := NewCommandSync(syncer, jobs, nil, true)

	require.NoError(t, h.OnReady(context.Background(), discordtest.New(), ready("b1")))
	jobs.Wait(commandSyncJob)

	assert.Equal(t, []string{"app-b1"}, syncer.calls)
}

func TestCommandSyncSkipsWhileRunning(t *testing.T) {
	syncer := &recordingSyncer{release: make(chan struct{})}
	jobs := jobmgr.NewManager(nil)
	h := NewCommandSync(syncer, jobs, []string{"g1"}, true)
	ctx := context.Background()

	require.NoError(t, h.OnReady(ctx, discordtest.New(), ready("b1")))
	require.NoError(t, h.OnReady(ctx, discordtest.New(), ready("b1")))
	close(syncer.release)
	jobs.Wait(commandSyncJob)

	assert.Equal(t, 1, syncer.count())
}

func TestCommandSyncDisabled(t *testing.T) {
	syncer := &recordingSyncer{}
	jobs := jobmgr.NewManager(nil)
	h := NewCommandSync(syncer, jobs, nil, false)

	require.NoError(t, h.OnReady(context.Background(), discordtest.New(), ready("b1")))
	assert.Empty(t, jobs.List())
	assert.Zero(t, syncer.count())
}

func TestApplicationIDFallsBackToUser(t *testing.T) {
	assert.Equal(t, "b1", applicationID(&discordgo.Ready{User: &discordgo.User{ID: "b1"}}))
	assert.Equal(t, "", applicationID(&discordgo.Ready{}))
}

func TestGuildGuard(t *testing.T) {
	h := NewGuildGuard([]string{"bad1", "bad2"})
	s := discordtest.New()
	ctx := context.Background()

	require.NoError(t, h.OnReady(ctx, s, ready("b1", "ok", "bad1", "bad2")))
	assert.Equal(t, []string{"bad1", "bad2"}, s.Left)

	require.NoError(t, h.OnGuildCreate(ctx, s, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "fine"}}))
	require.NoError(t, h.OnGuildCreate(ctx, s, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "bad1"}}))
	assert.Equal(t, []string{"bad1", "bad2", "bad1"}, s.Left)
}

func TestGuildGuardReportsLeaveFailures(t *testing.T) {
	h := NewGuildGuard([]string{"bad"})
	s := discordtest.New()
	s.LeaveErr = errors.New("forbidden")

	err := h.OnReady(context.Background(), s, ready("b1", "bad"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leave guild bad")
}

func TestMentionHelp(t *testing.T) {
	h := NewMentionHelp()
	s := discordtest.New()
	ctx := context.Background()

	msg := func(author *discordgo.User, mentions ...*discordgo.User) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{ChannelID: "c1", Author: author, Mentions: mentions}}
	}
	alice := &discordgo.User{ID: "u1"}
	bot := &discordgo.User{ID: "b1"}

	require.NoError(t, h.OnMessageCreate(ctx, s, msg(alice, bot)))
	assert.Empty(t, s.Messages, "bot ID unknown before ready")

	require.NoError(t, h.OnReady(ctx, s, ready("b1")))
	require.NoError(t, h.OnMessageCreate(ctx, s, msg(alice)))
	require.NoError(t, h.OnMessageCreate(ctx, s, msg(&discordgo.User{ID: "u2", Bot: true}, bot)))
	assert.Empty(t, s.Messages)

	require.NoError(t, h.OnMessageCreate(ctx, s, msg(alice, bot)))
	assert.Equal(t, []string{mentionReply}, s.Messages["c1"])
}
