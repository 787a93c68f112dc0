// Package events holds the lifecycle handlers the bot registers at start-up.
package events

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/event"
	"github.com/keshon/slashkit/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
)

const commandSyncJob = "command-sync"

// Syncer pushes command definitions to Discord.
type Syncer interface {
	SyncAll(ctx context.Context, s discordtypes.Session, appID string, guildIDs []string) error
}

// CommandSync registers slash commands once the gateway is ready. The sync runs
// as a background job so the gateway loop is not blocked.
type CommandSync struct {
	event.Base

	syncer   Syncer
	jobs     *jobmgr.Manager
	guildIDs []string
	enabled  bool
}

func NewCommandSync(syncer Syncer, jobs *jobmgr.Manager, guildIDs []string, enabled bool) *CommandSync {
	return &CommandSync{syncer: syncer, jobs: jobs, guildIDs: guildIDs, enabled: enabled}
}

func (h *CommandSync) OnReady(ctx context.Context, s discordtypes.Session, r *discordgo.Ready) error {
	if !h.enabled {
		slog.Info("registering slash commands skipped")
		return nil
	}

	appID := applicationID(r)
	err := h.jobs.StartAsync(ctx, commandSyncJob, func(ctx context.Context) error {
		if err := h.syncer.SyncAll(ctx, s, appID, h.guildIDs); err != nil {
			slog.Error("error registering slash commands", "error", err)
			return err
		}
		slog.Info("slash commands registered successfully")
		return nil
	})
	if errors.Is(err, jobmgr.ErrAlreadyRunning) {
		slog.Debug("command sync already running, skipping")
		return nil
	}
	return err
}

func applicationID(r *discordgo.Ready) string {
	if r.Application != nil && r.Application.ID != "" {
		return r.Application.ID
	}
	if r.User != nil {
		return r.User.ID
	}
	return ""
}
