package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keshon/slashkit/internal/discordtypes"
	"github.com/keshon/slashkit/internal/storage"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/retrylimit"
	"github.com/keshon/slashkit/pkg/util"

	"github.com/bwmarrin/discordgo"
)

// SlashProvider lets a command supply its own definition instead of the one
// derived from its parameters (choices, sub-commands, permissions).
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// HashStore remembers which definition set was last pushed per scope.
type HashStore interface {
	GetCommandsHash(appID, guildID string) (string, error)
	SetCommandsHash(appID, guildID, hash string) error
}

var _ HashStore = (*storage.Storage)(nil)

// CommandSyncer pushes the registry's command definitions to Discord.
type CommandSyncer struct {
	registry *cmd.Registry
	store    HashStore
	limiter  *retrylimit.AdaptiveLimiter
	retry    retrylimit.Config
	workers  int
}

type SyncerOption func(*CommandSyncer)

func WithSyncWorkers(n int) SyncerOption {
	return func(cs *CommandSyncer) { cs.workers = n }
}

func WithRetryConfig(cfg retrylimit.Config) SyncerOption {
	return func(cs *CommandSyncer) { cs.retry = cfg }
}

func NewCommandSyncer(registry *cmd.Registry, store HashStore, opts ...SyncerOption) *CommandSyncer {
	cs := &CommandSyncer{
		registry: registry,
		store:    store,
		limiter:  retrylimit.NewAdaptiveLimiter(5, 1, 40, 1, 0.5),
		retry:    retrylimit.DefaultConfig(),
		workers:  4,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Definitions returns ApplicationCommand definitions for all registered commands.
func (cs *CommandSyncer) Definitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range cs.registry.GetAll() {
		defs = append(defs, commandDefinition(c))
	}
	return defs
}

// Sync overwrites the commands of one scope (global when guildID is empty) unless
// the stored hash shows Discord already has this exact set.
func (cs *CommandSyncer) Sync(ctx context.Context, s discordtypes.Session, appID, guildID string) error {
	defs := cs.Definitions()
	hash := hashCommands(defs)
	log := slog.With("guild", scopeName(guildID), "commands", len(defs))

	cached, err := cs.store.GetCommandsHash(appID, guildID)
	if err != nil {
		log.Warn("can't read cached command hash", "error", err)
	}
	if cached == hash {
		log.Debug("slash commands up to date")
		return nil
	}

	err = retrylimit.WithRetryConfig(ctx, func() error {
		_, err := s.ApplicationCommandBulkOverwrite(appID, guildID, defs)
		return err
	}, cs.limiter, cs.retry)
	if err != nil {
		return fmt.Errorf("overwrite commands for %s: %w", scopeName(guildID), err)
	}

	if err := cs.store.SetCommandsHash(appID, guildID, hash); err != nil {
		log.Warn("can't store command hash", "error", err)
	}
	log.Info("slash commands registered")
	return nil
}

// SyncAll syncs the global scope when guildIDs is empty, otherwise every listed
// guild with a bounded number of workers.
func (cs *CommandSyncer) SyncAll(ctx context.Context, s discordtypes.Session, appID string, guildIDs []string) error {
	if len(guildIDs) == 0 {
		return cs.Sync(ctx, s, appID, "")
	}
	return util.Parallel(ctx, guildIDs, cs.workers, func(ctx context.Context, guildID string) error {
		return cs.Sync(ctx, s, appID, guildID)
	})
}

// commandDefinition builds the slash definition of c. A provider's definition
// is copied so defaults never leak back into it.
func commandDefinition(c cmd.Command) *discordgo.ApplicationCommand {
	root := cmd.Root(c)

	var def *discordgo.ApplicationCommand
	if sp, ok := root.(SlashProvider); ok {
		if provided := sp.SlashDefinition(); provided != nil {
			copied := *provided
			def = &copied
		}
	}
	if def == nil {
		def = parameterDefinition(c)
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}

	if pp, ok := root.(discordtypes.PermissionProvider); ok && def.DefaultMemberPermissions == nil {
		if perms := discordtypes.PermissionMask(pp.UserPermissions()); perms != 0 {
			def.DefaultMemberPermissions = &perms
		}
	}
	return def
}

func parameterDefinition(c cmd.Command) *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
	for _, p := range c.Parameters() {
		desc := p.Description
		if desc == "" {
			desc = p.Name
		}
		def.Options = append(def.Options, &discordgo.ApplicationCommandOption{
			Type:        optionTypes[p.Type],
			Name:        p.Name,
			Description: desc,
			Required:    p.Required,
		})
	}
	return def
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return guildID
}
