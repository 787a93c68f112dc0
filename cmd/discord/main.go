// cmd/discord/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/slashkit/internal/command"
	"github.com/keshon/slashkit/internal/config"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/event"
	"github.com/keshon/slashkit/internal/events"
	"github.com/keshon/slashkit/internal/logging"
	"github.com/keshon/slashkit/internal/metrics"
	"github.com/keshon/slashkit/internal/middleware"
	"github.com/keshon/slashkit/internal/storage"
	v "github.com/keshon/slashkit/internal/version"
	"github.com/keshon/slashkit/pkg/cmd"
	"github.com/keshon/slashkit/pkg/jobmgr"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("starting bot", "app", v.AppName, "version", v.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	commands := cmd.NewRegistry()
	if err := command.RegisterAll(commands,
		middleware.WithGuildOnly(),
		middleware.WithPermissionCheck(),
		middleware.WithCooldown(cfg.CommandCooldown),
		middleware.WithCommandLogger(store),
	); err != nil {
		return err
	}
	commands.Seal()

	jobs := jobmgr.NewManager(func(status string) { slog.Debug("job", "status", status) })
	syncer := discord.NewCommandSyncer(commands, store, discord.WithSyncWorkers(cfg.SyncWorkers))

	handlers := event.NewRegistry()
	handlers.MustRegister(events.NewGuildGuard(cfg.DiscordGuildBlacklist))
	handlers.MustRegister(events.NewCommandSync(syncer, jobs, cfg.DiscordGuildIDs, cfg.InitSlashCommands))
	handlers.MustRegister(events.NewMentionHelp())
	handlers.Seal()

	slog.Info("registries sealed", "commands", commands.Len(), "handlers", handlers.Len())

	dispatcher := discord.NewDispatcher(commands, handlers,
		discord.WithUnknownCommandReply(cfg.UnknownCommandReply))

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	bot := discord.NewBot(cfg.DiscordToken, dispatcher)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case s := <-sig:
		slog.Info("received signal, shutting down", "signal", s.String())
	case err := <-errCh:
		if err != nil {
			slog.Error("discord bot error", "error", err)
			runErr = err
		}
	}
	cancel()

	for _, name := range jobs.List() {
		_ = jobs.Stop(name)
	}
	<-errCh

	slog.Info("discord bot exited cleanly")
	return runErr
}
