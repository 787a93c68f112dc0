// cmd/cli/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/slashkit/internal/command"
	"github.com/keshon/slashkit/internal/command/core"
	"github.com/keshon/slashkit/internal/config"
	"github.com/keshon/slashkit/internal/discord"
	"github.com/keshon/slashkit/internal/logging"
	"github.com/keshon/slashkit/internal/middleware"
	"github.com/keshon/slashkit/internal/storage"
	v "github.com/keshon/slashkit/internal/version"
	"github.com/keshon/slashkit/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/urfave/cli/v2"
)

var (
	storageFlag = &cli.StringFlag{
		Name:    "storage",
		Usage:   "path of the JSON datastore",
		EnvVars: []string{"STORAGE_PATH"},
		Value:   "datastore.json",
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		EnvVars: []string{"LOG_LEVEL"},
		Value:   "warn",
	}
	guildFlag = &cli.StringFlag{
		Name:  "guild",
		Usage: "guild ID; empty means DMs and CLI runs",
	}
	guildsFlag = &cli.StringSliceFlag{
		Name:  "guild",
		Usage: "guild to sync; repeat for several, omit for the global scope",
	}
	appIDFlag = &cli.StringFlag{
		Name:    "app-id",
		Usage:   "application ID; looked up from the token when empty",
		EnvVars: []string{"DISCORD_APP_ID"},
	}
)

func main() {
	app := &cli.App{
		Name:    v.AppName,
		Usage:   v.AppDescription,
		Version: v.Version,
		Flags:   []cli.Flag{logLevelFlag},
		Before: func(c *cli.Context) error {
			_, err := logging.Setup(logging.Options{Level: c.String(logLevelFlag.Name)})
			return err
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "print the command catalog",
				Action: listAction,
			},
			{
				Name:      "run",
				Usage:     "run a command locally and print its replies",
				ArgsUsage: "<name> [args...]",
				Flags:     []cli.Flag{storageFlag},
				Action:    runAction,
			},
			{
				Name:   "sync",
				Usage:  "push slash command definitions to Discord",
				Flags:  []cli.Flag{storageFlag, guildsFlag, appIDFlag},
				Action: syncAction,
			},
			{
				Name:   "history",
				Usage:  "print stored command history",
				Flags:  []cli.Flag{storageFlag, guildFlag},
				Action: historyAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func builtinRegistry(mws ...cmd.Middleware) (*cmd.Registry, error) {
	reg := cmd.NewRegistry()
	if err := command.RegisterAll(reg, mws...); err != nil {
		return nil, err
	}
	reg.Seal()
	return reg, nil
}

func listAction(c *cli.Context) error {
	reg, err := builtinRegistry()
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, core.BuildCatalog(reg))
	return nil
}

func runAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: run <name> [args...]", 2)
	}

	store, err := storage.New(c.String(storageFlag.Name))
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := builtinRegistry(middleware.WithCommandLogger(store))
	if err != nil {
		return err
	}

	name := c.Args().First()
	target, ok := reg.Get(name)
	if !ok {
		return cli.Exit(fmt.Sprintf("Unknown command: /%s", name), 1)
	}

	opts, err := cmd.Bind(target.Parameters(), c.Args().Tail())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	inv := cmd.NewInvocation(name, opts)
	inv.UserID = "cli"
	inv.Responder = cmd.ResponderFunc(func(_ context.Context, content string) error {
		_, err := fmt.Fprintln(c.App.Writer, content)
		return err
	})
	return target.Run(c.Context, inv)
}

func syncAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.New(c.String(storageFlag.Name))
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := builtinRegistry()
	if err != nil {
		return err
	}

	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	appID := c.String(appIDFlag.Name)
	if appID == "" {
		me, err := s.User("@me")
		if err != nil {
			return fmt.Errorf("look up application ID: %w", err)
		}
		appID = me.ID
	}

	guilds := c.StringSlice(guildsFlag.Name)
	if len(guilds) == 0 {
		guilds = cfg.DiscordGuildIDs
	}

	syncer := discord.NewCommandSyncer(reg, store, discord.WithSyncWorkers(cfg.SyncWorkers))
	if err := syncer.SyncAll(c.Context, s, appID, guilds); err != nil {
		return err
	}
	slog.Info("sync finished", "app", appID, "guilds", len(guilds))
	fmt.Fprintf(c.App.Writer, "synced %d commands\n", reg.Len())
	return nil
}

func historyAction(c *cli.Context) error {
	store, err := storage.New(c.String(storageFlag.Name))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.FetchCommandHistory(c.String(guildFlag.Name))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(c.App.Writer, "no command history")
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-12s /%s %s", r.Datetime.Format("2006-01-02 15:04:05"), r.Username, r.Command, r.Param)
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}
