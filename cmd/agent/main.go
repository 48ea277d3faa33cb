package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/data-publish-agent/internal/agent"
	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("data-publish-agent")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := newRootCommand(log).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func newRootCommand(log *logger.Logger) *cobra.Command {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	root := &cobra.Command{
		Use:   "data-publish-agent",
		Short: "Incremental replica of the data-publish API",
		Long: `Keeps a local SQLite or PostgreSQL replica of the data-publish collections
up to date using the version/offset cursor protocol.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.RegisterFlags(root.PersistentFlags())

	newApp := func() (*agent.App, error) {
		cfg, err := config.GetAgentConfig(flags)
		if err != nil {
			return nil, err
		}
		if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		return agent.NewApp(cfg, buildInfo, os.Stdout, log), nil
	}

	command := func(use, short string, run func(a *agent.App, ctx context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				app, err := newApp()
				if err != nil {
					return err
				}
				return run(app, cmd.Context())
			},
		}
	}

	root.AddCommand(
		command("update", "Sync all collections, once or every --repeat minutes", (*agent.App).Update),
		command("schemaupdate", "Apply pending database migrations", (*agent.App).SchemaUpdate),
		command("schemacheck", "Fail when the database schema does not match this binary", (*agent.App).SchemaCheck),
		command("syncreset", "Delete all cursors so the next update reloads everything", (*agent.App).SyncReset),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), buildInfo.String())
			},
		},
	)

	return root
}
