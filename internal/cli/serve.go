package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/internal/server"
	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/observability"
	"github.com/matzehuels/gitlanes/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts of the configured repositories over HTTP",
		Long: `Serve layouts of the configured repositories over HTTP.

Repositories come from the [repos] table of the config file and are addressed
by name: GET /api/repos/<name>/graph. POST /api/layout lays out a posted feed
and /api/snapshots stores layouts, in MongoDB when server.mongo_uri is set
and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	cfg := c.Config
	for name := range cfg.Repos {
		if err := apperr.ValidateRepoName(name); err != nil {
			return fmt.Errorf("config [repos]: %w", err)
		}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

	printInfo("Serving %d repositories on %s", len(cfg.Repos), cfg.Server.Addr)
	for _, name := range slices.Sorted(maps.Keys(cfg.Repos)) {
		printKeyValue(name, cfg.Repos[name])
	}

	srv := server.New(server.Config{
		Repos:  cfg.Repos,
		Runner: runner,
		Store:  st,
		Logger: c.Logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// openStore connects to MongoDB when configured and falls back to memory.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	sc := c.Config.Server
	if sc.MongoURI == "" {
		c.Logger.Warn("snapshots are kept in memory; set server.mongo_uri to persist them")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, sc.MongoURI, sc.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot store: %w", err)
	}
	c.Logger.Info("snapshot store connected", "database", sc.MongoDatabase)
	return st, nil
}
