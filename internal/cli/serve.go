package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/cache"
	"github.com/matzehuels/posterkit/pkg/server"
)

// serveCommand creates the command that runs the web UI.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the poster web UI",
		Long: `Serve the poster forms over HTTP. Each submitted form is rendered once and
kept for download until the artifact TTL ([server].artifact_ttl) expires.

With [cache].backend = "redis", rendered posters and pending downloads are
shared by every instance pointing at the same Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := commandLogger(cmd)

			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			env, err := c.newEnv()
			if err != nil {
				return err
			}
			mode := cacheServer
			if noCache {
				mode = cacheOff
			}
			runner, err := c.newRunner(ctx, env, mode)
			if err != nil {
				return err
			}
			defer runner.Close()

			var store cache.Cache
			if !noCache && c.cfg.Cache.Backend == cache.BackendRedis {
				store = runner.Cache
			}

			library := make([]server.LibraryLink, 0, len(c.cfg.Library))
			for _, l := range c.cfg.Library {
				library = append(library, server.LibraryLink{Title: l.Title, URL: l.URL})
			}

			srv, err := server.New(server.Options{
				Runner:         runner,
				Store:          store,
				Library:        library,
				ArtifactTTL:    c.cfg.Server.ArtifactTTL,
				RequestTimeout: c.cfg.Server.RequestTimeout,
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			printInfo("Serving posters on %s", StyleLink.Render(displayURL(addr)))
			printDetail("Press Ctrl+C to stop")
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
