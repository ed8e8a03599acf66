//	@title			Storefront API
//	@version		1.0
//	@description	Backend for a small storefront: products, blog posts, image uploads, enquiries and the sitemap.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/navidved/storefront/internal/config"
	"github.com/navidved/storefront/internal/db"
	"github.com/navidved/storefront/internal/logger"

	_ "github.com/navidved/storefront/docs/swagger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// newRootCmd returns the storefront command. Without a subcommand it serves the API.
func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront API server",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logger.Init(cfg.AppEnv, cfg.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return db.Migrate(cfg.DatabaseURL)
			},
		},
	)
	return root
}
