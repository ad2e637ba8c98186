package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"

	"karnex/internal/interfaces/cli/configcmd"
	"karnex/internal/interfaces/cli/migrate"
	"karnex/internal/interfaces/cli/server"
	"karnex/internal/interfaces/cli/token"
	"karnex/internal/shared/version"
)

// @title Karnex API
// @version 1.0
// @description Startup idea workspace API with per-client rate limiting and plan quotas.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	rootCmd := &cobra.Command{
		Use:     "karnex",
		Short:   "Karnex - startup idea workspace API",
		Long:    `Karnex API server with request admission, migration tools and operator commands.`,
		Version: version.Current(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		configcmd.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
