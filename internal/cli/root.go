// Package cli provides snipxctl, the operator command line for snipx-service.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "snipx-service/internal/resource"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/manager"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	configPath string

	cfg       *config.Config
	logSvc    *logger.Logger
	resources bool
)

var rootCmd = &cobra.Command{
	Use:   "snipxctl",
	Short: "Operate a snipx-service deployment",
	Long: `snipxctl runs maintenance tasks against the same configuration and
record store as the snipx-service API: schema migration, synchronous
processing runs, offline subtitle synthesis and account administration.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		path := configPath
		if path == "" {
			path = config.ResolvePath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
		config.SetGlobalConfig(cfg)
		logSvc = logger.NewLogger(cfg)
		logger.SetGlobalLogger(logSvc)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if resources {
			manager.CloseResources()
		}
		if logSvc != nil {
			logSvc.Close()
		}
	},
}

// openResources opens the database and the optional backends on first use.
func openResources() {
	if resources {
		return
	}
	manager.MustInitResources()
	resources = true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default from CONFIG_PATH / CONFIG_ENV)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(subtitlesCmd)
	rootCmd.AddCommand(promoteAdminCmd)
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
