package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coursetrack/backend"
	"coursetrack/backend/gormstore"
	"coursetrack/backend/rest"
	"coursetrack/config"
	"coursetrack/database"
	"coursetrack/utils"
)

var rootCmd = &cobra.Command{
	Use:   "coursetrack",
	Short: "Course progress, grades and certificates for an LMS",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (defaults to ./.env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tokenCmd)
}

// setup loads configuration and installs the global logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	var files []string
	if p, _ := cmd.Flags().GetString("env-file"); p != "" {
		files = append(files, p)
	}
	cfg := config.LoadConfig(files...)

	log, err := utils.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

// openBackend returns the configured data source. The database backend is
// migrated before use.
func openBackend(cfg *config.Config, log *zap.Logger) (backend.Backend, error) {
	switch cfg.Backend {
	case "database", "":
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		log.Info("using database backend", zap.String("driver", cfg.DBDriver))
		return gormstore.New(db), nil
	case "rest":
		if cfg.BackendURL == "" {
			return nil, fmt.Errorf("BACKEND_URL is required for the rest backend")
		}
		log.Info("using rest backend", zap.String("url", cfg.BackendURL))
		return rest.New(cfg.BackendURL, cfg.BackendAPIKey, cfg.BackendTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported BACKEND %q", cfg.Backend)
	}
}
