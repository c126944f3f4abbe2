package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcanaland/cardtrader/internal/catalog"
	"github.com/arcanaland/cardtrader/internal/config"
	"github.com/arcanaland/cardtrader/internal/engine"
	"github.com/arcanaland/cardtrader/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardtrader",
	Short: "Find cards priced close to the one you are trading",
	Long: `Cardtrader searches a trading card catalog for cards whose price falls
within a percentage band around a reference card, so a trade can be
matched quickly. References are written "name | set | $price".

The catalog is a SQLite database; card photos live under the images
directory as <set>/<name>.jpg.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/cardtrader/config.toml)")
	RootCmd.PersistentFlags().String("database", "", "catalog database file")
	RootCmd.PersistentFlags().String("images", "", "card photo directory")
	RootCmd.PersistentFlags().String("cache-dir", "", "directory for rendered art and history")
	RootCmd.PersistentFlags().Int("percent", config.DefaultPercentage, "price band percentage")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadRuntime resolves the configuration and logger for the running command.
func loadRuntime(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	l, err := logging.New(loaded.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, logger = loaded, l
	logger.WithField("database", cfg.Database).Debug("configuration loaded")
	return nil
}

// openCatalog opens and migrates the configured database.
func openCatalog() (*catalog.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	store := catalog.NewSQLiteStore(logger)
	if err := store.Open(cfg.Database); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// openEngine returns an engine over the configured catalog and a func that
// releases it.
func openEngine() (*engine.Engine, func(), error) {
	store, err := openCatalog()
	if err != nil {
		return nil, nil, err
	}
	return engine.New(store, logger), func() { _ = store.Close() }, nil
}
