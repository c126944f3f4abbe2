package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/cardtrader/internal/artwork"
	"github.com/arcanaland/cardtrader/internal/config"
	"github.com/spf13/cobra"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change the cardtrader configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Show prints the configuration after defaults, the config file,
CARDTRADER_* environment variables and flags have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.GetConfigFilePath()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

var configSetPercentageCmd = &cobra.Command{
	Use:   "set-percentage <0-100>",
	Short: "Set the default price band percentage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pct, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("percentage must be a whole number: %q", args[0])
		}

		if err := config.SetPercentage(cfgFile, pct); err != nil {
			return fmt.Errorf("error setting percentage: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default band percentage set to: %d%%\n", pct)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file, catalog database and images directory",
	Args:  cobra.NoArgs,
	// An explicit --config may not exist yet; create it before loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Init(cfgFile); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		return loadRuntime(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.GetConfigFilePath()
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config file initialized at:", path)

		store, err := openCatalog()
		if err != nil {
			return err
		}
		defer store.Close()

		version, err := store.MigrationVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog initialized at: %s (schema version %d)\n", cfg.Database, version)

		if err := os.MkdirAll(cfg.ImagesDir, 0755); err != nil {
			return fmt.Errorf("error creating images directory: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Images directory:", cfg.ImagesDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Add card photos as <set>/<name>.jpg and a %s for cards without one.\n", artwork.PlaceholderFile)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetPercentageCmd)
}
