package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"pidformatter/config"
)

const defaultConfigName = ".pidformatter.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pidformatter configuration file values.",
	Long: `Create, edit, display, and delete the pidformatter configuration file.

The configuration stores processing and image settings:
- campaign.hubs / asset_column / fill_columns / skip_assets / all_products_tab
- images.base_url / fetch_timeout / check_timeout / concurrency / max_size
- log.level / log.format`,
	Example: `
  # Create default config in $HOME/.pidformatter.yaml
  pidformatter config create

  # Show active config and source file
  pidformatter config show

  # Open active config in editor (creates example if missing)
  pidformatter config edit

  # Delete active config file
  pidformatter config delete
`,
}

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

An existing file is never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := createConfigFile(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("New config file created at: %s\n", path)
			return nil
		}
		fmt.Printf("Config file already exists at: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the validated configuration and the file it was loaded from.

Values not set in the file show their defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		source := viper.ConfigFileUsed()
		if source == "" {
			source = "(defaults, no file)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config file loaded from:", source)
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, configRows(cfg), nil))
		return nil
	},
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Example: `
  # Delete config at a custom path
  pidformatter --configFile ./custom-pidformatter.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			return errors.New("no configuration file found")
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("error deleting configuration file: %w", err)
		}
		fmt.Printf("Configuration file successfully deleted: %s\n", path)
		return nil
	},
}

func configRows(cfg *config.Config) [][]string {
	return [][]string{
		{config.KeyCampaignHubs, strings.Join(cfg.Campaign.Hubs, ", ")},
		{config.KeyCampaignAssetColumn, strconv.Itoa(cfg.Campaign.AssetColumn)},
		{config.KeyCampaignFillColumns, strconv.Itoa(cfg.Campaign.FillColumns)},
		{config.KeyCampaignSkipAssets, strings.Join(cfg.Campaign.SkipAssets, ", ")},
		{config.KeyCampaignAllProductsTab, cfg.Campaign.AllProductsTab},
		{config.KeyImagesBaseURL, cfg.Images.BaseURL},
		{config.KeyImagesFetchTimeout, cfg.Images.FetchTimeout.String()},
		{config.KeyImagesCheckTimeout, cfg.Images.CheckTimeout.String()},
		{config.KeyImagesConcurrency, strconv.Itoa(cfg.Images.Concurrency)},
		{config.KeyImagesMaxSize, strconv.Itoa(cfg.Images.MaxSize)},
		{config.KeyLogLevel, cfg.Log.Level},
		{config.KeyLogFormat, cfg.Log.Format},
	}
}

// configPath picks the --configFile flag, then the loaded file, then
// $HOME/.pidformatter.yaml.
func configPath(flagValue, used string) (string, error) {
	for _, candidate := range []string{flagValue, used} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

func createConfigFile(flagValue, used string) (string, bool, error) {
	path, err := configPath(flagValue, used)
	if err != nil {
		return "", false, err
	}
	created, err := writeTemplateIfMissing(path)
	return path, created, err
}

func writeTemplateIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCreateCmd, configShowCmd, configDeleteCmd)
}
