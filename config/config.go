package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"pidformatter/campaign"
	"pidformatter/imageindex"
)

const (
	KeyCampaignHubs           = "campaign.hubs"
	KeyCampaignAssetColumn    = "campaign.asset_column"
	KeyCampaignFillColumns    = "campaign.fill_columns"
	KeyCampaignSkipAssets     = "campaign.skip_assets"
	KeyCampaignAllProductsTab = "campaign.all_products_tab"
	KeyImagesBaseURL          = "images.base_url"
	KeyImagesFetchTimeout     = "images.fetch_timeout"
	KeyImagesCheckTimeout     = "images.check_timeout"
	KeyImagesConcurrency      = "images.concurrency"
	KeyImagesMaxSize          = "images.max_size"
	KeyLogLevel               = "log.level"
	KeyLogFormat              = "log.format"
)

type Config struct {
	Campaign CampaignConfig `mapstructure:"campaign"`
	Images   ImagesConfig   `mapstructure:"images"`
	Log      LogConfig      `mapstructure:"log"`
}

type CampaignConfig struct {
	Hubs           []string `mapstructure:"hubs" validate:"required,min=1,dive,required"`
	AssetColumn    int      `mapstructure:"asset_column" validate:"gte=0"`
	FillColumns    int      `mapstructure:"fill_columns" validate:"gte=0"`
	SkipAssets     []string `mapstructure:"skip_assets"`
	AllProductsTab string   `mapstructure:"all_products_tab" validate:"required"`
}

type ImagesConfig struct {
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	CheckTimeout time.Duration `mapstructure:"check_timeout" validate:"gt=0"`
	Concurrency  int           `mapstructure:"concurrency" validate:"min=1,max=64"`
	MaxSize      int           `mapstructure:"max_size" validate:"min=1"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// CampaignOptions converts the campaign section into processing options.
func (c *Config) CampaignOptions() campaign.Options {
	opts := campaign.DefaultOptions()
	opts.Hubs = trimAll(c.Campaign.Hubs)
	opts.AssetColumn = c.Campaign.AssetColumn
	opts.FillColumns = c.Campaign.FillColumns
	opts.SkipAssets = trimAll(c.Campaign.SkipAssets)
	opts.AllProductsTab = strings.TrimSpace(c.Campaign.AllProductsTab)
	return opts
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# pidformatter configuration
campaign:
  # Hub labels in priority order. Output rows are sorted by this order.
  hubs: [NCR, JPR, AHM, IND, MUM, Pune, BLR, HYD, CHN, SS]
  asset_column: 2
  fill_columns: 3
  skip_assets: [atc]
  all_products_tab: "All_PIDs"

images:
  base_url: "https://file.milkbasket.com/products/"
  fetch_timeout: 10s
  check_timeout: 4s
  concurrency: 8
  max_size: 650

log:
  level: info
  format: text
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateHubs(cfg.Campaign.Hubs); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(cfg.Images.BaseURL, "/") {
		cfg.Images.BaseURL += "/"
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := campaign.DefaultOptions()
	v.SetDefault(KeyCampaignHubs, defaults.Hubs)
	v.SetDefault(KeyCampaignAssetColumn, defaults.AssetColumn)
	v.SetDefault(KeyCampaignFillColumns, defaults.FillColumns)
	v.SetDefault(KeyCampaignSkipAssets, defaults.SkipAssets)
	v.SetDefault(KeyCampaignAllProductsTab, defaults.AllProductsTab)
	v.SetDefault(KeyImagesBaseURL, imageindex.DefaultBaseURL)
	v.SetDefault(KeyImagesFetchTimeout, 10*time.Second)
	v.SetDefault(KeyImagesCheckTimeout, 4*time.Second)
	v.SetDefault(KeyImagesConcurrency, 8)
	v.SetDefault(KeyImagesMaxSize, 650)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

func validateHubs(hubs []string) error {
	seen := make(map[string]struct{}, len(hubs))
	for i, hub := range hubs {
		name := strings.TrimSpace(hub)
		if name == "" {
			return fmt.Errorf("validation failed: campaign.hubs[%d] is blank", i)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("validation failed: duplicate hub %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
