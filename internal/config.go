package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Library       string   `mapstructure:"library"`
	PreviewWidth  int      `mapstructure:"preview_width"`
	PreviewHeight int      `mapstructure:"preview_height"`
	JPEGQuality   int      `mapstructure:"jpeg_quality"`
	ImageExt      []string `mapstructure:"image_extensions"`
	UseExiftool   bool     `mapstructure:"use_exiftool"`
}

func LoadConfig() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find user config dir: %w", err)
	}

	viper.SetConfigName("bromide")
	viper.SetConfigType("toml")
	viper.AddConfigPath(filepath.Join(configDir, "bromide"))

	// Set defaults:
	viper.SetDefault("library", filepath.Join(os.Getenv("HOME"), "bromide"))
	viper.SetDefault("preview_width", 1600)
	viper.SetDefault("preview_height", 1200)
	viper.SetDefault("jpeg_quality", 85)
	viper.SetDefault("image_extensions", []string{".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff"})
	viper.SetDefault("use_exiftool", false)

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; that's OK, just use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// RecognizedExt reports whether path carries one of the configured image
// extensions.
func (c *Config) RecognizedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.ImageExt {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
