package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Playback    PlaybackConfig    `toml:"playback"`
	Export      ExportConfig      `toml:"export"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig contains credentials for the Gemini bio drafting service.
// Either an API key or an OAuth access token may be supplied; when both are
// empty the drafting call is skipped and the local fallback template is used.
type GeminiConfig struct {
	APIKey      string `toml:"api_key"`
	AccessToken string `toml:"access_token"`
	Model       string `toml:"model"`
}

// DatabaseConfig contains database connection settings.
// The path defaults to ":memory:" so catalog state stays process-local.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PlaybackConfig contains settings for the local audio driver.
type PlaybackConfig struct {
	TickMS int `toml:"tick_ms"`
}

// ExportConfig contains defaults for catalog export commands.
type ExportConfig struct {
	Format    string  `toml:"format"`
	OutputDir string  `toml:"output_dir"`
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
