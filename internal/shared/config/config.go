package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/rent-alert-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// AppEnv represents the application environment
type AppEnv string

const (
	AppEnvLocal       AppEnv = "local"
	AppEnvProduction  AppEnv = "production"
	AppEnvDevelopment AppEnv = "development"
	AppEnvTesting     AppEnv = "testing"
)

// ParseAppEnv parses a string into an AppEnv, defaulting to production.
func ParseAppEnv(s string) AppEnv {
	switch AppEnv(strings.ToLower(s)) {
	case AppEnvLocal, AppEnvProduction, AppEnvDevelopment, AppEnvTesting:
		return AppEnv(strings.ToLower(s))
	default:
		return AppEnvProduction
	}
}

// SourceEntry maps a listing page URL to the parser that understands it.
type SourceEntry struct {
	URL    string `koanf:"url"`
	Parser string `koanf:"parser"`
}

type Config struct {
	TelegramBotToken string        `koanf:"telegram_bot_token"`
	TelegramAPIURL   string        `koanf:"telegram_api_url"`
	DatabasePath     string        `koanf:"database_path"`
	HTTPPort         string        `koanf:"http_port"`
	PollInterval     int           `koanf:"poll_interval"`
	BroadcastDelayMS int           `koanf:"broadcast_delay_ms"`
	FeedWindow       int           `koanf:"feed_window"`
	AppEnv           AppEnv        `koanf:"app_env"`
	Sources          []SourceEntry `koanf:"sources"`
}

const bazarakiListingURL = "https://www.bazaraki.com/real-estate/houses-and-villas-rent/lemesos-district-limassol/"

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("database_path") {
		k.Set("database_path", "rentbot.db")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("poll_interval") {
		k.Set("poll_interval", 2)
	}
	if !k.Exists("broadcast_delay_ms") {
		k.Set("broadcast_delay_ms", 50)
	}
	if !k.Exists("feed_window") {
		k.Set("feed_window", 50)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.AppEnv = ParseAppEnv(string(cfg.AppEnv))

	// Without configured sources the bot watches the Limassol rentals page.
	if len(cfg.Sources) == 0 {
		cfg.Sources = []SourceEntry{{URL: bazarakiListingURL, Parser: "bazaraki"}}
	}
	for _, src := range cfg.Sources {
		if src.URL == "" || src.Parser == "" {
			return nil, oops.With("url", src.URL, "parser", src.Parser).New("source entries require both url and parser")
		}
	}

	// Validate required fields
	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}

	return &cfg, nil
}
