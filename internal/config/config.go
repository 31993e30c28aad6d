package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type SlackConfig struct {
	BotToken      string `yaml:"bot_token"`
	SigningSecret string `yaml:"signing_secret"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name"`
	GID             int64  `yaml:"gid"`
	CredentialsFile string `yaml:"credentials_file"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config is built once at startup and passed into every constructor;
// no component reads the environment on its own.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Slack  SlackConfig  `yaml:"slack"`
	Gemini GeminiConfig `yaml:"gemini"`
	Sheets SheetsConfig `yaml:"sheets"`
	Redis  RedisConfig  `yaml:"redis"`
}

// Load reads config/base.yaml plus the CONFIG_ENV overlay and applies
// environment-variable overrides, which take the highest precedence.
func Load() *Config {
	env := GetConfigEnv()
	configDir := GetEnv("CONFIG_DIR", "config")

	cfgMap, err := loadMerged(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	cfgData, err := yaml.Marshal(cfgMap)
	if err != nil {
		log.Fatalf("failed to marshal config: %v", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	overrideFromEnv(&cfg)

	return &cfg
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if token := os.Getenv("SLACK_BOT_TOKEN"); token != "" {
		cfg.Slack.BotToken = token
	}
	if secret := os.Getenv("SLACK_SIGNING_SECRET"); secret != "" {
		cfg.Slack.SigningSecret = secret
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}
	if id := os.Getenv("SPREADSHEET_ID"); id != "" {
		cfg.Sheets.SpreadsheetID = id
	}
	if name := os.Getenv("SHEET_NAME"); name != "" {
		cfg.Sheets.SheetName = name
	}
	if gid := os.Getenv("SHEET_GID"); gid != "" {
		if g, err := strconv.ParseInt(gid, 10, 64); err == nil {
			cfg.Sheets.GID = g
		}
	}
	if file := os.Getenv("GOOGLE_SA_KEY_FILE"); file != "" {
		cfg.Sheets.CredentialsFile = file
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			cfg.Redis.DB = d
		}
	}
}
