package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr         string        `yaml:"server_address"`
	GRPCAddr        string        `yaml:"grpc_address"`
	BaseURL         string        `yaml:"base_url"`
	SharePath       string        `yaml:"share_path"`
	FileStoragePath string        `yaml:"file_storage_path"`
	DatabaseDSN     string        `yaml:"database_dsn"`
	JWTSecret       string        `yaml:"jwt_secret"`
	CookieTTL       time.Duration `yaml:"cookie_ttl"`
	TrustedSubnet   string        `yaml:"trusted_subnet"`
	AniListURL      string        `yaml:"anilist_url"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	LogLevel        string        `yaml:"log_level"`
	// EnableGRPC вычисляется из GRPCAddr
	EnableGRPC bool `yaml:"-"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		RunAddr:      ":8080",
		BaseURL:      "http://localhost:8080",
		SharePath:    "/share/",
		JWTSecret:    "default_jwt_secret",
		CookieTTL:    24 * time.Hour,
		AniListURL:   "https://graphql.anilist.co",
		FetchTimeout: 30 * time.Second,
		LogLevel:     "info",
	}
}

// NewConfig собирает конфигурацию: значения по умолчанию, YAML-файл, флаги командной строки
// и переменные окружения, каждый следующий источник перекрывает предыдущий
func NewConfig(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("smashorpass", flag.ContinueOnError)
	var flags Config
	configPath := fs.String("c", "", "path to YAML config file")
	fs.StringVar(&flags.RunAddr, "a", cfg.RunAddr, "address and port to run HTTP server")
	fs.StringVar(&flags.GRPCAddr, "g", "", "address and port to run gRPC server (disabled when empty)")
	fs.StringVar(&flags.BaseURL, "b", cfg.BaseURL, "base URL for share links")
	fs.StringVar(&flags.SharePath, "s", cfg.SharePath, "path of the share viewer")
	fs.StringVar(&flags.FileStoragePath, "f", "", "path to file for storing the character catalog")
	fs.StringVar(&flags.DatabaseDSN, "d", "", "database DSN for PostgreSQL or SQLite")
	fs.StringVar(&flags.JWTSecret, "j", cfg.JWTSecret, "JWT secret key")
	fs.DurationVar(&flags.CookieTTL, "cookie-ttl", cfg.CookieTTL, "lifetime of the auth cookie")
	fs.StringVar(&flags.TrustedSubnet, "t", "", "trusted subnet in CIDR notation")
	fs.StringVar(&flags.AniListURL, "anilist", cfg.AniListURL, "AniList GraphQL endpoint")
	fs.DurationVar(&flags.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "timeout of AniList requests")
	fs.StringVar(&flags.LogLevel, "l", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Файл конфигурации
	path := *configPath
	if env := os.Getenv("CONFIG"); env != "" {
		path = env
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Флаги перекрывают файл, только если заданы явно
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.RunAddr = flags.RunAddr
		case "g":
			cfg.GRPCAddr = flags.GRPCAddr
		case "b":
			cfg.BaseURL = flags.BaseURL
		case "s":
			cfg.SharePath = flags.SharePath
		case "f":
			cfg.FileStoragePath = flags.FileStoragePath
		case "d":
			cfg.DatabaseDSN = flags.DatabaseDSN
		case "j":
			cfg.JWTSecret = flags.JWTSecret
		case "cookie-ttl":
			cfg.CookieTTL = flags.CookieTTL
		case "t":
			cfg.TrustedSubnet = flags.TrustedSubnet
		case "anilist":
			cfg.AniListURL = flags.AniListURL
		case "fetch-timeout":
			cfg.FetchTimeout = flags.FetchTimeout
		case "l":
			cfg.LogLevel = flags.LogLevel
		}
	})

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// Валидация значений
	cfg.RunAddr = validateAddress(cfg.RunAddr)
	if cfg.GRPCAddr != "" {
		cfg.GRPCAddr = validateAddress(cfg.GRPCAddr)
	}
	cfg.BaseURL = validateBaseURL(cfg.BaseURL)
	cfg.SharePath = validateSharePath(cfg.SharePath)
	cfg.EnableGRPC = cfg.GRPCAddr != ""

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"SERVER_ADDRESS", &cfg.RunAddr},
		{"GRPC_ADDRESS", &cfg.GRPCAddr},
		{"BASE_URL", &cfg.BaseURL},
		{"SHARE_PATH", &cfg.SharePath},
		{"FILE_STORAGE_PATH", &cfg.FileStoragePath},
		{"DATABASE_DSN", &cfg.DatabaseDSN},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"TRUSTED_SUBNET", &cfg.TrustedSubnet},
		{"ANILIST_URL", &cfg.AniListURL},
		{"LOG_LEVEL", &cfg.LogLevel},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"COOKIE_TTL", &cfg.CookieTTL},
		{"FETCH_TIMEOUT", &cfg.FetchTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dst = parsed
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func validateAddress(addr string) string {
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

func validateBaseURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return strings.TrimSuffix(url, "/")
}

func validateSharePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}
