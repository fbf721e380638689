package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`

	JoinRateLimit    int           `mapstructure:"join_rate_limit"`
	JoinRateInterval time.Duration `mapstructure:"join_rate_interval"`
	Backpressure     string        `mapstructure:"backpressure"`

	ICEServers []ICEServer `mapstructure:"ice_servers"`
}

const (
	BackpressureKick        = "kick"
	BackpressureDropSignals = "drop_signals"
)

const defaultSecret = "change-me"

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default), then SMILE_* env vars.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile is Load with an explicit file. A missing file is not an error.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("SMILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Int("ice_servers", len(cfg.ICEServers)).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 10000)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", defaultSecret)

	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("allowed_origins", []string{})

	v.SetDefault("join_rate_limit", 20)
	v.SetDefault("join_rate_interval", "1m")
	v.SetDefault("backpressure", BackpressureKick)

	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("invalid port")
	}
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	if c.Mode == "release" && (c.Secret == "" || c.Secret == defaultSecret) {
		log.Warn().Str("module", "config").Msg("secret is not set, client token cookies are signed with the default key")
	}
	if c.ReadLimit <= 0 {
		return errors.New("read_limit must be positive")
	}
	if c.SendBuffer < 1 {
		return errors.New("send_buffer must be at least 1")
	}
	if c.PingPeriod <= 0 || c.PongWait <= 0 || c.WriteWait <= 0 {
		return errors.New("ping_period, pong_wait and write_wait must be positive")
	}
	if c.PingPeriod >= c.PongWait {
		return errors.New("ping_period should be less than pong_wait")
	}
	if c.JoinRateLimit < 1 || c.JoinRateInterval <= 0 {
		return errors.New("join_rate_limit and join_rate_interval must be positive")
	}
	switch c.Backpressure {
	case BackpressureKick, BackpressureDropSignals:
	default:
		return fmt.Errorf("invalid backpressure policy %q", c.Backpressure)
	}
	if _, err := c.WebRTCICEServers(); err != nil {
		return err
	}
	return nil
}
