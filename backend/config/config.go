package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adwski/watchparty/backend/storage/memory"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "WATCHPARTY"

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	APIListenAddr  string
	WSListenAddr   string
	LogLevel       string
	LogPretty      bool
	RoomEviction   memory.EvictionPolicy
	RoomIdleTTL    time.Duration
	SendBuffer     int
	PingInterval   time.Duration
	PongWait       time.Duration
	AllowedOrigins []string
}

// Load builds configuration from command line arguments, environment
// (WATCHPARTY_* variables, optionally from a .env file) and an optional yaml config file.
// Command line takes precedence over environment, environment over file.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	fs := pflag.NewFlagSet("main", pflag.ContinueOnError)
	fs.StringP("api-listen-addr", "a", ":8080", "api listen address")
	fs.StringP("ws-listen-addr", "w", ":8888", "websocket relay listen address")
	fs.StringP("log-level", "l", "debug", "log level")
	fs.Bool("log-pretty", false, "human readable console logs")
	fs.String("room-eviction", string(memory.EvictIdle), "what to do with rooms nobody is in: never, immediate, idle")
	fs.Duration("room-idle-ttl", 10*time.Minute, "how long an empty room is kept with idle eviction")
	fs.Int("send-buffer", 64, "outbound messages buffered per connection before dropping")
	fs.Duration("ws-ping-interval", 5*time.Second, "websocket ping interval")
	fs.Duration("ws-pong-wait", 7*time.Second, "how long to wait for websocket pong, must exceed ping interval")
	fs.StringSlice("cors-origins", []string{"*"}, "comma separated origins allowed to call the api")
	fs.StringP("config", "c", "", "path to yaml config file")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Join(ErrConfig, fmt.Errorf("failed to read config: %w", err))
		}
	}

	eviction, err := memory.ParseEvictionPolicy(v.GetString("room-eviction"))
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	cfg := &Config{
		APIListenAddr:  v.GetString("api-listen-addr"),
		WSListenAddr:   v.GetString("ws-listen-addr"),
		LogLevel:       v.GetString("log-level"),
		LogPretty:      v.GetBool("log-pretty"),
		RoomEviction:   eviction,
		RoomIdleTTL:    v.GetDuration("room-idle-ttl"),
		SendBuffer:     v.GetInt("send-buffer"),
		PingInterval:   v.GetDuration("ws-ping-interval"),
		PongWait:       v.GetDuration("ws-pong-wait"),
		AllowedOrigins: splitList(v.GetStringSlice("cors-origins")),
	}
	if cfg.SendBuffer <= 0 {
		return nil, fmt.Errorf("%w: send-buffer must be positive", ErrConfig)
	}
	if cfg.PongWait <= cfg.PingInterval {
		return nil, fmt.Errorf("%w: ws-pong-wait must exceed ws-ping-interval", ErrConfig)
	}
	return cfg, nil
}

// splitList splits comma separated items. viper splits env values on whitespace only,
// so WATCHPARTY_CORS_ORIGINS=a,b arrives as a single item.
func splitList(items []string) []string {
	return lo.Compact(lo.FlatMap(items, func(item string, _ int) []string {
		return lo.Map(strings.Split(item, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		})
	}))
}
