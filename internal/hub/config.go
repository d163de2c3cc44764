package hub

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the hub's runtime settings, loaded from HUB_-prefixed
// environment variables.
type Config struct {
	ListenAddr        string        `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins    []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	MaxMessageSize    int64         `envconfig:"MAX_MESSAGE_SIZE" default:"4096"`
	SendBuffer        int           `envconfig:"SEND_BUFFER" default:"256"`
	RateLimitBurst    int           `envconfig:"RATE_LIMIT_BURST" default:"20"`
	RateLimitRefill   time.Duration `envconfig:"RATE_LIMIT_REFILL" default:"1s"`
	PingInterval      time.Duration `envconfig:"PING_INTERVAL" default:"54s"`
	PongWait          time.Duration `envconfig:"PONG_WAIT" default:"60s"`
	WriteWait         time.Duration `envconfig:"WRITE_WAIT" default:"10s"`
	ProximityRadiusKm float64       `envconfig:"PROXIMITY_RADIUS_KM" default:"5"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads configuration from the environment and normalizes values
// that are unset or out of range back to their defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("hub", &cfg); err != nil {
		return Config{}, err
	}
	return sanitize(cfg), nil
}

func defaultConfig() Config {
	return Config{
		ListenAddr:        ":8080",
		LogLevel:          "info",
		AllowedOrigins:    []string{"http://localhost:8080"},
		MaxMessageSize:    4096,
		SendBuffer:        256,
		RateLimitBurst:    20,
		RateLimitRefill:   time.Second,
		PingInterval:      54 * time.Second,
		PongWait:          60 * time.Second,
		WriteWait:         10 * time.Second,
		ProximityRadiusKm: 5,
		ShutdownTimeout:   10 * time.Second,
	}
}

func sanitize(cfg Config) Config {
	def := defaultConfig()

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = def.AllowedOrigins
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = def.RateLimitBurst
	}
	if cfg.RateLimitRefill <= 0 {
		cfg.RateLimitRefill = def.RateLimitRefill
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.ProximityRadiusKm <= 0 {
		cfg.ProximityRadiusKm = def.ProximityRadiusKm
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	// Pings must arrive well inside the pong window or healthy peers would
	// be reaped by their own read deadline.
	if cfg.PingInterval <= 0 || cfg.PongWait <= 0 || cfg.PingInterval >= cfg.PongWait {
		cfg.PingInterval = def.PingInterval
		cfg.PongWait = def.PongWait
	}

	return cfg
}
