package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Brownie44l1/minihttp/internal/server"
)

const envPrefix = "MINIHTTP_"

type Config struct {
	Server struct {
		Address        string    `yaml:"address"`
		Port           int       `yaml:"port"`
		ReadTimeout    Duration  `yaml:"read_timeout"`
		WriteTimeout   Duration  `yaml:"write_timeout"`
		ReadBufferSize SizeBytes `yaml:"read_buffer_size"`
		AcceptRate     float64   `yaml:"accept_rate"`
		AcceptBurst    int       `yaml:"accept_burst"`
	} `yaml:"server"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	def := server.DefaultConfig()

	var cfg Config
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = Duration(def.ReadTimeout)
	cfg.Server.WriteTimeout = Duration(def.WriteTimeout)
	cfg.Server.ReadBufferSize = SizeBytes(def.ReadBufferSize)
	cfg.Logging.Level = "info"
	cfg.Metrics.Address = "127.0.0.1:9090"

	return &cfg
}

// Addr returns host:port for the server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// ServerConfig converts the file settings into the connection loop's config.
func (c *Config) ServerConfig() server.Config {
	return server.Config{
		Addr:           c.Addr(),
		ReadTimeout:    c.Server.ReadTimeout.Duration(),
		WriteTimeout:   c.Server.WriteTimeout.Duration(),
		ReadBufferSize: c.Server.ReadBufferSize.Int(),
		AcceptRate:     c.Server.AcceptRate,
		AcceptBurst:    c.Server.AcceptBurst,
	}
}

// Load reads a YAML config file on top of the defaults. A missing file is
// only an error when mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// ApplyEnv applies MINIHTTP_* environment overrides onto cfg and reports
// whether any were used.
func ApplyEnv(cfg *Config) (bool, error) {
	envUsed := false

	if v := os.Getenv(envPrefix + "ADDR"); v != "" {
		envUsed = true
		if err := cfg.SetAddr(v); err != nil {
			return envUsed, errors.Wrap(err, envPrefix+"ADDR")
		}
	}
	if v := os.Getenv(envPrefix + "READ_TIMEOUT"); v != "" {
		envUsed = true
		d, err := parseDuration(v)
		if err != nil {
			return envUsed, errors.Wrap(err, envPrefix+"READ_TIMEOUT")
		}
		cfg.Server.ReadTimeout = d
	}
	if v := os.Getenv(envPrefix + "WRITE_TIMEOUT"); v != "" {
		envUsed = true
		d, err := parseDuration(v)
		if err != nil {
			return envUsed, errors.Wrap(err, envPrefix+"WRITE_TIMEOUT")
		}
		cfg.Server.WriteTimeout = d
	}
	if v := os.Getenv(envPrefix + "READ_BUFFER_SIZE"); v != "" {
		envUsed = true
		s, err := parseSize(v)
		if err != nil {
			return envUsed, errors.Wrap(err, envPrefix+"READ_BUFFER_SIZE")
		}
		cfg.Server.ReadBufferSize = s
	}
	if v := os.Getenv(envPrefix + "ACCEPT_RATE"); v != "" {
		envUsed = true
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return envUsed, errors.Errorf("invalid accept rate: %q", v)
		}
		cfg.Server.AcceptRate = f
	}
	if v := os.Getenv(envPrefix + "ACCEPT_BURST"); v != "" {
		envUsed = true
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envUsed, errors.Errorf("invalid accept burst: %q", v)
		}
		cfg.Server.AcceptBurst = n
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "METRICS_ENABLED"); v != "" {
		envUsed = true
		vl := strings.ToLower(strings.TrimSpace(v))
		cfg.Metrics.Enabled = vl == "1" || vl == "true" || vl == "yes"
	}
	if v := os.Getenv(envPrefix + "METRICS_ADDR"); v != "" {
		envUsed = true
		cfg.Metrics.Address = v
	}

	return envUsed, nil
}

// SetAddr splits a host:port pair into the server address and port.
func (c *Config) SetAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.Wrapf(err, "invalid address %q", addr)
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return errors.Errorf("invalid port in %q", addr)
	}

	c.Server.Address = host
	c.Server.Port = p
	return nil
}

// Validate rejects values the server can't run with. The log level is
// lowercased in place.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.ReadBufferSize <= 0 {
		return errors.New("server.read_buffer_size must be positive")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if c.Server.AcceptRate < 0 || c.Server.AcceptBurst < 0 {
		return errors.New("server accept rate and burst must not be negative")
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return errors.New("metrics.address is required when metrics are enabled")
	}
	return nil
}
