package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string     `yaml:"env"`
	BaseURL    string     `yaml:"base_url"`
	ShortCode  ShortCode  `yaml:"short_code"`
	Probe      Probe      `yaml:"probe"`
	Analytics  Analytics  `yaml:"analytics"`
	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Postgres   Postgres   `yaml:"postgres"`
	Redis      Redis      `yaml:"redis"`
}

type ShortCode struct {
	MaxRetries int `yaml:"max_retries"`
}

type Probe struct {
	Timeout time.Duration `yaml:"timeout"`
}

type Analytics struct {
	Limit         int           `yaml:"limit"`
	RecordTimeout time.Duration `yaml:"record_timeout"`
}

type Storage struct {
	Driver string `yaml:"driver"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Redis struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

var defaultRedis = Redis{
	Addr:         "localhost:6379",
	PoolSize:     10,
	DialTimeout:  5 * time.Second,
	ReadTimeout:  3 * time.Second,
	WriteTimeout: 3 * time.Second,
}

var (
	ErrUnknownEnv    = errors.New("unknown env")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrInvalidValue  = errors.New("invalid value")
)

// Validate reports the first setting that cannot be served.
func (c *Config) Validate() error {
	const op = "config.Config.Validate"

	switch c.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownEnv, c.Env)
	}

	switch c.Storage.Driver {
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownDriver, c.Storage.Driver)
	}

	if c.BaseURL == "" {
		return fmt.Errorf("%s: %w: base_url is empty", op, ErrInvalidValue)
	}
	if c.ShortCode.MaxRetries <= 0 {
		return fmt.Errorf("%s: %w: short_code.max_retries must be positive", op, ErrInvalidValue)
	}
	if c.Analytics.Limit <= 0 {
		return fmt.Errorf("%s: %w: analytics.limit must be positive", op, ErrInvalidValue)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("%s: %w: probe.timeout must be positive", op, ErrInvalidValue)
	}

	return nil
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvProd
	cfg.BaseURL = "http://localhost:8080/r"
	cfg.ShortCode = ShortCode{MaxRetries: 5}
	cfg.Probe = Probe{Timeout: 5 * time.Second}
	cfg.Analytics = Analytics{Limit: 1000, RecordTimeout: 2 * time.Second}
	cfg.Storage = Storage{Driver: DriverPostgres}
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Redis = defaultRedis
}
