package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

const (
	FrontendTerminal = "terminal"
	FrontendServer   = "server"
	FrontendWatch    = "watch"
)

var ErrUnknownFrontend = errors.New("unknown frontend")

type Config struct {
	LogLevel      string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile       string        `yaml:"log-file" env:"LOG_FILE" env-default:"tictactoe.log"`
	Frontend      string        `yaml:"frontend" env:"FRONTEND" env-default:"terminal"`
	DefaultMode   string        `yaml:"default-mode" env:"DEFAULT_MODE" env-default:"single"`
	ComputerDelay time.Duration `yaml:"computer-delay" env:"COMPUTER_DELAY" env-default:"500ms"`
	HTTPPort      string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort    string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis         Redis         `yaml:"redis"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:outcomes"`
}

// Load reads the yml file at path, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) validate() error {
	switch that.Frontend {
	case FrontendTerminal, FrontendServer, FrontendWatch:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrontend, that.Frontend)
	}

	if _, err := that.Mode(); err != nil {
		return fmt.Errorf("invalid default-mode: %w", err)
	}

	if that.ComputerDelay < 0 {
		return fmt.Errorf("computer-delay must not be negative, got %s", that.ComputerDelay)
	}

	return nil
}

// Mode returns the game mode the front-ends start with.
func (that *Config) Mode() (entity.Mode, error) {
	return entity.ParseMode(that.DefaultMode)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
