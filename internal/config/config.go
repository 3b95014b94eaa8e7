package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis   `yaml:"redis"`
	Storage  Storage `yaml:"storage"`
	Game     Game    `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"redis" validate:"oneof=redis memory"`
}

// Game holds the rules a fresh game starts with when nothing is persisted yet.
// The defaults here are the only place the standard 13/3 game is defined.
type Game struct {
	InitialPileSize int    `yaml:"initial-pile-size" env:"GAME_INITIAL_PILE_SIZE" env-default:"13" validate:"min=2"`
	MaxMoveSize     int    `yaml:"max-move-size" env:"GAME_MAX_MOVE_SIZE" env-default:"3" validate:"min=1"`
	Strategy        string `yaml:"strategy" env:"GAME_STRATEGY" env-default:"optimal" validate:"oneof=optimal random"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
