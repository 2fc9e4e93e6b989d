package config

import "github.com/ilyakaznacheev/cleanenv"

type Config struct {
	Port        int    `env:"PORT" env-default:"8081"`
	DatabaseURL string `env:"DATABASE_URL"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}

	return &cfg
}
