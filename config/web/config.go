package config

import "github.com/ilyakaznacheev/cleanenv"

type Config struct {
	Port              int           `env:"PORT" env-default:"8080"`
	Model             ModelConfig   `env-prefix:"MODEL_"`
	TranscriptService ServiceConfig `env-prefix:"TRANSCRIPT_"`
	SpeakerMapPath    string        `env:"SPEAKER_MAP_PATH"`
	MaxConcurrentJobs int64         `env:"MAX_CONCURRENT_JOBS" env-default:"4"`
	HealthThreshold   float64       `env:"HEALTH_THRESHOLD" env-default:"0.8"`
}

type ModelConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Name    string `env:"NAME" env-default:"gemini-2.0-flash"`
}

type ServiceConfig struct {
	Port int    `env:"PORT" env-default:"8081"`
	Url  string `env:"URL" env-default:"localhost"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}

	return &cfg
}
