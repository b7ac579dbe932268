package app

import (
	server "github.com/AmitAMahadik/ExAstra/internal/adapters/primary/http"
	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/ephemeris"
	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/geocoding"
	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/openai"
	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/storage/redis"
	"github.com/AmitAMahadik/ExAstra/internal/pkg/logger"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres  *pg.Config           `envconfig:"POSTGRES"`
	Redis     *redisAdapter.Config `envconfig:"REDIS"`
	Log       *logger.Config       `envconfig:"LOG"`
	Server    *server.Config       `envconfig:"APISERVER"`
	Geocoding *geocoding.Config    `envconfig:"GEOCODING"`
	Ephemeris *ephemeris.Config    `envconfig:"EPHEMERIS"`
	OpenAI    *openai.Config       `envconfig:"OPENAI"`
	Astrology *astrology.Config    `envconfig:"ASTROLOGY"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
