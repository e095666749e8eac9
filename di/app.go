package di

import (
	"context"
	"errors"
	"shareit/infras/kafka"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/transport/http"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const closeTimeout = 5 * time.Second

// App is the served HTTP application together with the connections it owns.
type App struct {
	HTTP  *http.HTTP
	DB    *postgres.Connection
	Redis *goRedis.Client
	Kafka kafka.Client
	Otel  otel.Otel
}

// Close flushes traces and releases every connection, in reverse order of use.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := errors.Join(
		a.Otel.Shutdown(ctx),
		a.Kafka.Close(),
		a.Redis.Close(),
		a.DB.Close(),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to release resources")

		return err
	}

	log.Info().Msg("Resources released")

	return nil
}
