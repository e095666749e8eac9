package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"shareit/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
	postgresConnectTimeout    = 5 * time.Second
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type dsn struct {
	name, username, password, host, port, dbName, sslMode string
}

func (d dsn) String() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		d.username,
		d.password,
		net.JoinHostPort(d.host, d.port),
		d.dbName,
		d.sslMode,
	)
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write := dsn{"write", pg.Write.Username, pg.Write.Password, pg.Write.Host, pg.Write.Port, dbName(cfg, pg.Write.Name), pg.Write.SSLMode}
	read := dsn{"read", pg.Read.Username, pg.Read.Password, pg.Read.Host, pg.Read.Port, dbName(cfg, pg.Read.Name), pg.Read.SSLMode}

	return &Connection{
		Read:  mustConnect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: mustConnect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// NewFromDB wraps a single pool used for both reads and writes.
func NewFromDB(db *sqlx.DB) *Connection {
	return &Connection{Read: db, Write: db}
}

// Close releases both pools. Read and write may share one pool.
func (c *Connection) Close() error {
	errs := []error{}

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}

// dbName returns the database name with prefix if configured
func dbName(cfg *config.Config, baseName string) string {
	return cfg.DB.Postgres.Prefix + baseName
}

func mustConnect(d dsn, maxRetry, waitTime int) *sqlx.DB {
	db, err := connect(d, max(maxRetry, 1), waitTime)
	if err != nil {
		log.Fatal().Err(err).Str("name", d.name).Str("host", d.host).Msg("Giving up connecting to database")
	}

	return db
}

func connect(d dsn, maxRetry, waitTime int) (*sqlx.DB, error) {
	var lastErr error

	for retry := range maxRetry {
		ctx, cancel := context.WithTimeout(context.Background(), postgresConnectTimeout)
		db, err := sqlx.ConnectContext(ctx, "postgres", d.String())

		cancel()

		if err == nil {
			log.
				Info().
				Str("name", d.name).
				Str("host", d.host).
				Str("port", d.port).
				Str("dbName", d.dbName).
				Msg("Connected to database")

			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			return db, nil
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", d.name).
			Str("host", d.host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil, fmt.Errorf("connecting to %s database: %w", d.name, lastErr)
}
