package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

// Service is the round archive. It satisfies game.RoundArchive.
type Service interface {
	// Health reports pool status as key/value pairs.
	Health(ctx context.Context) map[string]string

	RecordRound(ctx context.Context, rec internal.RoundRecord) error

	// RecentRounds returns up to limit rounds of a room, newest first.
	RecentRounds(ctx context.Context, roomCode string, limit int) ([]internal.RoundRecord, error)

	Close()
}

type Config struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
}

func ConfigFromEnv() Config {
	return Config{
		Host:     utils.GetEnvDefault("DB_HOST", ""),
		Port:     utils.GetEnvDefault("DB_PORT", "5432"),
		Database: utils.GetEnvDefault("DB_DATABASE", "rhetoric"),
		Username: utils.GetEnvDefault("DB_USERNAME", "postgres"),
		Password: utils.GetEnvDefault("DB_PASSWORD", ""),
		Schema:   utils.GetEnvDefault("DB_SCHEMA", "public"),
	}
}

// Enabled is false when no host is configured; the server then runs
// without an archive.
func (c Config) Enabled() bool {
	return c.Host != ""
}

func (c Config) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	q.Set("search_path", c.Schema)
	u.RawQuery = q.Encode()
	return u.String()
}

type service struct {
	pool *pgxpool.Pool
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS round_archive (
	id           BIGSERIAL PRIMARY KEY,
	room_code    TEXT        NOT NULL,
	mode         TEXT        NOT NULL,
	round        INTEGER     NOT NULL,
	names        JSONB       NOT NULL,
	scores       JSONB       NOT NULL,
	round_scores JSONB       NOT NULL,
	territory    JSONB       NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS round_archive_room_idx ON round_archive (room_code, finished_at DESC);
`

// New connects, pings and makes sure the archive table exists.
func New(ctx context.Context, connString string) (Service, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	log.Info().Msg("[database.New] connected to postgres")
	return &service{pool: pool}, nil
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	st := s.pool.Stat()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["total_connections"] = strconv.Itoa(int(st.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(st.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(st.AcquiredConns()))
	stats["max_connections"] = strconv.Itoa(int(st.MaxConns()))
	return stats
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func (s *service) RecordRound(ctx context.Context, rec internal.RoundRecord) error {
	names := rec.Names
	if names == nil {
		names = map[string]string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO round_archive (room_code, mode, round, names, scores, round_scores, territory, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.RoomCode, string(rec.Mode), rec.Round, names,
		nonNil(rec.Scores), nonNil(rec.RoundScores), nonNil(rec.Territory), rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record round %s/%d: %w", rec.RoomCode, rec.Round, err)
	}
	return nil
}

func (s *service) RecentRounds(ctx context.Context, roomCode string, limit int) ([]internal.RoundRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT room_code, mode, round, names, scores, round_scores, territory, finished_at
		 FROM round_archive WHERE room_code = $1
		 ORDER BY finished_at DESC, id DESC LIMIT $2`,
		roomCode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query rounds of %s: %w", roomCode, err)
	}

	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.RoundRecord, error) {
		var rec internal.RoundRecord
		var mode string
		err := row.Scan(&rec.RoomCode, &mode, &rec.Round, &rec.Names, &rec.Scores, &rec.RoundScores, &rec.Territory, &rec.FinishedAt)
		rec.Mode = internal.GameMode(mode)
		return rec, err
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scan rounds of %s: %w", roomCode, err)
	}
	return recs, nil
}

func (s *service) Close() {
	log.Info().Msg("[database.Close] disconnecting from postgres")
	s.pool.Close()
}
