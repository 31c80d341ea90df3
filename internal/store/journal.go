package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baedyl/proaicontent/config"
)

// UsageEntry is one billing reconciliation row: credits are charged on
// words actually produced, so the journal records the real numbers.
type UsageEntry struct {
	UserID          string
	Topic           string
	ArtifactID      string
	WordCount       int
	Attempts        int
	TokensUsed      int64
	CreditsDeducted int64
	CreatedAt       time.Time
}

// UsageJournal records usage entries.
type UsageJournal interface {
	Record(ctx context.Context, entry UsageEntry) error
}

// PostgresJournal writes usage rows through a pgx pool.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

func NewPostgresJournal(ctx context.Context, cfg *config.PostgresConfig) (*PostgresJournal, error) {
	sslMode := "disable"
	if cfg.SSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PostgresJournal{pool: pool}, nil
}

const insertUsageQuery = `
	INSERT INTO usage_journal
		(user_id, topic, artifact_id, word_count, attempts, tokens_used, credits_deducted, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (j *PostgresJournal) Record(ctx context.Context, entry UsageEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := j.pool.Exec(ctx, insertUsageQuery,
		entry.UserID, entry.Topic, entry.ArtifactID, entry.WordCount,
		entry.Attempts, entry.TokensUsed, entry.CreditsDeducted, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

func (j *PostgresJournal) Close() {
	j.pool.Close()
}
