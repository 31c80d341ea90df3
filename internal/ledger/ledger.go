// Package ledger defines the credit contract the pipeline's caller uses:
// check balance before generating, debit the words actually produced after,
// refund when persistence fails post-generation.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrInsufficientCredits is returned when a debit would push the balance
// below zero.
var ErrInsufficientCredits = errors.New("insufficient credits")

// CreditLedger is the external billing collaborator.
type CreditLedger interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Debit(ctx context.Context, userID string, amount int64) (remaining int64, err error)
	Refund(ctx context.Context, userID string, amount int64) error
}

// debitScript decrements only when the balance covers the amount, so
// concurrent requests cannot overdraw.
var debitScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local amount = tonumber(ARGV[1])
if balance < amount then
  return -1
end
return redis.call("DECRBY", KEYS[1], amount)
`)

// RedisLedger keeps per-user balances in redis.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func creditKey(userID string) string { return "credits:" + userID }

func (l *RedisLedger) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := l.client.Get(ctx, creditKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func (l *RedisLedger) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	remaining, err := debitScript.Run(ctx, l.client, []string{creditKey(userID)}, amount).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to debit credits: %w", err)
	}
	if remaining < 0 {
		return 0, ErrInsufficientCredits
	}
	return remaining, nil
}

func (l *RedisLedger) Refund(ctx context.Context, userID string, amount int64) error {
	if err := l.client.IncrBy(ctx, creditKey(userID), amount).Err(); err != nil {
		return fmt.Errorf("failed to refund credits: %w", err)
	}
	return nil
}
