package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 24 * time.Hour

// MailDedup remembers which emails an account already requested.
// Key format: mail:dedup:<account_id>:<fingerprint>
type MailDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMailDedup creates a MailDedup wrapping the given Redis client.
func NewMailDedup(client *redis.Client, ttl time.Duration) *MailDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &MailDedup{client: client, ttl: ttl}
}

// Claim atomically records the fingerprint and reports whether it was unseen.
func (d *MailDedup) Claim(ctx context.Context, accountID, fingerprint string) (bool, error) {
	ok, err := d.client.SetNX(ctx, key(accountID, fingerprint), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mail dedup: %w", err)
	}
	return ok, nil
}

// Release deletes the claim so the fingerprint counts as unseen again.
func (d *MailDedup) Release(ctx context.Context, accountID, fingerprint string) error {
	if err := d.client.Del(ctx, key(accountID, fingerprint)).Err(); err != nil {
		return fmt.Errorf("mail dedup release: %w", err)
	}
	return nil
}

func key(accountID, fingerprint string) string {
	return fmt.Sprintf("mail:dedup:%s:%s", accountID, fingerprint)
}
