package valkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AzielCF/daily-post/core/config"
	valkeylib "github.com/valkey-io/valkey-go"
)

const DefaultConnectTimeout = 5 * time.Second

// releaseScript deletes a lease only while it still holds the caller's token.
var releaseScript = valkeylib.NewLuaScript(`if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`)

// Client coordinates scheduler nodes through short-lived leases.
type Client struct {
	inner     valkeylib.Client
	keyPrefix string
}

// NewClient connects and pings once. The caller owns Close.
func NewClient(cfg config.DatabaseConfig) (*Client, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.ValkeyAddress},
		SelectDB:    cfg.ValkeyDB,
		Password:    cfg.ValkeyPassword,
		// Leases are never read through the client-side cache.
		DisableCache: true,
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()
	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey at %s: %w", cfg.ValkeyAddress, err)
	}

	return &Client{inner: inner, keyPrefix: normalizePrefix(cfg.ValkeyKeyPrefix)}, nil
}

func normalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix
}

func (c *Client) Close() {
	if c.inner != nil {
		c.inner.Close()
	}
}

// Key joins parts under the configured prefix, e.g. Key("publish-lease", "2026-03-02")
// gives "dailypost:publish-lease:2026-03-02".
func (c *Client) Key(parts ...string) string {
	if len(parts) == 0 {
		return strings.TrimSuffix(c.keyPrefix, ":")
	}
	return c.keyPrefix + strings.Join(parts, ":")
}

func (c *Client) Ping(ctx context.Context) error {
	return c.inner.Do(ctx, c.inner.B().Ping().Build()).Error()
}

// AcquireLease stores owner under key only if the key is free. The lease
// expires after ttl so a crashed node never blocks the next day.
func (c *Client) AcquireLease(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	cmd := c.inner.B().Set().Key(key).Value(owner).Nx().Ex(ttl).Build()
	if err := c.inner.Do(ctx, cmd).Error(); err != nil {
		if valkeylib.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLease drops key when owner still holds it.
func (c *Client) ReleaseLease(ctx context.Context, key, owner string) error {
	return releaseScript.Exec(ctx, c.inner, []string{key}, []string{owner}).Error()
}
