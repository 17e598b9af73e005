// Package cache は参照画像のバイト列を Redis に保持する ImageCacher 実装を提供します。
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultKeyPrefix は全てのキーに付与される名前空間です。
const DefaultKeyPrefix = "studio:"

// commander は RedisCache が利用する Redis コマンドの最小集合です。
type commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache は generator.ImageCacher を Redis 上で実現します。
type RedisCache struct {
	client commander
	closer func() error
	prefix string
}

// Open は redis:// 形式の URL から接続を確立し、疎通を確認します。
func Open(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("Redis URL の解析に失敗しました: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis への接続に失敗しました: %w", err)
	}
	return &RedisCache{client: client, closer: client.Close, prefix: DefaultKeyPrefix}, nil
}

// New は既存のクライアントから RedisCache を作成します。
func New(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, closer: client.Close, prefix: DefaultKeyPrefix}
}

// Get はキャッシュされた値を返します。未登録や接続エラーはミスとして扱います。
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "キャッシュの読み込みに失敗しました", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set は値を ttl 付きで保存します。ttl が 0 の場合は期限なしです。
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "キャッシュの書き込みに失敗しました", "key", key, "error", err)
	}
}

// Close は接続を閉じます。
func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
