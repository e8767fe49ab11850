package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单、当前学期缓存与接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 当前学期缓存 ──

const currentSemesterKey = "registry:current_semester"

// CacheCurrentSemester 缓存当前学期 ID
func (c *Client) CacheCurrentSemester(ctx context.Context, semesterID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, currentSemesterKey, semesterID, ttl).Err()
}

// GetCachedCurrentSemester 读取缓存的当前学期 ID，未命中返回空串
func (c *Client) GetCachedCurrentSemester(ctx context.Context) (string, error) {
	val, err := c.rdb.Get(ctx, currentSemesterKey).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return val, err
}

// InvalidateCurrentSemester 学期状态变更后清除缓存
func (c *Client) InvalidateCurrentSemester(ctx context.Context) error {
	return c.rdb.Del(ctx, currentSemesterKey).Err()
}

// ── 限流 ──

// CheckRateLimit 固定窗口计数限流，允许返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
