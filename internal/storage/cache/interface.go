package cache

import (
	"context"
	"time"
)

// Store 缓存/持久化协作方接口：KV + 有界列表追加 + TTL
type Store interface {
	// Set 设置缓存
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// Get 获取缓存并反序列化到 dest；不存在时返回 errors.ErrNotFound
	Get(ctx context.Context, key string, dest interface{}) error
	// Delete 删除缓存
	Delete(ctx context.Context, key string) error
	// Exists 检查缓存是否存在
	Exists(ctx context.Context, key string) (bool, error)
	// Append 追加一个元素到 key 对应的列表尾部；maxLen>0 时仅保留最新 maxLen 条
	Append(ctx context.Context, key string, value interface{}, maxLen int64, expiration time.Duration) error
	// List 返回 key 对应列表的全部元素（JSON 字节，按追加顺序）
	List(ctx context.Context, key string) ([][]byte, error)
	// Expire 重置 key 的过期时间
	Expire(ctx context.Context, key string, expiration time.Duration) error
	// Clear 清除所有缓存
	Clear(ctx context.Context) error
	// Close 关闭缓存连接
	Close() error
}
