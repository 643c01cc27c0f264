// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"dialogue-platform/pkg/errors"
)

// MemoryStore 内存缓存存储实现
type MemoryStore struct {
	items map[string]*cacheItem
	lists map[string]*listItem
	mu    sync.RWMutex
}

// cacheItem 缓存项
type cacheItem struct {
	value      []byte
	expiration int64
}

// listItem 列表项（Append/List）
type listItem struct {
	values     [][]byte
	expiration int64
}

// NewMemoryStore 创建新的内存缓存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*cacheItem),
		lists: make(map[string]*listItem),
	}
}

// Set 设置缓存
func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	s.items[key] = &cacheItem{
		value:      data,
		expiration: expireAt(expiration),
	}
	return nil
}

// Get 获取缓存
func (s *MemoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	item, exists := s.items[key]
	s.mu.RUnlock()

	if !exists || expired(item.expiration) {
		return errors.Wrapf(errors.ErrNotFound, "cache key %s", key)
	}
	if err := json.Unmarshal(item.value, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

// Delete 删除缓存（KV 与列表同 key 一并删除）
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	delete(s.lists, key)
	return nil
}

// Exists 检查缓存是否存在
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.items[key]; ok && !expired(item.expiration) {
		return true, nil
	}
	if l, ok := s.lists[key]; ok && !expired(l.expiration) {
		return true, nil
	}
	return false, nil
}

// Append 追加列表元素，maxLen>0 时裁剪为最新 maxLen 条
func (s *MemoryStore) Append(ctx context.Context, key string, value interface{}, maxLen int64, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal list value: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[key]
	if !ok || expired(l.expiration) {
		l = &listItem{}
		s.lists[key] = l
	}
	l.values = append(l.values, data)
	if maxLen > 0 && int64(len(l.values)) > maxLen {
		l.values = l.values[int64(len(l.values))-maxLen:]
	}
	l.expiration = expireAt(expiration)
	return nil
}

// List 返回列表全部元素
func (s *MemoryStore) List(ctx context.Context, key string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[key]
	if !ok || expired(l.expiration) {
		return nil, nil
	}
	out := make([][]byte, len(l.values))
	copy(out, l.values)
	return out, nil
}

// Expire 重置过期时间
func (s *MemoryStore) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[key]; ok {
		item.expiration = expireAt(expiration)
	}
	if l, ok := s.lists[key]; ok {
		l.expiration = expireAt(expiration)
	}
	return nil
}

// Clear 清除所有缓存
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*cacheItem)
	s.lists = make(map[string]*listItem)
	return nil
}

// Close 关闭缓存连接
func (s *MemoryStore) Close() error {
	return nil
}

func expireAt(expiration time.Duration) int64 {
	if expiration > 0 {
		return time.Now().Add(expiration).UnixNano()
	}
	return 0
}

func expired(at int64) bool {
	return at > 0 && time.Now().UnixNano() > at
}
