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

package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"dialogue-platform/internal/storage/cache"
	"dialogue-platform/pkg/errors"
)

const (
	ctxKeyPrefix     = "conversation:ctx:"
	historyKeyPrefix = "conversation:history:"
)

// ContextStore 会话上下文与历史的持久层，底层是 cache.Store。
// ids 索引仅用于 Count：缓存端过期的会话在下次 Get 时惰性剔除。
type ContextStore struct {
	store   cache.Store
	ttl     time.Duration
	maxHist int

	mu  sync.Mutex
	ids map[string]struct{}
}

func NewContextStore(store cache.Store, ttl time.Duration, maxHistory int) *ContextStore {
	return &ContextStore{
		store:   store,
		ttl:     ttl,
		maxHist: maxHistory,
		ids:     make(map[string]struct{}),
	}
}

// Get 返回会话上下文；不存在（或已过期）返回 (nil, nil)
func (s *ContextStore) Get(ctx context.Context, conversationID string) (*Context, error) {
	var c Context
	err := s.store.Get(ctx, ctxKeyPrefix+conversationID, &c)
	if errors.IsNotFound(err) {
		s.mu.Lock()
		delete(s.ids, conversationID)
		s.mu.Unlock()
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load conversation context")
	}
	return &c, nil
}

// Put 写入会话上下文并重置 TTL
func (s *ContextStore) Put(ctx context.Context, c *Context) error {
	c.UpdatedAt = time.Now()
	if err := s.store.Set(ctx, ctxKeyPrefix+c.ConversationID, c, s.ttl); err != nil {
		return errors.Wrap(err, "save conversation context")
	}
	// 历史的 TTL 跟随上下文
	_ = s.store.Expire(ctx, historyKeyPrefix+c.ConversationID, s.ttl)
	s.mu.Lock()
	s.ids[c.ConversationID] = struct{}{}
	s.mu.Unlock()
	return nil
}

// AppendTurn 追加一轮历史，仅保留最新 maxHist 条
func (s *ContextStore) AppendTurn(ctx context.Context, conversationID string, turn Turn) error {
	err := s.store.Append(ctx, historyKeyPrefix+conversationID, turn, int64(s.maxHist), s.ttl)
	if err != nil {
		return errors.Wrap(err, "append conversation turn")
	}
	return nil
}

// History 返回会话历史（按时间先后）
func (s *ContextStore) History(ctx context.Context, conversationID string) ([]Turn, error) {
	raw, err := s.store.List(ctx, historyKeyPrefix+conversationID)
	if err != nil {
		return nil, errors.Wrap(err, "load conversation history")
	}
	turns := make([]Turn, 0, len(raw))
	for _, b := range raw {
		var t Turn
		if err := json.Unmarshal(b, &t); err != nil {
			continue // 跳过损坏的历史条目
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Delete 删除会话的上下文与历史
func (s *ContextStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.store.Delete(ctx, ctxKeyPrefix+conversationID); err != nil {
		return errors.Wrap(err, "delete conversation context")
	}
	if err := s.store.Delete(ctx, historyKeyPrefix+conversationID); err != nil {
		return errors.Wrap(err, "delete conversation history")
	}
	s.mu.Lock()
	delete(s.ids, conversationID)
	s.mu.Unlock()
	return nil
}

// Count 当前活跃会话数（以本进程写入过且未删除的为准）
func (s *ContextStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Close 关闭底层缓存
func (s *ContextStore) Close() error {
	return s.store.Close()
}
